package assessment

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/curriculum"
	"github.com/trezcool/shule/core/student"
)

var ErrNotFound = errors.New("assessment not found")

type (
	Repository interface {
		CreateAssessment(asmt CompetencyAssessment) (CompetencyAssessment, error)
		// FilterAssessments applies AND operation on available QueryFilter
		// fields. QueryFilter.LearningAreaID restricts to assessments whose
		// outcome belongs to that Learning Area's subtree.
		FilterAssessments(filter QueryFilter, ordering ...core.DBOrdering) ([]CompetencyAssessment, error)
		// QueryStudentAttempts returns a student's quiz attempts in the given
		// statuses, optionally restricted to quizzes linked to one Learning
		// Area's outcome subtree (areaID == "" means all).
		QueryStudentAttempts(studentID, areaID string, statuses ...AttemptStatus) ([]QuizAttempt, error)
		QueryQuizzesByID(ids ...string) ([]Quiz, error)
	}

	Service struct {
		repo       Repository
		curriculum *curriculum.Service
		students   *student.Service
	}
)

func NewService(repo Repository, currSvc *curriculum.Service, stdSvc *student.Service) *Service {
	return &Service{
		repo:       repo,
		curriculum: currSvc,
		students:   stdSvc,
	}
}

// Record appends a new manual CompetencyAssessment row. Existing rows are
// never updated; a later row supersedes an earlier one at report time.
func (svc *Service) Record(na NewAssessment) (CompetencyAssessment, error) {
	if err := na.Validate(); err != nil {
		return CompetencyAssessment{}, err
	}
	if _, err := svc.students.GetByID(na.StudentID); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return CompetencyAssessment{}, core.NewValidationError(err, core.FieldError{Field: "student_id", Error: err.Error()})
		}
		return CompetencyAssessment{}, errors.Wrap(err, "checking student")
	}
	if _, err := svc.curriculum.GetOutcome(na.OutcomeID); err != nil {
		if errors.Cause(err) == curriculum.ErrOutcomeNotFound {
			return CompetencyAssessment{}, core.NewValidationError(err, core.FieldError{Field: "learning_outcome_id", Error: err.Error()})
		}
		return CompetencyAssessment{}, errors.Wrap(err, "checking learning outcome")
	}

	now := time.Now().UTC()
	asmt := CompetencyAssessment{
		ID:             uuid.New().String(),
		StudentID:      na.StudentID,
		OutcomeID:      na.OutcomeID,
		Level:          Level(na.Level),
		AssessedOn:     toDate(now),
		TeacherID:      na.TeacherID,
		TeacherComment: na.TeacherComment,
		Evidence:       na.Evidence,
		CreatedAt:      now,
	}
	return svc.repo.CreateAssessment(asmt)
}

func (svc *Service) Filter(filter QueryFilter, ordering ...core.DBOrdering) ([]CompetencyAssessment, error) {
	filter.Clean()
	return svc.repo.FilterAssessments(filter, ordering...)
}

// StudentAssessments returns all manual assessments for a student, optionally
// scoped to one Learning Area's outcome subtree.
func (svc *Service) StudentAssessments(studentID, areaID string) ([]CompetencyAssessment, error) {
	return svc.repo.FilterAssessments(QueryFilter{StudentID: studentID, LearningAreaID: areaID})
}

// StudentGradedAttempts returns a student's graded quiz attempts (manual or
// automatic grading) with their quizzes, optionally scoped to one Learning
// Area. In-progress and ungraded attempts are excluded entirely.
func (svc *Service) StudentGradedAttempts(studentID, areaID string) ([]QuizAttempt, []Quiz, error) {
	attempts, err := svc.repo.QueryStudentAttempts(studentID, areaID, GradedStatuses...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying quiz attempts")
	}

	seen := make(map[string]bool)
	quizIDs := make([]string, 0, len(attempts))
	for _, att := range attempts {
		if !seen[att.QuizID] {
			quizIDs = append(quizIDs, att.QuizID)
			seen[att.QuizID] = true
		}
	}
	if len(quizIDs) == 0 {
		return attempts, nil, nil
	}

	quizzes, err := svc.repo.QueryQuizzesByID(quizIDs...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying quizzes")
	}
	return attempts, quizzes, nil
}
