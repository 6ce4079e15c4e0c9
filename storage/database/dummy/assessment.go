package dummydb

import (
	"sort"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assessment"
)

type assessmentRepository struct {
	db         *assessmentTable
	curriculum *curriculumTable
}

var _ assessment.Repository = (*assessmentRepository)(nil) // interface compliance check

func NewAssessmentRepository(db *DB) assessment.Repository {
	return &assessmentRepository{db: db.assessment, curriculum: db.curriculum}
}

// outcomeAreaID walks outcome -> sub-strand -> strand to find the owning
// Learning Area. Unknown outcomes resolve to "".
func (repo *assessmentRepository) outcomeAreaID(outcomeID string) string {
	repo.curriculum.RLock()
	defer repo.curriculum.RUnlock()

	out, ok := repo.curriculum.outcomes[outcomeID]
	if !ok {
		return ""
	}
	var strandID string
	for _, ss := range repo.curriculum.subStrands {
		if ss.ID == out.SubStrandID {
			strandID = ss.StrandID
			break
		}
	}
	for _, strand := range repo.curriculum.strands {
		if strand.ID == strandID {
			return strand.LearningAreaID
		}
	}
	return ""
}

func (repo *assessmentRepository) CreateAssessment(asmt assessment.CompetencyAssessment) (assessment.CompetencyAssessment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.assessments = append(repo.db.assessments, asmt)
	return asmt, nil
}

func (repo *assessmentRepository) FilterAssessments(filter assessment.QueryFilter, ordering ...core.DBOrdering) ([]assessment.CompetencyAssessment, error) {
	repo.db.RLock()
	asmts := make([]assessment.CompetencyAssessment, 0, len(repo.db.assessments))
	for _, asmt := range repo.db.assessments {
		if filter.StudentID != "" && asmt.StudentID != filter.StudentID {
			continue
		}
		if filter.OutcomeID != "" && asmt.OutcomeID != filter.OutcomeID {
			continue
		}
		asmts = append(asmts, asmt)
	}
	repo.db.RUnlock()

	if filter.LearningAreaID != "" {
		var filtered []assessment.CompetencyAssessment
		for _, asmt := range asmts {
			if repo.outcomeAreaID(asmt.OutcomeID) == filter.LearningAreaID {
				filtered = append(filtered, asmt)
			}
		}
		asmts = filtered
	}

	sortAssessments(asmts, ordering)
	return asmts, nil
}

func sortAssessments(asmts []assessment.CompetencyAssessment, ordering []core.DBOrdering) {
	if len(ordering) == 0 {
		sort.SliceStable(asmts, func(i, j int) bool { return asmts[i].CreatedAt.Before(asmts[j].CreatedAt) })
		return
	}
	ord := ordering[0]
	sort.SliceStable(asmts, func(i, j int) bool {
		var less bool
		switch ord.Field {
		case "assessment_date":
			less = asmts[i].AssessedOn.Before(asmts[j].AssessedOn)
		default:
			less = asmts[i].CreatedAt.Before(asmts[j].CreatedAt)
		}
		if !ord.Ascending {
			return !less
		}
		return less
	})
}

func (repo *assessmentRepository) QueryStudentAttempts(studentID, areaID string, statuses ...assessment.AttemptStatus) ([]assessment.QuizAttempt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	wanted := make(map[assessment.AttemptStatus]bool, len(statuses))
	for _, status := range statuses {
		wanted[status] = true
	}

	var attempts []assessment.QuizAttempt
	for _, att := range repo.db.attempts {
		if att.StudentID != studentID {
			continue
		}
		if len(statuses) > 0 && !wanted[att.Status] {
			continue
		}
		if areaID != "" {
			quiz, ok := repo.db.quizzes[att.QuizID]
			if !ok || quiz.LearningAreaID != areaID {
				continue
			}
		}
		attempts = append(attempts, att)
	}
	sort.SliceStable(attempts, func(i, j int) bool { return attempts[i].SubmittedAt.Before(attempts[j].SubmittedAt) })
	return attempts, nil
}

func (repo *assessmentRepository) QueryQuizzesByID(ids ...string) ([]assessment.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	quizzes := make([]assessment.Quiz, 0, len(sorted))
	for _, id := range sorted {
		if quiz, ok := repo.db.quizzes[id]; ok {
			quizzes = append(quizzes, *quiz)
		}
	}
	return quizzes, nil
}
