package sqlxrepos

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assessment"
)

type assessmentRepository struct {
	db *sqlx.DB
}

var _ assessment.Repository = (*assessmentRepository)(nil) // interface compliance check

func NewAssessmentRepository(db *sqlx.DB) assessment.Repository {
	return &assessmentRepository{db: db}
}

type assessmentRow struct {
	ID             string    `db:"id"`
	StudentID      string    `db:"student_id"`
	OutcomeID      string    `db:"learning_outcome_id"`
	Level          string    `db:"competency_level"`
	AssessedOn     time.Time `db:"assessment_date"`
	TeacherID      string    `db:"teacher_id"`
	TeacherComment string    `db:"teacher_comment"`
	Evidence       string    `db:"evidence"`
	CreatedAt      time.Time `db:"created_at"`
}

func (row assessmentRow) toAssessment() assessment.CompetencyAssessment {
	return assessment.CompetencyAssessment{
		ID:             row.ID,
		StudentID:      row.StudentID,
		OutcomeID:      row.OutcomeID,
		Level:          assessment.Level(row.Level),
		AssessedOn:     row.AssessedOn.UTC(),
		TeacherID:      row.TeacherID,
		TeacherComment: row.TeacherComment,
		Evidence:       row.Evidence,
		CreatedAt:      row.CreatedAt.UTC(),
	}
}

const selectAssessment = `
SELECT ca.id, ca.student_id, ca.learning_outcome_id, ca.competency_level, ca.assessment_date,
       ca.teacher_id, ca.teacher_comment, ca.evidence, ca.created_at
FROM competency_assessment ca`

func (repo *assessmentRepository) CreateAssessment(asmt assessment.CompetencyAssessment) (assessment.CompetencyAssessment, error) {
	query := `
INSERT INTO competency_assessment (id, student_id, learning_outcome_id, competency_level, assessment_date,
                                   teacher_id, teacher_comment, evidence, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.Exec(query,
		asmt.ID, asmt.StudentID, asmt.OutcomeID, string(asmt.Level), asmt.AssessedOn,
		asmt.TeacherID, asmt.TeacherComment, asmt.Evidence, asmt.CreatedAt,
	)
	if err != nil {
		return assessment.CompetencyAssessment{}, errors.Wrap(err, "creating assessment")
	}
	return asmt, nil
}

func (repo *assessmentRepository) FilterAssessments(filter assessment.QueryFilter, ordering ...core.DBOrdering) ([]assessment.CompetencyAssessment, error) {
	query := selectAssessment
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.LearningAreaID != "" {
		query += `
JOIN learning_outcome lo ON lo.id = ca.learning_outcome_id
JOIN sub_strand ss ON ss.id = lo.sub_strand_id
JOIN strand st ON st.id = ss.strand_id`
		conds = append(conds, "st.learning_area_id = "+arg(filter.LearningAreaID))
	}
	if filter.StudentID != "" {
		conds = append(conds, "ca.student_id = "+arg(filter.StudentID))
	}
	if filter.OutcomeID != "" {
		conds = append(conds, "ca.learning_outcome_id = "+arg(filter.OutcomeID))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += assessmentOrderBy(ordering)

	var rows []assessmentRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering assessments")
	}
	asmts := make([]assessment.CompetencyAssessment, 0, len(rows))
	for _, row := range rows {
		asmts = append(asmts, row.toAssessment())
	}
	return asmts, nil
}

// assessmentOrderBy maps client-supplied ordering terms onto known columns.
// Unknown fields are discarded, never interpolated into the query.
func assessmentOrderBy(ordering []core.DBOrdering) string {
	ords := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		switch ord.Field {
		case "assessment_date", "created_at":
			ords = append(ords, "ca."+ord.String())
		}
	}
	if len(ords) == 0 {
		return " ORDER BY ca.created_at"
	}
	return " ORDER BY " + strings.Join(ords, ", ")
}

type attemptRow struct {
	ID            string       `db:"id"`
	QuizID        string       `db:"quiz_id"`
	StudentID     string       `db:"student_id"`
	AttemptNumber int          `db:"attempt_number"`
	Score         null.Float64 `db:"score"`
	SubmittedAt   time.Time    `db:"submitted_at"`
	Status        string       `db:"status"`
	Feedback      string       `db:"feedback"`
}

func (row attemptRow) toAttempt() assessment.QuizAttempt {
	att := assessment.QuizAttempt{
		ID:            row.ID,
		QuizID:        row.QuizID,
		StudentID:     row.StudentID,
		AttemptNumber: row.AttemptNumber,
		SubmittedAt:   row.SubmittedAt.UTC(),
		Status:        assessment.AttemptStatus(row.Status),
		Feedback:      row.Feedback,
	}
	if row.Score.Valid {
		score := row.Score.Float64
		att.Score = &score
	}
	return att
}

func (repo *assessmentRepository) QueryStudentAttempts(studentID, areaID string, statuses ...assessment.AttemptStatus) ([]assessment.QuizAttempt, error) {
	query := `
SELECT qa.id, qa.quiz_id, qa.student_id, qa.attempt_number, qa.score, qa.submitted_at, qa.status, qa.feedback
FROM quiz_attempt qa`
	conds := []string{"qa.student_id = $1"}
	args := []interface{}{studentID}

	if areaID != "" {
		query += ` JOIN quiz q ON q.id = qa.quiz_id`
		args = append(args, areaID)
		conds = append(conds, fmt.Sprintf("q.learning_area_id = $%d", len(args)))
	}
	if len(statuses) > 0 {
		vals := make([]string, 0, len(statuses))
		for _, status := range statuses {
			vals = append(vals, string(status))
		}
		args = append(args, pq.StringArray(vals))
		conds = append(conds, fmt.Sprintf("qa.status = ANY($%d)", len(args)))
	}

	query += " WHERE " + strings.Join(conds, " AND ") + " ORDER BY qa.submitted_at"

	var rows []attemptRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying quiz attempts")
	}
	attempts := make([]assessment.QuizAttempt, 0, len(rows))
	for _, row := range rows {
		attempts = append(attempts, row.toAttempt())
	}
	return attempts, nil
}

type quizRow struct {
	ID               string      `db:"id"`
	Title            string      `db:"title"`
	LearningAreaID   string      `db:"learning_area_id"`
	PrimaryOutcomeID null.String `db:"learning_outcome_id"`
	TotalPoints      float64     `db:"total_points"`
	MaxAttempts      int         `db:"max_attempts"`
}

func (repo *assessmentRepository) QueryQuizzesByID(ids ...string) ([]assessment.Quiz, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []quizRow
	query := `
SELECT q.id, q.title, q.learning_area_id, q.learning_outcome_id, q.total_points, q.max_attempts
FROM quiz q
WHERE q.id = ANY($1)
ORDER BY q.id`
	if err := repo.db.Select(&rows, query, pq.StringArray(ids)); err != nil {
		return nil, errors.Wrap(err, "querying quizzes")
	}

	type testedRow struct {
		QuizID    string `db:"quiz_id"`
		OutcomeID string `db:"learning_outcome_id"`
	}
	var tested []testedRow
	query = `
SELECT qto.quiz_id, qto.learning_outcome_id
FROM quiz_tested_outcome qto
WHERE qto.quiz_id = ANY($1)
ORDER BY qto.quiz_id, qto.learning_outcome_id`
	if err := repo.db.Select(&tested, query, pq.StringArray(ids)); err != nil {
		return nil, errors.Wrap(err, "querying tested outcomes")
	}
	testedByQuiz := make(map[string][]string, len(rows))
	for _, tr := range tested {
		testedByQuiz[tr.QuizID] = append(testedByQuiz[tr.QuizID], tr.OutcomeID)
	}

	quizzes := make([]assessment.Quiz, 0, len(rows))
	for _, row := range rows {
		quizzes = append(quizzes, assessment.Quiz{
			ID:               row.ID,
			Title:            row.Title,
			LearningAreaID:   row.LearningAreaID,
			PrimaryOutcomeID: row.PrimaryOutcomeID.String,
			TestedOutcomeIDs: testedByQuiz[row.ID],
			TotalPoints:      row.TotalPoints,
			MaxAttempts:      row.MaxAttempts,
		})
	}
	return quizzes, nil
}
