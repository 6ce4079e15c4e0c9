package assessment

import (
	"time"

	"github.com/trezcool/shule/core"
)

// CompetencyAssessment is one manual grading event recorded by a teacher
// against a single Learning Outcome. Rows are append-only: a re-assessment
// creates a new row, it never mutates an old one.
type CompetencyAssessment struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"student_id"`
	OutcomeID      string    `json:"learning_outcome_id"`
	Level          Level     `json:"competency_level"`
	AssessedOn     time.Time `json:"assessment_date"` // date, midnight UTC
	TeacherID      string    `json:"teacher_id"`
	TeacherComment string    `json:"teacher_comment,omitempty"`
	Evidence       string    `json:"evidence,omitempty"`
	CreatedAt      time.Time `json:"created_at"` // UTC
}

// Quiz is the auto-graded assessment source. A quiz references zero or one
// primary outcome plus a set of tested outcomes; its maximum possible score
// is the sum of its questions' point values.
type Quiz struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	LearningAreaID   string   `json:"learning_area_id"`
	PrimaryOutcomeID string   `json:"learning_outcome_id,omitempty"` // empty = none
	TestedOutcomeIDs []string `json:"tested_outcome_ids,omitempty"`
	TotalPoints      float64  `json:"total_points"`
	MaxAttempts      int      `json:"max_attempts"`
}

// OutcomeIDs returns the deduplicated outcomes the quiz assesses,
// primary outcome first.
func (q Quiz) OutcomeIDs() []string {
	ids := make([]string, 0, len(q.TestedOutcomeIDs)+1)
	seen := make(map[string]bool, len(q.TestedOutcomeIDs)+1)
	if q.PrimaryOutcomeID != "" {
		ids = append(ids, q.PrimaryOutcomeID)
		seen[q.PrimaryOutcomeID] = true
	}
	for _, id := range q.TestedOutcomeIDs {
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	return ids
}

type AttemptStatus string

const (
	StatusInReview   AttemptStatus = "in_review"
	StatusAutoGraded AttemptStatus = "auto_graded"
	StatusGraded     AttemptStatus = "graded"
)

// GradedStatuses are the attempt statuses eligible for aggregation.
var GradedStatuses = []AttemptStatus{StatusAutoGraded, StatusGraded}

// QuizAttempt is one submission of a quiz by a student. Attempts per
// (student, quiz) pair are bounded by Quiz.MaxAttempts at submission time;
// this subsystem only reads them.
type QuizAttempt struct {
	ID            string        `json:"id"`
	QuizID        string        `json:"quiz_id"`
	StudentID     string        `json:"student_id"`
	AttemptNumber int           `json:"attempt_number"`
	Score         *float64      `json:"score"` // nil = no recorded score
	SubmittedAt   time.Time     `json:"submitted_at"` // UTC
	Status        AttemptStatus `json:"status"`
	Feedback      string        `json:"feedback,omitempty"`
}

func (qa QuizAttempt) Graded() bool {
	return qa.Status == StatusAutoGraded || qa.Status == StatusGraded
}

// NewAssessment contains information needed to record a CompetencyAssessment.
type NewAssessment struct {
	StudentID      string `json:"student_id" validate:"required"`
	OutcomeID      string `json:"learning_outcome_id" validate:"required"`
	Level          string `json:"competency_level" validate:"required,level"`
	TeacherID      string `json:"teacher_id" validate:"required"`
	TeacherComment string `json:"teacher_comment"`
	Evidence       string `json:"evidence" validate:"required"`
}

func (na *NewAssessment) Validate() error {
	na.StudentID = core.CleanString(na.StudentID)
	na.OutcomeID = core.CleanString(na.OutcomeID)
	na.Level = string(Level(core.CleanString(na.Level)).normalize())
	na.TeacherComment = core.CleanString(na.TeacherComment)
	na.Evidence = core.CleanString(na.Evidence)
	return core.Validate.Struct(na)
}

type QueryFilter struct {
	StudentID      string `query:"student_id"`
	OutcomeID      string `query:"learning_outcome_id"`
	LearningAreaID string `query:"learning_area_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentID == "" && qf.OutcomeID == "" && qf.LearningAreaID == ""
}

func (qf *QueryFilter) Clean() {
	qf.StudentID = core.CleanString(qf.StudentID)
	qf.OutcomeID = core.CleanString(qf.OutcomeID)
	qf.LearningAreaID = core.CleanString(qf.LearningAreaID)
}
