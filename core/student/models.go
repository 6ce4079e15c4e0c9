package student

import (
	"strings"
	"time"

	"github.com/trezcool/shule/core"
)

type Student struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StudentID string    `json:"student_id"` // admission number, e.g. "ADM-2024-013"
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Grade     string    `json:"grade"` // e.g. "Grade 4"
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

type QueryFilter struct {
	Search         string `query:"search"`
	LearningAreaID string `query:"learning_area_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.LearningAreaID == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.LearningAreaID = core.CleanString(qf.LearningAreaID)
}
