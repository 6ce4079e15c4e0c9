package report

import (
	"time"

	"github.com/trezcool/shule/core/assessment"
)

// Date marshals to a plain "2006-01-02" JSON string. Report contents compare
// and render at date granularity.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(t time.Time) Date {
	t = t.UTC()
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	t, err := time.Parse(`"`+dateLayout+`"`, string(data))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Breakdown counts resolved outcomes by competency band. Omitted bands imply
// zero.
type Breakdown map[assessment.Level]int

func (b Breakdown) Total() int {
	var total int
	for _, n := range b {
		total += n
	}
	return total
}

// Document is the full progress report. It is a pure projection computed
// fresh on every request, never persisted or cached: re-running with
// unchanged inputs yields the same output.
type Document struct {
	Student       StudentInfo  `json:"student"`
	ReportDate    Date         `json:"report_date"`
	OverallStats  OverallStats `json:"overall_stats"`
	LearningAreas []AreaResult `json:"learning_areas"`
}

type StudentInfo struct {
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
	Grade     string `json:"grade"`
	Email     string `json:"email,omitempty"`
}

type OverallStats struct {
	TotalAssessments int       `json:"total_assessments"`
	Breakdown        Breakdown `json:"breakdown"`
}

type AreaResult struct {
	Name             string         `json:"name"`
	Code             string         `json:"code"`
	Strands          []StrandResult `json:"strands"`
	TotalAssessments int            `json:"total_assessments"`
	Breakdown        Breakdown      `json:"breakdown"`
}

type StrandResult struct {
	Name       string            `json:"name"`
	SubStrands []SubStrandResult `json:"sub_strands"`
}

type SubStrandResult struct {
	Name     string          `json:"name"`
	Outcomes []OutcomeResult `json:"outcomes"`
}

// OutcomeResult carries the resolved level of one Learning Outcome.
// A nil CompetencyLevel means "not yet assessed", which is distinct from an
// assessed Below Expectations.
type OutcomeResult struct {
	Outcome         string            `json:"outcome"`
	Code            string            `json:"code"`
	CompetencyLevel *assessment.Level `json:"competency_level"`
	AssessmentDate  *Date             `json:"assessment_date"`
	TeacherComment  *string           `json:"teacher_comment"`
}

// ClassSummary aggregates raw assessment counts across all students enrolled
// in one Learning Area. This is deliberately coarser than the per-student
// report: it counts assessment rows, not resolved outcomes.
type ClassSummary struct {
	LearningArea  ClassAreaInfo     `json:"learning_area"`
	TotalStudents int               `json:"total_students"`
	Students      []StudentProgress `json:"students_progress"`
}

type ClassAreaInfo struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	GradeLevel string `json:"grade_level"`
}

type StudentProgress struct {
	StudentName      string    `json:"student_name"`
	StudentID        string    `json:"student_id"`
	TotalAssessments int       `json:"total_assessments"`
	Breakdown        Breakdown `json:"breakdown"`
}
