package report_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/curriculum"
	"github.com/trezcool/shule/core/report"
	"github.com/trezcool/shule/core/student"
	emailsvc "github.com/trezcool/shule/services/email"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
)

type fixture struct {
	db       *dummydb.DB
	asmtRepo assessment.Repository
	svc      *report.Service

	asha  student.Student // enrolled in Math + English, assessed
	brian student.Student // enrolled in Math, unassessed
}

func fPtr(f float64) *float64 { return &f }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// setup seeds a two-area curriculum:
//
//	Mathematics: Numbers > Whole Numbers > {out-m1, out-m2, out-m3}
//	English:     Listening > Oral Skills > {out-e1}
//
// Asha has a manual ME on out-m1 and a best quiz attempt of 9/10 covering
// out-m1 + out-m2 (EE, later date). out-m3 and Brian stay unassessed.
func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	db.AddLearningArea(curriculum.LearningArea{ID: "math", Name: "Mathematics", Code: "MATH-G4", GradeLevel: "Grade 4", Order: 1})
	db.AddStrand(curriculum.Strand{ID: "m-s1", LearningAreaID: "math", Name: "Numbers", Code: "MATH-G4-NUM", Order: 1})
	db.AddSubStrand(curriculum.SubStrand{ID: "m-ss1", StrandID: "m-s1", Name: "Whole Numbers", Code: "MATH-G4-NUM-WHOLE", Order: 1})
	db.AddOutcome(curriculum.LearningOutcome{ID: "out-m1", SubStrandID: "m-ss1", Code: "MATH-G4-NUM-WHOLE-01", Description: "Read numbers up to 10000", Order: 1})
	db.AddOutcome(curriculum.LearningOutcome{ID: "out-m2", SubStrandID: "m-ss1", Code: "MATH-G4-NUM-WHOLE-02", Description: "Order whole numbers", Order: 2})
	db.AddOutcome(curriculum.LearningOutcome{ID: "out-m3", SubStrandID: "m-ss1", Code: "MATH-G4-NUM-WHOLE-03", Description: "Round off numbers", Order: 3})

	db.AddLearningArea(curriculum.LearningArea{ID: "eng", Name: "English", Code: "ENG-G4", GradeLevel: "Grade 4", Order: 2})
	db.AddStrand(curriculum.Strand{ID: "e-s1", LearningAreaID: "eng", Name: "Listening", Code: "ENG-G4-LIS", Order: 1})
	db.AddSubStrand(curriculum.SubStrand{ID: "e-ss1", StrandID: "e-s1", Name: "Oral Skills", Code: "ENG-G4-LIS-ORAL", Order: 1})
	db.AddOutcome(curriculum.LearningOutcome{ID: "out-e1", SubStrandID: "e-ss1", Code: "ENG-G4-LIS-ORAL-01", Description: "Follow simple oral instructions", Order: 1})

	asha := student.Student{ID: "stu-asha", StudentID: "ADM-001", FirstName: "Asha", LastName: "Mwangi", Grade: "Grade 4", Email: "asha@test.cd"}
	brian := student.Student{ID: "stu-brian", StudentID: "ADM-002", FirstName: "Brian", LastName: "Otieno", Grade: "Grade 4"}
	db.AddStudent(asha)
	db.AddStudent(brian)
	db.Enroll("math", asha.ID, brian.ID)
	db.Enroll("eng", asha.ID)

	asmtRepo := dummydb.NewAssessmentRepository(db)
	_, err = asmtRepo.CreateAssessment(assessment.CompetencyAssessment{
		ID: "asmt-1", StudentID: asha.ID, OutcomeID: "out-m1", Level: assessment.LevelME,
		AssessedOn: date(2024, 1, 10), TeacherID: "tch-1", TeacherComment: "steady progress",
		CreatedAt: date(2024, 1, 10),
	})
	require.NoError(t, err)
	_, err = asmtRepo.CreateAssessment(assessment.CompetencyAssessment{
		ID: "asmt-2", StudentID: asha.ID, OutcomeID: "out-e1", Level: assessment.LevelAE,
		AssessedOn: date(2024, 1, 12), TeacherID: "tch-1",
		CreatedAt: date(2024, 1, 12),
	})
	require.NoError(t, err)

	db.AddQuiz(assessment.Quiz{ID: "quiz-1", Title: "Numbers check", LearningAreaID: "math", PrimaryOutcomeID: "out-m2", TestedOutcomeIDs: []string{"out-m1"}, TotalPoints: 10, MaxAttempts: 3})
	db.AddAttempt(assessment.QuizAttempt{ID: "att-1", QuizID: "quiz-1", StudentID: asha.ID, AttemptNumber: 1, Score: fPtr(3), SubmittedAt: date(2024, 2, 1), Status: assessment.StatusGraded})
	db.AddAttempt(assessment.QuizAttempt{ID: "att-2", QuizID: "quiz-1", StudentID: asha.ID, AttemptNumber: 2, Score: fPtr(9), SubmittedAt: date(2024, 2, 5), Status: assessment.StatusAutoGraded, Feedback: "well done"})
	db.AddAttempt(assessment.QuizAttempt{ID: "att-3", QuizID: "quiz-1", StudentID: asha.ID, AttemptNumber: 3, Score: fPtr(10), SubmittedAt: date(2024, 2, 6), Status: assessment.StatusInReview})

	stdSvc := student.NewService(dummydb.NewStudentRepository(db))
	currSvc := curriculum.NewService(dummydb.NewCurriculumRepository(db))
	asmtSvc := assessment.NewService(asmtRepo, currSvc, stdSvc)
	svc := report.NewService(stdSvc, currSvc, asmtSvc, emailsvc.NewConsoleServiceMock())

	return &fixture{db: db, asmtRepo: asmtRepo, svc: svc, asha: asha, brian: brian}
}

func TestService_BuildReport(t *testing.T) {
	fix := setup(t)

	doc, err := fix.svc.BuildReport(fix.asha.ID, "")
	require.NoError(t, err)

	assert.Equal(t, report.StudentInfo{Name: "Asha Mwangi", StudentID: "ADM-001", Grade: "Grade 4", Email: "asha@test.cd"}, doc.Student)

	// out-m1 (quiz EE beats older manual ME), out-m2 (quiz EE), out-e1 (manual AE)
	assert.Equal(t, 3, doc.OverallStats.TotalAssessments)
	assert.Equal(t, report.Breakdown{assessment.LevelEE: 2, assessment.LevelAE: 1}, doc.OverallStats.Breakdown)

	require.Len(t, doc.LearningAreas, 2)
	math, eng := doc.LearningAreas[0], doc.LearningAreas[1]
	assert.Equal(t, "Mathematics", math.Name, "areas must come back in declared order")
	assert.Equal(t, "English", eng.Name)

	assert.Equal(t, 2, math.TotalAssessments)
	assert.Equal(t, report.Breakdown{assessment.LevelEE: 2}, math.Breakdown)
	assert.Equal(t, 1, eng.TotalAssessments)

	require.Len(t, math.Strands, 1)
	require.Len(t, math.Strands[0].SubStrands, 1)
	outcomes := math.Strands[0].SubStrands[0].Outcomes
	require.Len(t, outcomes, 3)

	// out-m1: quiz EE on 2024-02-05 supersedes manual ME on 2024-01-10
	m1 := outcomes[0]
	require.NotNil(t, m1.CompetencyLevel)
	assert.Equal(t, assessment.LevelEE, *m1.CompetencyLevel)
	assert.Equal(t, report.NewDate(date(2024, 2, 5)), *m1.AssessmentDate)
	assert.Equal(t, "well done", *m1.TeacherComment)

	// out-m3 was never assessed: nil fields, excluded from every rollup
	m3 := outcomes[2]
	assert.Nil(t, m3.CompetencyLevel)
	assert.Nil(t, m3.AssessmentDate)
	assert.Nil(t, m3.TeacherComment)

	// every rollup only counts resolved outcomes
	var resolvedCount int
	for _, area := range doc.LearningAreas {
		sum := 0
		for _, n := range area.Breakdown {
			sum += n
		}
		assert.Equal(t, area.TotalAssessments, sum)
		resolvedCount += sum
	}
	assert.Equal(t, doc.OverallStats.TotalAssessments, resolvedCount)
}

func TestService_BuildReport_scopedToArea(t *testing.T) {
	fix := setup(t)

	doc, err := fix.svc.BuildReport(fix.asha.ID, "math")
	require.NoError(t, err)

	require.Len(t, doc.LearningAreas, 1)
	assert.Equal(t, "Mathematics", doc.LearningAreas[0].Name)
	assert.Equal(t, 2, doc.OverallStats.TotalAssessments)
	assert.Equal(t, report.Breakdown{assessment.LevelEE: 2}, doc.OverallStats.Breakdown)

	// the scoped area result must match its unscoped counterpart
	full, err := fix.svc.BuildReport(fix.asha.ID, "")
	require.NoError(t, err)
	assert.Equal(t, full.LearningAreas[0], doc.LearningAreas[0])
}

func TestService_BuildReport_unknownStudent(t *testing.T) {
	fix := setup(t)

	_, err := fix.svc.BuildReport("nope", "")
	assert.Equal(t, student.ErrNotFound, err)
}

func TestService_BuildReport_unassessedStudent(t *testing.T) {
	fix := setup(t)

	doc, err := fix.svc.BuildReport(fix.brian.ID, "")
	require.NoError(t, err)

	assert.Equal(t, 0, doc.OverallStats.TotalAssessments)
	require.Len(t, doc.LearningAreas, 1) // only enrolled in Math
	for _, out := range doc.LearningAreas[0].Strands[0].SubStrands[0].Outcomes {
		assert.Nil(t, out.CompetencyLevel)
	}
}

func TestService_BuildReport_idempotent(t *testing.T) {
	fix := setup(t)

	doc1, err := fix.svc.BuildReport(fix.asha.ID, "")
	require.NoError(t, err)
	doc2, err := fix.svc.BuildReport(fix.asha.ID, "")
	require.NoError(t, err)

	b1, err := json.Marshal(doc1)
	require.NoError(t, err)
	b2, err := json.Marshal(doc2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2, "re-running with unchanged inputs must yield identical output")
}

func TestSummary(t *testing.T) {
	fix := setup(t)

	doc, err := fix.svc.BuildReport(fix.asha.ID, "")
	require.NoError(t, err)

	want := fmt.Sprintf(`Competency Progress Report for Asha Mwangi
Student ID: ADM-001
Grade: Grade 4
Report Date: %s

Overall Progress:
Total Assessments: 3
Exceeding Expectations (EE): 2
Meeting Expectations (ME): 0
Approaching Expectations (AE): 1
Below Expectations (BE): 0


Mathematics:
  Assessments: 2
  - Numbers

English:
  Assessments: 1
  - Listening
`, doc.ReportDate.Format("2006-01-02"))

	got := report.Summary(doc)
	if got != want {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(want),
			B:        difflib.SplitLines(got),
			FromFile: "want",
			ToFile:   "got",
			Context:  2,
		})
		t.Errorf("Summary() mismatch:\n%s", diff)
	}
}

func TestService_ClassSummary(t *testing.T) {
	fix := setup(t)

	summary, err := fix.svc.ClassSummary("math")
	require.NoError(t, err)

	assert.Equal(t, report.ClassAreaInfo{Name: "Mathematics", Code: "MATH-G4", GradeLevel: "Grade 4"}, summary.LearningArea)
	assert.Equal(t, 2, summary.TotalStudents)
	require.Len(t, summary.Students, 2)

	// ordered by last name: Mwangi before Otieno
	asha, brian := summary.Students[0], summary.Students[1]
	assert.Equal(t, "Asha Mwangi", asha.StudentName)
	// raw rows, no outcome resolution: the manual ME row counts as ME even
	// though the resolved level for that outcome is EE
	assert.Equal(t, 1, asha.TotalAssessments)
	assert.Equal(t, report.Breakdown{assessment.LevelME: 1}, asha.Breakdown)

	assert.Equal(t, "Brian Otieno", brian.StudentName)
	assert.Equal(t, 0, brian.TotalAssessments)
}

func TestService_ClassSummary_unknownArea(t *testing.T) {
	fix := setup(t)

	_, err := fix.svc.ClassSummary("nope")
	assert.Equal(t, curriculum.ErrNotFound, err)
}

func TestService_SendSummary(t *testing.T) {
	fix := setup(t)

	emailsvc.SentMessages = emailsvc.SentMessages[:0]
	require.NoError(t, fix.svc.SendSummary(fix.asha.ID, ""))

	require.Len(t, emailsvc.SentMessages, 1)
	msg := emailsvc.SentMessages[0]
	assert.Equal(t, "Progress Report - Asha Mwangi", msg.Subject)
	require.Len(t, msg.To, 1)
	assert.Equal(t, "asha@test.cd", msg.To[0].Address)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "progress_report_ADM-001.txt", msg.Attachments[0].Filename)
	assert.Equal(t, "text/plain", msg.Attachments[0].ContentType)
}

func TestService_SendSummary_noRecipients(t *testing.T) {
	fix := setup(t)

	err := fix.svc.SendSummary(fix.brian.ID, "")
	require.Error(t, err)
	_, ok := err.(*core.ValidationError)
	assert.True(t, ok, "expected a validation error, got %T", err)
}
