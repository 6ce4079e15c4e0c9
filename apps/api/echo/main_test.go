package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/curriculum"
	"github.com/trezcool/shule/core/report"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type testApp struct {
	app Server
	db  *dummydb.DB

	usrSvc    *user.Service
	reportSvc *report.Service

	admin   user.User
	teacher user.User
	pupil   user.User

	asha  student.Student
	brian student.Student
}

func fPtr(f float64) *float64 { return &f }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createUser(t *testing.T, svc *user.Service, uname, email string, roles []string) user.User {
	t.Helper()

	usr, err := svc.Create(user.NewUser{
		Name:            uname,
		Username:        uname,
		Email:           email,
		Password:        "s3cr3t",
		PasswordConfirm: "s3cr3t",
		Roles:           roles,
	})
	require.NoError(t, err)
	return usr
}

// setup builds a server backed by the in-memory store, seeded with the same
// two-area curriculum fixture the report service tests use.
func setup(t *testing.T) *testApp {
	t.Helper()

	core.Conf.Debug = false
	core.Conf.TestMode = true

	db, err := dummydb.Open()
	require.NoError(t, err)

	db.AddLearningArea(curriculum.LearningArea{ID: "math", Name: "Mathematics", Code: "MATH-G4", GradeLevel: "Grade 4", Order: 1})
	db.AddStrand(curriculum.Strand{ID: "m-s1", LearningAreaID: "math", Name: "Numbers", Code: "MATH-G4-NUM", Order: 1})
	db.AddSubStrand(curriculum.SubStrand{ID: "m-ss1", StrandID: "m-s1", Name: "Whole Numbers", Code: "MATH-G4-NUM-WHOLE", Order: 1})
	db.AddOutcome(curriculum.LearningOutcome{ID: "out-m1", SubStrandID: "m-ss1", Code: "MATH-G4-NUM-WHOLE-01", Description: "Read numbers up to 10000", Order: 1})
	db.AddOutcome(curriculum.LearningOutcome{ID: "out-m2", SubStrandID: "m-ss1", Code: "MATH-G4-NUM-WHOLE-02", Description: "Order whole numbers", Order: 2})

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

	db.AddQuiz(assessment.Quiz{ID: "quiz-1", Title: "Numbers check", LearningAreaID: "math", PrimaryOutcomeID: "out-m2", TestedOutcomeIDs: []string{"out-m1"}, TotalPoints: 10, MaxAttempts: 3})
	db.AddAttempt(assessment.QuizAttempt{ID: "att-1", QuizID: "quiz-1", StudentID: asha.ID, AttemptNumber: 1, Score: fPtr(9), SubmittedAt: date(2024, 2, 5), Status: assessment.StatusAutoGraded, Feedback: "well done"})

	usrSvc := user.NewService(dummydb.NewUserRepository(db))
	stdSvc := student.NewService(dummydb.NewStudentRepository(db))
	currSvc := curriculum.NewService(dummydb.NewCurriculumRepository(db))
	asmtSvc := assessment.NewService(dummydb.NewAssessmentRepository(db), currSvc, stdSvc)
	reportSvc := report.NewService(stdSvc, currSvc, asmtSvc, emailsvc.NewConsoleServiceMock())

	app := NewServer(&Options{
		DisableReqLogs: true,
		Logger:         nopLogger{},
		UserSvc:        usrSvc,
		StudentSvc:     stdSvc,
		CurriculumSvc:  currSvc,
		AssessmentSvc:  asmtSvc,
		ReportSvc:      reportSvc,
	})

	return &testApp{
		app:       app,
		db:        db,
		usrSvc:    usrSvc,
		reportSvc: reportSvc,
		admin:     createUser(t, usrSvc, "adminboss", "admin@test.cd", []string{user.RoleAdmin}),
		teacher:   createUser(t, usrSvc, "teacherjane", "teacher@test.cd", []string{user.RoleTeacher}),
		pupil:     createUser(t, usrSvc, "pupilmark", "pupil@test.cd", []string{user.RoleStudent}),
		asha:      asha,
		brian:     brian,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
