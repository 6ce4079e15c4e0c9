package dummydb

import (
	"sync"

	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/curriculum"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

// DB is an in-memory store used by tests and local development. Each table
// guards itself with its own RWMutex so repositories can be shared freely.
type (
	DB struct {
		user       *userTable
		student    *studentTable
		curriculum *curriculumTable
		assessment *assessmentTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	studentTable struct {
		sync.RWMutex
		table       map[string]*student.Student
		enrollments map[string][]string // learning area ID -> student IDs
	}

	curriculumTable struct {
		sync.RWMutex
		areas      map[string]*curriculum.LearningArea
		strands    []curriculum.Strand
		subStrands []curriculum.SubStrand
		outcomes   map[string]*curriculum.LearningOutcome
	}

	assessmentTable struct {
		sync.RWMutex
		assessments []assessment.CompetencyAssessment
		quizzes     map[string]*assessment.Quiz
		attempts    []assessment.QuizAttempt
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		student: &studentTable{
			table:       make(map[string]*student.Student),
			enrollments: make(map[string][]string),
		},
		curriculum: &curriculumTable{
			areas:    make(map[string]*curriculum.LearningArea),
			outcomes: make(map[string]*curriculum.LearningOutcome),
		},
		assessment: &assessmentTable{quizzes: make(map[string]*assessment.Quiz)},
	}
	return db, nil
}

// Seed helpers. The curriculum and quiz catalogs are read-only through the
// repositories, so fixtures load them directly here.

func (db *DB) AddStudent(stu student.Student) {
	db.student.Lock()
	defer db.student.Unlock()
	db.student.table[stu.ID] = &stu
}

func (db *DB) Enroll(areaID string, studentIDs ...string) {
	db.student.Lock()
	defer db.student.Unlock()
	db.student.enrollments[areaID] = append(db.student.enrollments[areaID], studentIDs...)
}

func (db *DB) AddLearningArea(area curriculum.LearningArea) {
	db.curriculum.Lock()
	defer db.curriculum.Unlock()
	db.curriculum.areas[area.ID] = &area
}

func (db *DB) AddStrand(strand curriculum.Strand) {
	db.curriculum.Lock()
	defer db.curriculum.Unlock()
	db.curriculum.strands = append(db.curriculum.strands, strand)
}

func (db *DB) AddSubStrand(subStrand curriculum.SubStrand) {
	db.curriculum.Lock()
	defer db.curriculum.Unlock()
	db.curriculum.subStrands = append(db.curriculum.subStrands, subStrand)
}

func (db *DB) AddOutcome(outcome curriculum.LearningOutcome) {
	db.curriculum.Lock()
	defer db.curriculum.Unlock()
	db.curriculum.outcomes[outcome.ID] = &outcome
}

func (db *DB) AddQuiz(quiz assessment.Quiz) {
	db.assessment.Lock()
	defer db.assessment.Unlock()
	db.assessment.quizzes[quiz.ID] = &quiz
}

func (db *DB) AddAttempt(att assessment.QuizAttempt) {
	db.assessment.Lock()
	defer db.assessment.Unlock()
	db.assessment.attempts = append(db.assessment.attempts, att)
}
