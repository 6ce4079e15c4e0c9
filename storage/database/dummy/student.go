package dummydb

import (
	"sort"
	"strings"

	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, stu := range repo.db.table {
		students = append(students, *stu)
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].LastName != students[j].LastName {
			return students[i].LastName < students[j].LastName
		}
		return students[i].FirstName < students[j].FirstName
	})
	return students
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if stu, ok := repo.db.table[id]; ok {
		return *stu, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := repo.query()

	if filter.LearningAreaID != "" {
		enrolled := make(map[string]bool)
		for _, id := range repo.db.enrollments[filter.LearningAreaID] {
			enrolled[id] = true
		}
		var filtered []student.Student
		for _, stu := range students {
			if enrolled[stu.ID] {
				filtered = append(filtered, stu)
			}
		}
		students = filtered
	}

	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		var filtered []student.Student
		for _, stu := range students {
			if strings.Contains(strings.ToLower(stu.FirstName), search) ||
				strings.Contains(strings.ToLower(stu.LastName), search) ||
				strings.Contains(strings.ToLower(stu.StudentID), search) {
				filtered = append(filtered, stu)
			}
		}
		students = filtered
	}

	return students, nil
}
