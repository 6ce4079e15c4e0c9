package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

type studentRow struct {
	ID        string      `db:"id"`
	UserID    null.String `db:"user_id"`
	StudentID string      `db:"student_id"`
	FirstName string      `db:"first_name"`
	LastName  string      `db:"last_name"`
	Grade     string      `db:"grade"`
	Email     string      `db:"email"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (row studentRow) toStudent() student.Student {
	return student.Student{
		ID:        row.ID,
		UserID:    row.UserID.String,
		StudentID: row.StudentID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Grade:     row.Grade,
		Email:     row.Email,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

const selectStudent = `SELECT s.id, s.user_id, s.student_id, s.first_name, s.last_name, s.grade, s.email, s.created_at, s.updated_at FROM student s`

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	var row studentRow
	if err := repo.db.Get(&row, selectStudent+` WHERE s.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student by ID")
	}
	return row.toStudent(), nil
}

func (repo *studentRepository) FilterStudents(filter student.QueryFilter) ([]student.Student, error) {
	query := selectStudent
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.LearningAreaID != "" {
		query += ` JOIN learning_area_student las ON las.student_id = s.id`
		conds = append(conds, "las.learning_area_id = "+arg(filter.LearningAreaID))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(s.first_name ILIKE %[1]s OR s.last_name ILIKE %[1]s OR s.student_id ILIKE %[1]s)", p))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY s.last_name, s.first_name`

	var rows []studentRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toStudent())
	}
	return students, nil
}
