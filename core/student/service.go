package student

import "github.com/pkg/errors"

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		GetStudentByID(id string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.LearningAreaID restricts to students enrolled in that Learning Area.
		FilterStudents(filter QueryFilter) ([]Student, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Student, error) {
	filter.Clean()
	return svc.repo.FilterStudents(filter)
}
