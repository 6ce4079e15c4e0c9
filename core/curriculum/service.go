package curriculum

import "github.com/pkg/errors"

var (
	ErrNotFound        = errors.New("learning area not found")
	ErrOutcomeNotFound = errors.New("learning outcome not found")
)

type (
	Repository interface {
		GetLearningAreaByID(id string) (LearningArea, error)
		QueryAllLearningAreas() ([]LearningArea, error)
		// QueryStudentLearningAreas returns the Learning Areas a student is
		// enrolled in, in declared order.
		QueryStudentLearningAreas(studentID string) ([]LearningArea, error)
		GetOutcomeByID(id string) (LearningOutcome, error)
		// GetAreaTree loads the full ordered Strand/Sub-Strand/Outcome tree
		// of a Learning Area.
		GetAreaTree(areaID string) (AreaTree, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetArea(id string) (LearningArea, error) {
	return svc.repo.GetLearningAreaByID(id)
}

func (svc *Service) QueryAreas() ([]LearningArea, error) {
	return svc.repo.QueryAllLearningAreas()
}

func (svc *Service) GetOutcome(id string) (LearningOutcome, error) {
	return svc.repo.GetOutcomeByID(id)
}

func (svc *Service) Tree(areaID string) (AreaTree, error) {
	return svc.repo.GetAreaTree(areaID)
}

// TreesForStudent loads the ordered curriculum trees of every Learning Area
// the student is enrolled in.
func (svc *Service) TreesForStudent(studentID string) ([]AreaTree, error) {
	areas, err := svc.repo.QueryStudentLearningAreas(studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying student learning areas")
	}

	trees := make([]AreaTree, 0, len(areas))
	for _, area := range areas {
		tree, err := svc.repo.GetAreaTree(area.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "loading tree for learning area %s", area.ID)
		}
		trees = append(trees, tree)
	}
	return trees, nil
}
