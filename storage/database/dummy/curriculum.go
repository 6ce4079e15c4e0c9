package dummydb

import (
	"sort"

	"github.com/trezcool/shule/core/curriculum"
)

type curriculumRepository struct {
	db          *curriculumTable
	enrollments *studentTable
}

var _ curriculum.Repository = (*curriculumRepository)(nil) // interface compliance check

func NewCurriculumRepository(db *DB) curriculum.Repository {
	return &curriculumRepository{db: db.curriculum, enrollments: db.student}
}

func sortAreas(areas []curriculum.LearningArea) {
	sort.Slice(areas, func(i, j int) bool {
		if areas[i].Order != areas[j].Order {
			return areas[i].Order < areas[j].Order
		}
		return areas[i].Name < areas[j].Name
	})
}

func (repo *curriculumRepository) GetLearningAreaByID(id string) (curriculum.LearningArea, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if area, ok := repo.db.areas[id]; ok {
		return *area, nil
	}
	return curriculum.LearningArea{}, curriculum.ErrNotFound
}

func (repo *curriculumRepository) QueryAllLearningAreas() ([]curriculum.LearningArea, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	areas := make([]curriculum.LearningArea, 0, len(repo.db.areas))
	for _, area := range repo.db.areas {
		areas = append(areas, *area)
	}
	sortAreas(areas)
	return areas, nil
}

func (repo *curriculumRepository) QueryStudentLearningAreas(studentID string) ([]curriculum.LearningArea, error) {
	repo.enrollments.RLock()
	enrolled := make(map[string]bool)
	for areaID, studentIDs := range repo.enrollments.enrollments {
		for _, id := range studentIDs {
			if id == studentID {
				enrolled[areaID] = true
				break
			}
		}
	}
	repo.enrollments.RUnlock()

	repo.db.RLock()
	defer repo.db.RUnlock()

	var areas []curriculum.LearningArea
	for id, area := range repo.db.areas {
		if enrolled[id] {
			areas = append(areas, *area)
		}
	}
	sortAreas(areas)
	return areas, nil
}

func (repo *curriculumRepository) GetOutcomeByID(id string) (curriculum.LearningOutcome, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if out, ok := repo.db.outcomes[id]; ok {
		return *out, nil
	}
	return curriculum.LearningOutcome{}, curriculum.ErrOutcomeNotFound
}

func (repo *curriculumRepository) GetAreaTree(areaID string) (curriculum.AreaTree, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	area, ok := repo.db.areas[areaID]
	if !ok {
		return curriculum.AreaTree{}, curriculum.ErrNotFound
	}
	tree := curriculum.AreaTree{Area: *area}

	var strands []curriculum.Strand
	for _, strand := range repo.db.strands {
		if strand.LearningAreaID == areaID {
			strands = append(strands, strand)
		}
	}
	sort.Slice(strands, func(i, j int) bool { return strands[i].Order < strands[j].Order })

	for _, strand := range strands {
		var subStrands []curriculum.SubStrand
		for _, ss := range repo.db.subStrands {
			if ss.StrandID == strand.ID {
				subStrands = append(subStrands, ss)
			}
		}
		sort.Slice(subStrands, func(i, j int) bool { return subStrands[i].Order < subStrands[j].Order })

		sn := curriculum.StrandNode{Strand: strand}
		for _, ss := range subStrands {
			var outcomes []curriculum.LearningOutcome
			for _, out := range repo.db.outcomes {
				if out.SubStrandID == ss.ID {
					outcomes = append(outcomes, *out)
				}
			}
			sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Order < outcomes[j].Order })
			sn.SubStrands = append(sn.SubStrands, curriculum.SubStrandNode{SubStrand: ss, Outcomes: outcomes})
		}
		tree.Strands = append(tree.Strands, sn)
	}

	return tree, nil
}
