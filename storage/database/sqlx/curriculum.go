package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/curriculum"
)

type curriculumRepository struct {
	db *sqlx.DB
}

var _ curriculum.Repository = (*curriculumRepository)(nil) // interface compliance check

func NewCurriculumRepository(db *sqlx.DB) curriculum.Repository {
	return &curriculumRepository{db: db}
}

type areaRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Code        string `db:"code"`
	GradeLevel  string `db:"grade_level"`
	Description string `db:"description"`
	Order       int    `db:"order"`
}

func (row areaRow) toArea() curriculum.LearningArea {
	return curriculum.LearningArea{
		ID:          row.ID,
		Name:        row.Name,
		Code:        row.Code,
		GradeLevel:  row.GradeLevel,
		Description: row.Description,
		Order:       row.Order,
	}
}

const selectArea = `SELECT id, name, code, grade_level, description, "order" FROM learning_area`

func (repo *curriculumRepository) GetLearningAreaByID(id string) (curriculum.LearningArea, error) {
	var row areaRow
	if err := repo.db.Get(&row, selectArea+` WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return curriculum.LearningArea{}, curriculum.ErrNotFound
		}
		return curriculum.LearningArea{}, errors.Wrap(err, "getting learning area by ID")
	}
	return row.toArea(), nil
}

func (repo *curriculumRepository) QueryAllLearningAreas() ([]curriculum.LearningArea, error) {
	var rows []areaRow
	if err := repo.db.Select(&rows, selectArea+` ORDER BY "order", name`); err != nil {
		return nil, errors.Wrap(err, "querying learning areas")
	}
	return toAreas(rows), nil
}

func (repo *curriculumRepository) QueryStudentLearningAreas(studentID string) ([]curriculum.LearningArea, error) {
	query := `
SELECT la.id, la.name, la.code, la.grade_level, la.description, la."order"
FROM learning_area la
JOIN learning_area_student las ON las.learning_area_id = la.id
WHERE las.student_id = $1
ORDER BY la."order", la.name`

	var rows []areaRow
	if err := repo.db.Select(&rows, query, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student learning areas")
	}
	return toAreas(rows), nil
}

func toAreas(rows []areaRow) []curriculum.LearningArea {
	areas := make([]curriculum.LearningArea, 0, len(rows))
	for _, row := range rows {
		areas = append(areas, row.toArea())
	}
	return areas
}

func (repo *curriculumRepository) GetOutcomeByID(id string) (curriculum.LearningOutcome, error) {
	var out curriculum.LearningOutcome
	query := `SELECT id, sub_strand_id, code, description, "order" FROM learning_outcome WHERE id = $1`
	if err := repo.db.QueryRowx(query, id).Scan(&out.ID, &out.SubStrandID, &out.Code, &out.Description, &out.Order); err != nil {
		if err == sql.ErrNoRows {
			return curriculum.LearningOutcome{}, curriculum.ErrOutcomeNotFound
		}
		return curriculum.LearningOutcome{}, errors.Wrap(err, "getting learning outcome by ID")
	}
	return out, nil
}

// GetAreaTree loads the area and its strands, sub-strands and outcomes in
// declared order, then assembles the tree in memory.
func (repo *curriculumRepository) GetAreaTree(areaID string) (curriculum.AreaTree, error) {
	area, err := repo.GetLearningAreaByID(areaID)
	if err != nil {
		return curriculum.AreaTree{}, err
	}
	tree := curriculum.AreaTree{Area: area}

	var strands []strandRow
	query := `SELECT id, learning_area_id, name, code, "order" FROM strand WHERE learning_area_id = $1 ORDER BY "order"`
	if err = repo.db.Select(&strands, query, areaID); err != nil {
		return curriculum.AreaTree{}, errors.Wrap(err, "querying strands")
	}
	if len(strands) == 0 {
		return tree, nil
	}

	var subStrands []subStrandRow
	query = `
SELECT ss.id, ss.strand_id, ss.name, ss.code, ss."order"
FROM sub_strand ss
JOIN strand st ON st.id = ss.strand_id
WHERE st.learning_area_id = $1
ORDER BY st."order", ss."order"`
	if err = repo.db.Select(&subStrands, query, areaID); err != nil {
		return curriculum.AreaTree{}, errors.Wrap(err, "querying sub-strands")
	}

	var outcomes []outcomeRow
	query = `
SELECT lo.id, lo.sub_strand_id, lo.code, lo.description, lo."order"
FROM learning_outcome lo
JOIN sub_strand ss ON ss.id = lo.sub_strand_id
JOIN strand st ON st.id = ss.strand_id
WHERE st.learning_area_id = $1
ORDER BY st."order", ss."order", lo."order"`
	if err = repo.db.Select(&outcomes, query, areaID); err != nil {
		return curriculum.AreaTree{}, errors.Wrap(err, "querying learning outcomes")
	}

	outsBySubStrand := make(map[string][]curriculum.LearningOutcome)
	for _, row := range outcomes {
		outsBySubStrand[row.SubStrandID] = append(outsBySubStrand[row.SubStrandID], row.toOutcome())
	}
	subsByStrand := make(map[string][]curriculum.SubStrandNode)
	for _, row := range subStrands {
		subsByStrand[row.StrandID] = append(subsByStrand[row.StrandID], curriculum.SubStrandNode{
			SubStrand: row.toSubStrand(),
			Outcomes:  outsBySubStrand[row.ID],
		})
	}
	for _, row := range strands {
		tree.Strands = append(tree.Strands, curriculum.StrandNode{
			Strand:     row.toStrand(),
			SubStrands: subsByStrand[row.ID],
		})
	}
	return tree, nil
}

type strandRow struct {
	ID             string `db:"id"`
	LearningAreaID string `db:"learning_area_id"`
	Name           string `db:"name"`
	Code           string `db:"code"`
	Order          int    `db:"order"`
}

func (row strandRow) toStrand() curriculum.Strand {
	return curriculum.Strand{
		ID:             row.ID,
		LearningAreaID: row.LearningAreaID,
		Name:           row.Name,
		Code:           row.Code,
		Order:          row.Order,
	}
}

type subStrandRow struct {
	ID       string `db:"id"`
	StrandID string `db:"strand_id"`
	Name     string `db:"name"`
	Code     string `db:"code"`
	Order    int    `db:"order"`
}

func (row subStrandRow) toSubStrand() curriculum.SubStrand {
	return curriculum.SubStrand{
		ID:       row.ID,
		StrandID: row.StrandID,
		Name:     row.Name,
		Code:     row.Code,
		Order:    row.Order,
	}
}

type outcomeRow struct {
	ID          string `db:"id"`
	SubStrandID string `db:"sub_strand_id"`
	Code        string `db:"code"`
	Description string `db:"description"`
	Order       int    `db:"order"`
}

func (row outcomeRow) toOutcome() curriculum.LearningOutcome {
	return curriculum.LearningOutcome{
		ID:          row.ID,
		SubStrandID: row.SubStrandID,
		Code:        row.Code,
		Description: row.Description,
		Order:       row.Order,
	}
}
