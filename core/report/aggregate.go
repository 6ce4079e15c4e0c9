package report

import (
	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/curriculum"
)

// aggregate walks the ordered curriculum trees, attaches the resolved result
// to every outcome node and rolls counts up per Learning Area and for the
// whole report. Rollups count resolved outcomes only: an unassessed outcome
// appears in the tree with nil fields and is excluded from every breakdown.
func aggregate(trees []curriculum.AreaTree, resolved map[string]assessment.Resolved) (OverallStats, []AreaResult) {
	overall := Breakdown{}
	for _, res := range resolved {
		overall[res.Level]++
	}

	areas := make([]AreaResult, 0, len(trees))
	for _, tree := range trees {
		areas = append(areas, aggregateArea(tree, resolved))
	}

	return OverallStats{TotalAssessments: overall.Total(), Breakdown: overall}, areas
}

func aggregateArea(tree curriculum.AreaTree, resolved map[string]assessment.Resolved) AreaResult {
	breakdown := Breakdown{}

	strands := make([]StrandResult, 0, len(tree.Strands))
	for _, sn := range tree.Strands {
		subStrands := make([]SubStrandResult, 0, len(sn.SubStrands))
		for _, ssn := range sn.SubStrands {
			outcomes := make([]OutcomeResult, 0, len(ssn.Outcomes))
			for _, out := range ssn.Outcomes {
				result := OutcomeResult{
					Outcome: out.Description,
					Code:    out.Code,
				}
				if res, ok := resolved[out.ID]; ok {
					lvl := res.Level
					date := NewDate(res.Date)
					note := res.Note
					result.CompetencyLevel = &lvl
					result.AssessmentDate = &date
					result.TeacherComment = &note
					breakdown[res.Level]++
				}
				outcomes = append(outcomes, result)
			}
			subStrands = append(subStrands, SubStrandResult{Name: ssn.SubStrand.Name, Outcomes: outcomes})
		}
		strands = append(strands, StrandResult{Name: sn.Strand.Name, SubStrands: subStrands})
	}

	return AreaResult{
		Name:             tree.Area.Name,
		Code:             tree.Area.Code,
		Strands:          strands,
		TotalAssessments: breakdown.Total(),
		Breakdown:        breakdown,
	}
}
