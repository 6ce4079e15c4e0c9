package curriculum

// The curriculum registry is read-only from this backend's point of view:
// Learning Areas, Strands, Sub-Strands and Learning Outcomes are published
// once and never mutated here. Every Learning Outcome belongs to exactly one
// Sub-Strand -> Strand -> Learning Area chain.

type LearningArea struct {
	ID          string `json:"id"`
	Name        string `json:"name"` // "Mathematics", "Science & Technology"
	Code        string `json:"code"` // "MATH-G4"
	GradeLevel  string `json:"grade_level"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
}

type Strand struct {
	ID             string `json:"id"`
	LearningAreaID string `json:"learning_area_id"`
	Name           string `json:"name"` // "Numbers", "Measurement"
	Code           string `json:"code"` // "MATH-G4-NUMBERS"
	Order          int    `json:"order"`
}

type SubStrand struct {
	ID       string `json:"id"`
	StrandID string `json:"strand_id"`
	Name     string `json:"name"` // "Whole Numbers", "Fractions"
	Code     string `json:"code"` // "MATH-G4-NUM-WHOLE"
	Order    int    `json:"order"`
}

type LearningOutcome struct {
	ID          string `json:"id"`
	SubStrandID string `json:"sub_strand_id"`
	Code        string `json:"code"` // "MATH-G4-NUM-WHOLE-01"
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// Tree nodes. Children are ordered by the curriculum's declared order,
// never alphabetically.

type AreaTree struct {
	Area    LearningArea `json:"learning_area"`
	Strands []StrandNode `json:"strands"`
}

type StrandNode struct {
	Strand     Strand          `json:"strand"`
	SubStrands []SubStrandNode `json:"sub_strands"`
}

type SubStrandNode struct {
	SubStrand SubStrand         `json:"sub_strand"`
	Outcomes  []LearningOutcome `json:"outcomes"`
}

// OutcomeIDs returns the IDs of all outcomes in the tree, in declared order.
func (t AreaTree) OutcomeIDs() []string {
	var ids []string
	for _, sn := range t.Strands {
		for _, ssn := range sn.SubStrands {
			for _, out := range ssn.Outcomes {
				ids = append(ids, out.ID)
			}
		}
	}
	return ids
}
