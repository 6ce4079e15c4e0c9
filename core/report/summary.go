package report

import (
	"fmt"
	"strings"

	"github.com/trezcool/shule/core/assessment"
)

// Summary renders a deterministic plain-text version of the report: header,
// overall counts in fixed band order (EE, ME, AE, BE), then per-Learning-Area
// assessment counts and strand names. The counts are read straight off the
// document so the two renderings can never diverge.
func Summary(doc Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Competency Progress Report for %s\n", doc.Student.Name)
	fmt.Fprintf(&b, "Student ID: %s\n", doc.Student.StudentID)
	fmt.Fprintf(&b, "Grade: %s\n", doc.Student.Grade)
	fmt.Fprintf(&b, "Report Date: %s\n\n", doc.ReportDate.Format(dateLayout))

	b.WriteString("Overall Progress:\n")
	fmt.Fprintf(&b, "Total Assessments: %d\n", doc.OverallStats.TotalAssessments)
	for _, lvl := range assessment.Levels {
		fmt.Fprintf(&b, "%s (%s): %d\n", lvl.Label(), lvl, doc.OverallStats.Breakdown[lvl])
	}
	b.WriteString("\n")

	for _, area := range doc.LearningAreas {
		fmt.Fprintf(&b, "\n%s:\n", area.Name)
		fmt.Fprintf(&b, "  Assessments: %d\n", area.TotalAssessments)
		for _, strand := range area.Strands {
			fmt.Fprintf(&b, "  - %s\n", strand.Name)
		}
	}

	return b.String()
}
