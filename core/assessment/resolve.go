package assessment

import "time"

// Resolved is the single governing result for one Learning Outcome after
// merging all assessment sources.
type Resolved struct {
	Level Level
	Date  time.Time
	Note  string
}

// Resolve selects the governing record per outcome. Each outcome contributes
// exactly one entry regardless of how many assessments or attempts exist, so
// the same competency is never counted twice across sources.
//
// The comparator is explicit: the record with the latest date wins; on an
// exact-date tie a manual assessment beats a quiz-derived record (a human
// judgment is more authoritative); on a full tie the earlier-accepted record
// is kept.
func Resolve(records []Record) map[string]Resolved {
	winners := make(map[string]Record)
	for _, rec := range records {
		cur, ok := winners[rec.OutcomeID]
		if !ok || beats(rec, cur) {
			winners[rec.OutcomeID] = rec
		}
	}

	resolved := make(map[string]Resolved, len(winners))
	for outcomeID, rec := range winners {
		resolved[outcomeID] = Resolved{
			Level: rec.Level,
			Date:  rec.Date,
			Note:  rec.Note,
		}
	}
	return resolved
}

// beats reports whether candidate dethrones the current winner.
func beats(candidate, current Record) bool {
	if !candidate.Date.Equal(current.Date) {
		return candidate.Date.After(current.Date)
	}
	return candidate.Source > current.Source
}
