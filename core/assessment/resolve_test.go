package assessment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_latestDateWins(t *testing.T) {
	records := []Record{
		{OutcomeID: "out-a", Level: LevelME, Date: date(2024, 1, 10), Source: SourceManual, Note: "old"},
		{OutcomeID: "out-a", Level: LevelEE, Date: date(2024, 2, 1), Source: SourceQuiz, Note: "new"},
	}

	resolved := Resolve(records)
	require.Len(t, resolved, 1)
	assert.Equal(t, Resolved{Level: LevelEE, Date: date(2024, 2, 1), Note: "new"}, resolved["out-a"])
}

func TestResolve_manualBeatsQuizOnSameDate(t *testing.T) {
	day := date(2024, 2, 1)
	tests := []struct {
		name    string
		records []Record
	}{
		{
			name: "quiz first",
			records: []Record{
				{OutcomeID: "out-a", Level: LevelEE, Date: day, Source: SourceQuiz},
				{OutcomeID: "out-a", Level: LevelAE, Date: day, Source: SourceManual},
			},
		},
		{
			name: "manual first",
			records: []Record{
				{OutcomeID: "out-a", Level: LevelAE, Date: day, Source: SourceManual},
				{OutcomeID: "out-a", Level: LevelEE, Date: day, Source: SourceQuiz},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := Resolve(tt.records)
			require.Len(t, resolved, 1)
			assert.Equal(t, LevelAE, resolved["out-a"].Level, "manual record must govern on an exact-date tie")
		})
	}
}

func TestResolve_fullTieKeepsFirstRecord(t *testing.T) {
	day := date(2024, 2, 1)
	records := []Record{
		{OutcomeID: "out-a", Level: LevelME, Date: day, Source: SourceManual, Note: "first"},
		{OutcomeID: "out-a", Level: LevelBE, Date: day, Source: SourceManual, Note: "second"},
	}

	resolved := Resolve(records)
	assert.Equal(t, "first", resolved["out-a"].Note)
}

func TestResolve_oneEntryPerOutcome(t *testing.T) {
	records := []Record{
		{OutcomeID: "out-a", Level: LevelME, Date: date(2024, 1, 1), Source: SourceManual},
		{OutcomeID: "out-a", Level: LevelEE, Date: date(2024, 1, 2), Source: SourceQuiz},
		{OutcomeID: "out-a", Level: LevelBE, Date: date(2024, 1, 3), Source: SourceQuiz},
		{OutcomeID: "out-b", Level: LevelAE, Date: date(2024, 1, 1), Source: SourceQuiz},
	}

	resolved := Resolve(records)
	require.Len(t, resolved, 2)
	assert.Equal(t, LevelBE, resolved["out-a"].Level)
	assert.Equal(t, LevelAE, resolved["out-b"].Level)
}

func TestResolve_empty(t *testing.T) {
	assert.Empty(t, Resolve(nil))
	assert.Empty(t, Resolve([]Record{}))
}

func Test_toDate(t *testing.T) {
	in := time.Date(2024, 6, 15, 23, 59, 59, 999, time.FixedZone("EAT", 3*3600))
	got := toDate(in)
	assert.Equal(t, date(2024, 6, 15), got) // 23:59 EAT is 20:59 UTC, same day
	assert.Equal(t, time.UTC, got.Location())
}
