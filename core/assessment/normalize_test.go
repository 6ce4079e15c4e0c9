package assessment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fPtr(f float64) *float64 { return &f }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize_manualAssessments(t *testing.T) {
	assessments := []CompetencyAssessment{
		{OutcomeID: "out-a", Level: LevelME, AssessedOn: date(2024, 1, 10), TeacherComment: "getting there"},
		{OutcomeID: "out-b", Level: LevelEE, AssessedOn: time.Date(2024, 2, 1, 15, 30, 0, 0, time.UTC)},
		{Level: LevelAE, AssessedOn: date(2024, 2, 2)}, // no outcome, dropped
	}

	records := Normalize(assessments, nil, nil)
	require.Len(t, records, 2)

	assert.Equal(t, Record{OutcomeID: "out-a", Level: LevelME, Date: date(2024, 1, 10), Source: SourceManual, Note: "getting there"}, records[0])
	// timestamps are truncated to the date
	assert.Equal(t, date(2024, 2, 1), records[1].Date)
	assert.Equal(t, SourceManual, records[1].Source)
}

func TestNormalize_bestAttemptPerQuiz(t *testing.T) {
	quiz := Quiz{ID: "quiz-1", PrimaryOutcomeID: "out-a", TestedOutcomeIDs: []string{"out-b"}, TotalPoints: 10}
	attempts := []QuizAttempt{
		{QuizID: "quiz-1", AttemptNumber: 1, Score: fPtr(3), SubmittedAt: date(2024, 3, 1), Status: StatusGraded},
		{QuizID: "quiz-1", AttemptNumber: 2, Score: fPtr(8), SubmittedAt: date(2024, 3, 5), Status: StatusAutoGraded},
	}

	records := Normalize(nil, []Quiz{quiz}, attempts)
	require.Len(t, records, 2, "best attempt must fan out to primary + tested outcomes")

	// 8/10 = 80% -> EE, from the best attempt only
	assert.Equal(t, Record{OutcomeID: "out-a", Level: LevelEE, Date: date(2024, 3, 5), Source: SourceQuiz}, records[0])
	assert.Equal(t, Record{OutcomeID: "out-b", Level: LevelEE, Date: date(2024, 3, 5), Source: SourceQuiz}, records[1])
}

func TestNormalize_scoreTieLatestSubmissionWins(t *testing.T) {
	quiz := Quiz{ID: "quiz-1", PrimaryOutcomeID: "out-a", TotalPoints: 10}
	attempts := []QuizAttempt{
		{QuizID: "quiz-1", AttemptNumber: 1, Score: fPtr(6), SubmittedAt: date(2024, 3, 1), Status: StatusGraded, Feedback: "first"},
		{QuizID: "quiz-1", AttemptNumber: 2, Score: fPtr(6), SubmittedAt: date(2024, 3, 9), Status: StatusGraded, Feedback: "second"},
	}

	records := Normalize(nil, []Quiz{quiz}, attempts)
	require.Len(t, records, 1)
	assert.Equal(t, date(2024, 3, 9), records[0].Date)
	assert.Equal(t, "second", records[0].Note)
}

func TestNormalize_exclusions(t *testing.T) {
	quizzes := []Quiz{
		{ID: "quiz-zero", PrimaryOutcomeID: "out-a", TotalPoints: 0},  // no resolvable maximum
		{ID: "quiz-ok", PrimaryOutcomeID: "out-b", TotalPoints: 10},
	}
	attempts := []QuizAttempt{
		{QuizID: "quiz-zero", Score: fPtr(5), SubmittedAt: date(2024, 3, 1), Status: StatusGraded},
		{QuizID: "quiz-ok", Score: nil, SubmittedAt: date(2024, 3, 2), Status: StatusGraded},       // no recorded score
		{QuizID: "quiz-ok", Score: fPtr(9), SubmittedAt: date(2024, 3, 3), Status: StatusInReview}, // not graded yet
		{QuizID: "unknown", Score: fPtr(9), SubmittedAt: date(2024, 3, 4), Status: StatusGraded},   // orphan attempt
	}

	records := Normalize(nil, quizzes, attempts)
	assert.Empty(t, records)
}

func TestNormalize_duplicateOutcomeFanOutDeduplicated(t *testing.T) {
	// primary outcome repeated in the tested set must contribute once
	quiz := Quiz{ID: "quiz-1", PrimaryOutcomeID: "out-a", TestedOutcomeIDs: []string{"out-a", "out-b"}, TotalPoints: 20}
	attempts := []QuizAttempt{
		{QuizID: "quiz-1", Score: fPtr(10), SubmittedAt: date(2024, 4, 1), Status: StatusGraded},
	}

	records := Normalize(nil, []Quiz{quiz}, attempts)
	require.Len(t, records, 2)
	assert.Equal(t, "out-a", records[0].OutcomeID)
	assert.Equal(t, "out-b", records[1].OutcomeID)
	for _, rec := range records {
		assert.Equal(t, LevelAE, rec.Level) // 10/20 = 50%
	}
}

func TestNormalize_quizRecordsOrderedByQuizID(t *testing.T) {
	quizzes := []Quiz{
		{ID: "quiz-b", PrimaryOutcomeID: "out-2", TotalPoints: 10},
		{ID: "quiz-a", PrimaryOutcomeID: "out-1", TotalPoints: 10},
	}
	attempts := []QuizAttempt{
		{QuizID: "quiz-b", Score: fPtr(5), SubmittedAt: date(2024, 5, 2), Status: StatusGraded},
		{QuizID: "quiz-a", Score: fPtr(5), SubmittedAt: date(2024, 5, 1), Status: StatusGraded},
	}

	records := Normalize(nil, quizzes, attempts)
	require.Len(t, records, 2)
	assert.Equal(t, "out-1", records[0].OutcomeID)
	assert.Equal(t, "out-2", records[1].OutcomeID)
}
