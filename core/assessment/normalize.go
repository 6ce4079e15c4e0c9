package assessment

import (
	"sort"
	"time"
)

// Source identifies which kind of record produced a normalized Record.
// On an exact-date tie the resolver favors the higher-priority source.
type Source int

const (
	SourceQuiz Source = iota
	SourceManual
)

func (s Source) String() string {
	if s == SourceManual {
		return "manual"
	}
	return "quiz"
}

// Record is the common shape manual assessments and quiz attempts are
// normalized into before outcome resolution.
type Record struct {
	OutcomeID string
	Level     Level
	Date      time.Time // date, midnight UTC
	Source    Source
	Note      string
}

// Normalize adapts manual assessments and graded quiz attempts into a flat
// candidate list, one Record per (source, outcome) contribution:
//
//   - each manual assessment maps 1:1, keeping its level verbatim;
//   - attempts are first reduced to the best attempt per quiz (highest score,
//     ties broken by latest submission), ungraded attempts excluded entirely;
//   - each best attempt fans out to every outcome its quiz assesses, all
//     sharing the level derived from score/TotalPoints and the submission date.
//
// Quizzes with no resolvable maximum score, and attempts with no recorded
// score, contribute nothing.
//
// Output order is deterministic: manual records in input order, then quiz
// records ordered by quiz ID.
func Normalize(assessments []CompetencyAssessment, quizzes []Quiz, attempts []QuizAttempt) []Record {
	records := make([]Record, 0, len(assessments)+len(attempts))

	for _, asmt := range assessments {
		if asmt.OutcomeID == "" {
			continue
		}
		records = append(records, Record{
			OutcomeID: asmt.OutcomeID,
			Level:     asmt.Level,
			Date:      toDate(asmt.AssessedOn),
			Source:    SourceManual,
			Note:      asmt.TeacherComment,
		})
	}

	quizzesByID := make(map[string]Quiz, len(quizzes))
	for _, quiz := range quizzes {
		quizzesByID[quiz.ID] = quiz
	}

	for _, best := range bestAttempts(attempts) {
		quiz, ok := quizzesByID[best.QuizID]
		if !ok || best.Score == nil {
			continue
		}
		lvl, ok := LevelFor(*best.Score, quiz.TotalPoints)
		if !ok {
			continue
		}
		for _, outcomeID := range quiz.OutcomeIDs() {
			records = append(records, Record{
				OutcomeID: outcomeID,
				Level:     lvl,
				Date:      toDate(best.SubmittedAt),
				Source:    SourceQuiz,
				Note:      best.Feedback,
			})
		}
	}

	return records
}

// bestAttempts reduces graded attempts to the best attempt per quiz:
// the attempt with the highest score, ties broken by latest SubmittedAt.
// Attempts without a recorded score rank below any scored attempt.
// The result is ordered by quiz ID.
func bestAttempts(attempts []QuizAttempt) []QuizAttempt {
	best := make(map[string]QuizAttempt)
	for _, att := range attempts {
		if !att.Graded() {
			continue
		}
		cur, ok := best[att.QuizID]
		if !ok || attemptLess(cur, att) {
			best[att.QuizID] = att
		}
	}

	quizIDs := make([]string, 0, len(best))
	for quizID := range best {
		quizIDs = append(quizIDs, quizID)
	}
	sort.Strings(quizIDs)

	out := make([]QuizAttempt, 0, len(best))
	for _, quizID := range quizIDs {
		out = append(out, best[quizID])
	}
	return out
}

// attemptLess reports whether b is a better attempt than a.
func attemptLess(a, b QuizAttempt) bool {
	as, bs := scoreOf(a), scoreOf(b)
	if as != bs {
		return bs > as
	}
	return b.SubmittedAt.After(a.SubmittedAt)
}

func scoreOf(att QuizAttempt) float64 {
	if att.Score == nil {
		return -1
	}
	return *att.Score
}

// toDate truncates a timestamp to its date at midnight UTC. Both assessment
// sources are compared at date granularity during resolution.
func toDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
