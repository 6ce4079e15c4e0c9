package assessment

import "strings"

// Level is one of the four ordinal competency bands (EE > ME > AE > BE)
// describing mastery of a Learning Outcome.
type Level string

const (
	LevelEE Level = "EE" // Exceeding Expectations
	LevelME Level = "ME" // Meeting Expectations
	LevelAE Level = "AE" // Approaching Expectations
	LevelBE Level = "BE" // Below Expectations
)

// Levels holds all bands in fixed display order (highest first).
var Levels = []Level{LevelEE, LevelME, LevelAE, LevelBE}

var levelLabels = map[Level]string{
	LevelEE: "Exceeding Expectations",
	LevelME: "Meeting Expectations",
	LevelAE: "Approaching Expectations",
	LevelBE: "Below Expectations",
}

func (l Level) Label() string {
	return levelLabels[l]
}

func (l Level) Valid() bool {
	_, ok := levelLabels[l]
	return ok
}

func (l Level) normalize() Level {
	return Level(strings.ToUpper(string(l)))
}

// LevelFor maps a raw score against the maximum possible score to a
// competency band. It reports false when max is not positive: an ungradable
// source contributes nothing, it is never treated as Below Expectations.
//
// Thresholds are inclusive lower bounds on the percentage, compared exactly
// (no rounding): >=80 EE, >=60 ME, >=40 AE, else BE.
func LevelFor(score, max float64) (Level, bool) {
	if max <= 0 {
		return "", false
	}
	pct := score / max * 100

	switch {
	case pct >= 80:
		return LevelEE, true
	case pct >= 60:
		return LevelME, true
	case pct >= 40:
		return LevelAE, true
	default:
		return LevelBE, true
	}
}
