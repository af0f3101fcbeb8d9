package domain

import "time"

// DateCandidate is a calendar date extracted from noisy text together with
// its confidence score and provenance (which rule fired, on which substring).
type DateCandidate struct {
	Date         time.Time `json:"date"`
	OriginalText string    `json:"originalText"`
	Confidence   float64   `json:"confidence"` // extraction certainty, 0-1
	RuleID       string    `json:"ruleId"`
	FormatUsed   string    `json:"formatUsed"` // e.g. "MM/dd/yyyy"
}

// WithConfidence returns a copy of the candidate with an adjusted confidence,
// clamped to [0, 1]. Candidates themselves are never mutated in place.
func (c DateCandidate) WithConfidence(confidence float64) DateCandidate {
	out := c
	out.Confidence = ClampConfidence(confidence)
	return out
}

// DayKey is the rounding key used by the confidence ledger: the date
// truncated to a whole day. Two candidates for the same calendar day share
// one ledger entry regardless of which format produced them.
func (c DateCandidate) DayKey() string {
	return c.Date.Format("2006-01-02")
}

// ClampConfidence clamps a confidence score to the [0, 1] range.
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
