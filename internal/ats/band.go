package ats

// Band labels an ATS score for display.
type Band string

const (
	BandExcellent Band = "Excellent!"
	BandGood      Band = "Good, but can improve"
	BandWeak      Band = "Needs improvement"
)

// BandFor returns the display band of score.
func BandFor(score float64) Band {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandGood
	default:
		return BandWeak
	}
}
