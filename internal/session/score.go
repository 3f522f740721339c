package session

// Rating is the qualitative band a final percentage falls into.
type Rating string

// Rating bands, inclusive lower bound.
const (
	RatingExcellent     Rating = "Excellent"
	RatingVeryGood      Rating = "Very Good"
	RatingGood          Rating = "Good"
	RatingNeedToImprove Rating = "Need to Improve"

	// RatingNone marks an abandoned interview with no scored answers.
	RatingNone Rating = "N/A"
)

// Aggregate combines per-answer scores into the final percentage and rating.
// The percentage is the arithmetic mean; an empty score list aggregates to
// zero.
func Aggregate(scores []ScoredAnswer) (float64, Rating) {
	if len(scores) == 0 {
		return 0, RatingNeedToImprove
	}

	sum := 0
	for _, s := range scores {
		sum += s.Score
	}

	percentage := float64(sum) / float64(len(scores))
	return percentage, RatingFor(percentage)
}

// RatingFor maps a percentage to its band.
func RatingFor(percentage float64) Rating {
	switch {
	case percentage >= 90:
		return RatingExcellent
	case percentage >= 75:
		return RatingVeryGood
	case percentage >= 50:
		return RatingGood
	default:
		return RatingNeedToImprove
	}
}
