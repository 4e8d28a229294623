package mastery

import "math"

const (
	accuracyWeight = 0.6
	coverageWeight = 0.2
	streakWeight   = 0.2

	// coverageSaturation is the number of distinct topics plus question
	// types at which breadth stops adding to the score.
	coverageSaturation = 8
	streakSaturation   = 10
)

// Mastery computes the 0-100 mastery score: 60% overall accuracy, 20%
// topic/type coverage and 20% best streak, rounded to one decimal.
func Mastery(p *Performance) float64 {
	coverage := math.Min(float64(len(p.TopicAccuracy)+len(p.TypeAccuracy))/coverageSaturation, 1) * 100
	streak := float64(min(p.BestStreak, streakSaturation)) / streakSaturation * 100

	m := accuracyWeight*p.Accuracy() + coverageWeight*coverage + streakWeight*streak
	m = math.Max(0, math.Min(m, 100))
	return round1(m)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
