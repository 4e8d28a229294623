package mastery

import (
	"fmt"
	"strings"
)

const (
	maxWeaknessRemarks = 3
	streakCallout      = 3
)

// Recommendations turns the record into short study advice for subject.
func Recommendations(p *Performance, subject string) []string {
	var recs []string
	switch m := p.MasteryScore; {
	case m < 30:
		recs = append(recs, fmt.Sprintf("Focus on building fundamentals in %s.", subject))
	case m < 60:
		recs = append(recs, "Solid progress. Continue practicing to strengthen weak areas.")
	default:
		recs = append(recs, "Strong performance. Consider moving to advanced topics.")
	}

	weak := DetectWeaknesses(p)
	if len(weak) > maxWeaknessRemarks {
		weak = weak[:maxWeaknessRemarks]
	}
	for _, w := range weak {
		if w.Kind == KindTopic {
			recs = append(recs, fmt.Sprintf("Review %s -- accuracy is %.1f%%.", w.Name, w.Accuracy))
		} else {
			recs = append(recs, fmt.Sprintf("Practice more %s questions.", strings.ReplaceAll(w.Name, "_", " ")))
		}
	}

	if p.Streak >= streakCallout {
		recs = append(recs, fmt.Sprintf("Current streak: %d rounds correct in a row.", p.Streak))
	}
	return recs
}
