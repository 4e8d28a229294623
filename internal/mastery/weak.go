package mastery

import "sort"

const (
	weakMinAttempts = 2
	weakAccuracy    = 50.0
)

// Kind tells whether a weakness refers to a topic or a question type.
type Kind string

const (
	KindTopic        Kind = "topic"
	KindQuestionType Kind = "question_type"
)

// Weakness is a category the learner answers poorly.
type Weakness struct {
	Kind     Kind    `json:"kind"`
	Name     string  `json:"name"`
	Accuracy float64 `json:"accuracy"`
}

// DetectWeaknesses returns topics, then question types, with at least two
// attempts and accuracy under 50%. Within a kind the weakest come first.
func DetectWeaknesses(p *Performance) []Weakness {
	out := weakIn(p.TopicAccuracy, KindTopic)
	return append(out, weakIn(p.TypeAccuracy, KindQuestionType)...)
}

func weakIn(tallies map[string]Tally, kind Kind) []Weakness {
	var out []Weakness
	for name, t := range tallies {
		if t.Total < weakMinAttempts {
			continue
		}
		if acc := t.Accuracy(); acc < weakAccuracy {
			out = append(out, Weakness{Kind: kind, Name: name, Accuracy: round1(acc)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Accuracy == out[j].Accuracy {
			return out[i].Name < out[j].Name
		}
		return out[i].Accuracy < out[j].Accuracy
	})
	return out
}

// SuggestNextTopic picks the first topic in allTopics that has no attempts,
// otherwise the topic with the lowest accuracy (earliest wins ties).
// It returns false when allTopics is empty.
func SuggestNextTopic(p *Performance, allTopics []string) (string, bool) {
	if len(allTopics) == 0 {
		return "", false
	}
	for _, t := range allTopics {
		if p.TopicAccuracy[t].Total == 0 {
			return t, true
		}
	}
	best := allTopics[0]
	bestAcc := p.TopicAccuracy[best].Accuracy()
	for _, t := range allTopics[1:] {
		if acc := p.TopicAccuracy[t].Accuracy(); acc < bestAcc {
			best, bestAcc = t, acc
		}
	}
	return best, true
}
