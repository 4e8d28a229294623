// Package mastery tracks a learner's per-session performance: accuracy by
// topic and question type, answer streaks and a derived mastery score.
package mastery

// DefaultQuestionType is used when a round does not name its question type.
const DefaultQuestionType = "short"

// QuestionTypes lists the question formats the exercises are generated in.
var QuestionTypes = []string{"mcq", "true_false", "short", "qa"}

// Tally counts correct answers out of total attempts.
type Tally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Accuracy returns the percentage of correct answers, 0 with no attempts.
func (t Tally) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total) * 100
}

// Answer is one scored answer; correctness is decided upstream.
type Answer struct {
	Correct bool `json:"correct"`
}

// Performance is the per-session performance record.
type Performance struct {
	TopicAccuracy    map[string]Tally `json:"topic_accuracy"`
	TypeAccuracy     map[string]Tally `json:"type_accuracy"`
	MasteryScore     float64          `json:"mastery_score"`
	TotalTimeSeconds float64          `json:"total_time_seconds"`
	TotalResponses   int              `json:"total_responses"`
	Streak           int              `json:"streak"`
	BestStreak       int              `json:"best_streak"`
}

// NewPerformance returns an empty record for a new session.
func NewPerformance() *Performance {
	return &Performance{
		TopicAccuracy: make(map[string]Tally),
		TypeAccuracy:  make(map[string]Tally),
	}
}

// CountCorrect returns the number of correct answers in a round.
func CountCorrect(answers []Answer) int {
	n := 0
	for _, a := range answers {
		if a.Correct {
			n++
		}
	}
	return n
}

// RecordRound applies one round of scored answers to p and returns it.
// A round with every answer correct extends the streak; any wrong answer
// resets it. Negative elapsed time is ignored.
func RecordRound(p *Performance, answers []Answer, questionType, topic string, elapsedSeconds float64) *Performance {
	if p.TopicAccuracy == nil {
		p.TopicAccuracy = make(map[string]Tally)
	}
	if p.TypeAccuracy == nil {
		p.TypeAccuracy = make(map[string]Tally)
	}
	correct := CountCorrect(answers)
	total := len(answers)

	ta := p.TopicAccuracy[topic]
	ta.Correct += correct
	ta.Total += total
	p.TopicAccuracy[topic] = ta

	ty := p.TypeAccuracy[questionType]
	ty.Correct += correct
	ty.Total += total
	p.TypeAccuracy[questionType] = ty

	if elapsedSeconds > 0 {
		p.TotalTimeSeconds += elapsedSeconds
	}
	p.TotalResponses += total

	if correct == total {
		p.Streak++
	} else {
		p.Streak = 0
	}
	p.BestStreak = max(p.BestStreak, p.Streak)

	p.MasteryScore = Mastery(p)
	return p
}

// Accuracy returns overall accuracy across all topics as a percentage.
func (p *Performance) Accuracy() float64 {
	var sum Tally
	for _, t := range p.TopicAccuracy {
		sum.Correct += t.Correct
		sum.Total += t.Total
	}
	return sum.Accuracy()
}
