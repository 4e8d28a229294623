package service

import (
	"context"
	"math"

	"tutor/internal/level"
	"tutor/internal/mastery"
	"tutor/internal/session"
)

// DiagnosticResult is the outcome of a placement round.
type DiagnosticResult struct {
	Score   float64     `json:"score"`
	Level   level.Level `json:"level"`
	Correct int         `json:"correct"`
	Total   int         `json:"total"`
}

// Round is one set of scored exercise answers. PerQuestionTimes, when it
// holds one entry per answer, replaces ElapsedSeconds as the round time.
type Round struct {
	Answers          []mastery.Answer `json:"answers"`
	QuestionType     string           `json:"question_type"`
	Topic            string           `json:"topic"`
	ElapsedSeconds   float64          `json:"elapsed_seconds"`
	PerQuestionTimes []float64        `json:"per_question_times,omitempty"`
}

// Elapsed is the time spent on the round in seconds. Negative inputs count
// as zero.
func (r Round) Elapsed() float64 {
	if len(r.PerQuestionTimes) > 0 && len(r.PerQuestionTimes) == len(r.Answers) {
		var sum float64
		for _, t := range r.PerQuestionTimes {
			sum += math.Max(0, t)
		}
		return sum
	}
	return math.Max(0, r.ElapsedSeconds)
}

// RoundResult is the outcome of a submitted round.
type RoundResult struct {
	Accuracy     float64     `json:"accuracy"`
	Correct      int         `json:"correct"`
	Total        int         `json:"total"`
	NewLevel     level.Level `json:"new_level"`
	LevelChanged bool        `json:"level_changed"`
	Mastery      float64     `json:"mastery"`
}

// Progress is the learner report for a session.
type Progress struct {
	Subject         string                   `json:"subject"`
	Level           string                   `json:"level"`
	LevelHistory    []level.Level            `json:"level_history"`
	Mastery         float64                  `json:"mastery"`
	Accuracy        float64                  `json:"accuracy"`
	TopicAccuracy   map[string]mastery.Tally `json:"topic_accuracy"`
	TypeAccuracy    map[string]mastery.Tally `json:"type_accuracy"`
	Weaknesses      []mastery.Weakness       `json:"weaknesses"`
	NextTopic       string                   `json:"next_topic,omitempty"`
	Recommendations []string                 `json:"recommendations"`
	TotalCorrect    int                      `json:"total_correct"`
	TotalAttempts   int                      `json:"total_attempts"`
}

// Diagnostic places the learner from a round of answers. The round counts
// toward the subject's topic accuracy and the running totals.
func (s *Service) Diagnostic(ctx context.Context, sessionID string, answers []mastery.Answer, questionType string) (DiagnosticResult, error) {
	if questionType == "" {
		questionType = mastery.DefaultQuestionType
	}
	var res DiagnosticResult
	_, err := s.update(ctx, sessionID, func(sess *session.Session) error {
		res.Correct = mastery.CountCorrect(answers)
		res.Total = len(answers)
		score := percent(res.Correct, res.Total)
		res.Level = sess.Level.Diagnose(score)
		res.Score = round1(score)
		mastery.RecordRound(sess.Performance, answers, questionType, sess.Subject, 0)
		sess.TotalCorrect += res.Correct
		sess.TotalAttempts += res.Total
		return nil
	})
	if err != nil {
		return DiagnosticResult{}, err
	}
	s.log.Info("diagnostic scored", "session_id", sessionID, "score", res.Score, "level", res.Level.String())
	return res, nil
}

// SubmitRound records an exercise round and moves the level at most one step.
// An empty topic falls back to the session subject.
func (s *Service) SubmitRound(ctx context.Context, sessionID string, r Round) (RoundResult, error) {
	if r.QuestionType == "" {
		r.QuestionType = mastery.DefaultQuestionType
	}
	var res RoundResult
	_, err := s.update(ctx, sessionID, func(sess *session.Session) error {
		if !sess.Level.Assessed {
			return ErrNotAssessed
		}
		topic := r.Topic
		if topic == "" {
			topic = sess.Subject
		}
		res.Correct = mastery.CountCorrect(r.Answers)
		res.Total = len(r.Answers)
		accuracy := percent(res.Correct, res.Total)
		mastery.RecordRound(sess.Performance, r.Answers, r.QuestionType, topic, r.Elapsed())
		res.Mastery = mastery.Mastery(sess.Performance)
		res.NewLevel, res.LevelChanged = sess.Level.Adjust(accuracy, res.Mastery)
		res.Accuracy = round1(accuracy)
		sess.TotalCorrect += res.Correct
		sess.TotalAttempts += res.Total
		return nil
	})
	if err != nil {
		return RoundResult{}, err
	}
	s.log.Info("round submitted", "session_id", sessionID, "accuracy", res.Accuracy, "mastery", res.Mastery, "level_changed", res.LevelChanged)
	return res, nil
}

// Progress builds the learner report. topics lists the curriculum used to
// suggest the next topic; it may be empty.
func (s *Service) Progress(ctx context.Context, sessionID string, topics []string) (Progress, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return Progress{}, err
	}
	p := sess.Performance
	next, _ := mastery.SuggestNextTopic(p, topics)
	weak := mastery.DetectWeaknesses(p)
	if weak == nil {
		weak = []mastery.Weakness{}
	}
	history := append([]level.Level{}, sess.Level.History...)
	return Progress{
		Subject:         sess.Subject,
		Level:           sess.Level.Label(),
		LevelHistory:    history,
		Mastery:         mastery.Mastery(p),
		Accuracy:        round1(p.Accuracy()),
		TopicAccuracy:   copyTallies(p.TopicAccuracy),
		TypeAccuracy:    copyTallies(p.TypeAccuracy),
		Weaknesses:      weak,
		NextTopic:       next,
		Recommendations: mastery.Recommendations(p, sess.Subject),
		TotalCorrect:    sess.TotalCorrect,
		TotalAttempts:   sess.TotalAttempts,
	}, nil
}

func copyTallies(in map[string]mastery.Tally) map[string]mastery.Tally {
	out := make(map[string]mastery.Tally, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func percent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
