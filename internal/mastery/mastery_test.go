package mastery

import (
	"reflect"
	"strings"
	"testing"
)

func answers(pattern ...bool) []Answer {
	out := make([]Answer, len(pattern))
	for i, c := range pattern {
		out[i] = Answer{Correct: c}
	}
	return out
}

func TestRecordRound_PerfectFirstRound(t *testing.T) {
	p := RecordRound(NewPerformance(), answers(true, true, true, true, true), "mcq", "Graphs", 30)
	if p.TopicAccuracy["Graphs"] != (Tally{5, 5}) {
		t.Errorf("topic tally = %+v", p.TopicAccuracy["Graphs"])
	}
	if p.TypeAccuracy["mcq"] != (Tally{5, 5}) {
		t.Errorf("type tally = %+v", p.TypeAccuracy["mcq"])
	}
	if p.Streak != 1 || p.BestStreak != 1 {
		t.Errorf("streak = %d/%d", p.Streak, p.BestStreak)
	}
	if p.MasteryScore != 67.0 {
		t.Errorf("mastery = %v, want 67.0", p.MasteryScore)
	}
	if p.TotalResponses != 5 || p.TotalTimeSeconds != 30 {
		t.Errorf("totals = %d / %v", p.TotalResponses, p.TotalTimeSeconds)
	}
}

func TestRecordRound_StreakResetKeepsBest(t *testing.T) {
	p := NewPerformance()
	RecordRound(p, answers(true), "short", "Trees", 1)
	RecordRound(p, answers(true, true), "short", "Trees", 1)
	RecordRound(p, answers(true, false), "short", "Trees", -5)
	if p.Streak != 0 || p.BestStreak != 2 {
		t.Errorf("streak = %d/%d, want 0/2", p.Streak, p.BestStreak)
	}
	if p.TotalTimeSeconds != 2 {
		t.Errorf("negative elapsed should be ignored, got %v", p.TotalTimeSeconds)
	}
	if p.TopicAccuracy["Trees"] != (Tally{4, 5}) {
		t.Errorf("tally = %+v", p.TopicAccuracy["Trees"])
	}
}

func TestRecordRound_NilMaps(t *testing.T) {
	p := RecordRound(&Performance{}, answers(false), "qa", "Heaps", 0)
	if p.TopicAccuracy["Heaps"] != (Tally{0, 1}) {
		t.Errorf("tally = %+v", p.TopicAccuracy["Heaps"])
	}
}

func TestMastery_Empty(t *testing.T) {
	if got := Mastery(NewPerformance()); got != 0 {
		t.Errorf("mastery of empty record = %v", got)
	}
}

func TestMastery_Monotonic(t *testing.T) {
	base := func(best, correct int) *Performance {
		return &Performance{
			TopicAccuracy: map[string]Tally{"a": {correct, 10}},
			TypeAccuracy:  map[string]Tally{"mcq": {correct, 10}},
			BestStreak:    best,
		}
	}
	prev := -1.0
	for best := 0; best <= 15; best++ {
		m := Mastery(base(best, 5))
		if m < prev {
			t.Fatalf("mastery decreased with best streak %d: %v < %v", best, m, prev)
		}
		prev = m
	}
	prev = -1
	for correct := 0; correct <= 10; correct++ {
		m := Mastery(base(3, correct))
		if m < prev {
			t.Fatalf("mastery decreased with accuracy %d: %v < %v", correct, m, prev)
		}
		prev = m
	}
	if m := Mastery(&Performance{
		TopicAccuracy: map[string]Tally{"a": {1, 1}, "b": {1, 1}, "c": {1, 1}, "d": {1, 1}, "e": {1, 1}},
		TypeAccuracy:  map[string]Tally{"mcq": {1, 1}, "qa": {1, 1}, "short": {1, 1}, "true_false": {1, 1}},
		BestStreak:    50,
	}); m != 100 {
		t.Errorf("saturated mastery = %v, want 100", m)
	}
}

func TestDetectWeaknesses(t *testing.T) {
	p := &Performance{
		TopicAccuracy: map[string]Tally{"Graphs": {1, 4}, "Trees": {0, 1}, "Heaps": {3, 4}, "Sorting": {0, 2}},
		TypeAccuracy:  map[string]Tally{"true_false": {1, 3}, "mcq": {1, 2}},
	}
	got := DetectWeaknesses(p)
	want := []Weakness{
		{KindTopic, "Sorting", 0},
		{KindTopic, "Graphs", 25},
		{KindQuestionType, "true_false", 33.3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestSuggestNextTopic(t *testing.T) {
	p := &Performance{TopicAccuracy: map[string]Tally{"A": {3, 4}, "B": {1, 4}, "C": {1, 4}}}
	tests := []struct {
		name   string
		topics []string
		want   string
		ok     bool
	}{
		{"unattempted first", []string{"A", "D", "E"}, "D", true},
		{"lowest accuracy", []string{"A", "B", "C"}, "B", true},
		{"tie keeps input order", []string{"C", "B", "A"}, "C", true},
		{"empty", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SuggestNextTopic(p, tt.topics)
			if got != tt.want || ok != tt.ok {
				t.Errorf("got %q,%v want %q,%v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	p := &Performance{
		TopicAccuracy: map[string]Tally{"Graphs": {1, 4}},
		TypeAccuracy:  map[string]Tally{"true_false": {0, 4}},
		MasteryScore:  20,
		Streak:        3,
	}
	got := Recommendations(p, "Algorithms")
	want := []string{
		"Focus on building fundamentals in Algorithms.",
		"Review Graphs -- accuracy is 25.0%.",
		"Practice more true false questions.",
		"Current streak: 3 rounds correct in a row.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q", got)
	}

	p = &Performance{MasteryScore: 75}
	if got := Recommendations(p, "x"); len(got) != 1 || !strings.HasPrefix(got[0], "Strong performance") {
		t.Errorf("got %q", got)
	}
	p.MasteryScore = 45
	if got := Recommendations(p, "x"); !strings.HasPrefix(got[0], "Solid progress") {
		t.Errorf("got %q", got)
	}
}
