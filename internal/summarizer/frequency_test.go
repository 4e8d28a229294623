package summarizer

import "testing"

func TestSummarize(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "Graphs model networks. Graphs contain vertices and edges. Cooking is fun. Vertices in graphs connect through edges."
	got := s.Summarize(text, 2)
	want := "Graphs contain vertices and edges. Vertices in graphs connect through edges."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if s.Summarize("", 3) != "" {
		t.Error("expected empty summary for empty text")
	}
	if got := s.Summarize("Only one.", 0); got != "Only one." {
		t.Errorf("got %q", got)
	}
}
