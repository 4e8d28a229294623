package chunker

import (
	"fmt"
	"strings"
	"testing"

	"tutor/internal/domain"
)

func sentences(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("s%d a b c d.", i)
	}
	return strings.Join(parts, " ")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"inline spaces", "a \t  b", "a b"},
		{"blank runs", "Hello \t  world  \n\n\n\n  Next   line \r\n end ", "Hello world\n\nNext line\nend"},
		{"whitespace-only lines", "a\n \n \n \nb", "a\n\nb"},
		{"keeps single newlines", "a\nb", "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSentences(t *testing.T) {
	got := Sentences("A b. C d!\n\nE f?  G\n\nH 3.14 i")
	want := []string{"A b.", "C d!", "E f?", "G", "H 3.14 i"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	if got := Split("", 10, 2); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := New(0, -1).Texts(" \n\n\t "); len(got) != 0 {
		t.Errorf("expected no chunks, got %v", got)
	}
}

func TestChunk_ShortTextIsNormalizedText(t *testing.T) {
	raw := "Graphs  are\ttrees.\n\n\n\nTrees have   no cycles. "
	got := New(DefaultMaxWords, DefaultOverlapWords).Texts(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if got[0] != Normalize(raw) {
		t.Errorf("expected %q, got %q", Normalize(raw), got[0])
	}
}

func TestSplit_NoOverlapEndsOnSentenceBoundary(t *testing.T) {
	got := Split(sentences(6), 10, 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(got), got)
	}
	for i, c := range got {
		if !strings.HasSuffix(c, "d.") {
			t.Errorf("chunk %d does not end on a sentence: %q", i, c)
		}
		if len(strings.Fields(c)) > 10 {
			t.Errorf("chunk %d exceeds max words: %q", i, c)
		}
	}
	if !strings.HasPrefix(got[1], "s2 ") || !strings.HasPrefix(got[2], "s4 ") {
		t.Errorf("chunks should start on sentence starts: %q", got)
	}
}

func TestSplit_OverlapSeedsNextChunk(t *testing.T) {
	got := Split(sentences(4), 10, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(got), got)
	}
	if got[0] != "s0 a b c d. s1 a b c d." {
		t.Errorf("unexpected first chunk %q", got[0])
	}
	if !strings.HasPrefix(got[1], "b c d. s2") {
		t.Errorf("second chunk should carry the overlap, got %q", got[1])
	}
	if !strings.HasPrefix(got[2], "b c d. s3") {
		t.Errorf("third chunk should carry the overlap, got %q", got[2])
	}
}

func TestSplit_OverlapLargerThanBufferStartsEmpty(t *testing.T) {
	got := Split(sentences(4), 10, 12)
	for i, c := range got[1:] {
		if strings.HasPrefix(c, "b ") {
			t.Errorf("chunk %d should not be seeded: %q", i+1, c)
		}
	}
}

func TestSplit_MergesTinyTrailingChunk(t *testing.T) {
	got := Split(sentences(2)+" tiny end.", 10, 0)
	if len(got) != 1 {
		t.Fatalf("expected trailing fragment to merge, got %d chunks: %q", len(got), got)
	}
	if !strings.HasSuffix(got[0], "d. tiny end.") {
		t.Errorf("unexpected merged chunk %q", got[0])
	}
}

func TestSplit_LongSentenceKeptWhole(t *testing.T) {
	got := Split("one two three four five six. seven.", 4, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(got), got)
	}
	if got[0] != "one two three four five six." {
		t.Errorf("sentence was split: %q", got[0])
	}
}

func TestWordChunker_TagsFilename(t *testing.T) {
	c := New(10, 0)
	chunks := c.Chunk(domain.Document{Filename: "notes.txt", Content: sentences(6)})
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.Filename != "notes.txt" || ch.Index != i || ch.Text == "" {
			t.Errorf("bad chunk %d: %+v", i, ch)
		}
	}
}
