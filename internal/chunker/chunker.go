// Package chunker normalizes extracted document text and splits it into
// overlapping, sentence-respecting chunks sized for retrieval.
package chunker

import (
	"regexp"
	"strings"

	"tutor/internal/domain"
)

const (
	DefaultMaxWords     = 500
	DefaultOverlapWords = 80
)

var (
	inlineSpace = regexp.MustCompile(`[^\S\n]+`)
	blankRun    = regexp.MustCompile(`\n{3,}`)
	// A boundary is either sentence punctuation followed by whitespace or a blank line.
	boundary = regexp.MustCompile(`[.!?]\s+|\n{2,}`)
)

// WordChunker packs sentences into chunks of at most maxWords words with a
// sliding window of overlapWords words between consecutive chunks.
type WordChunker struct {
	maxWords     int
	overlapWords int
}

// New returns a WordChunker. Non-positive maxWords and negative overlapWords
// fall back to the defaults.
func New(maxWords, overlapWords int) *WordChunker {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	if overlapWords < 0 {
		overlapWords = DefaultOverlapWords
	}
	return &WordChunker{maxWords: maxWords, overlapWords: overlapWords}
}

// Chunk normalizes the document content and splits it, tagging every chunk
// with the document filename.
func (c *WordChunker) Chunk(document domain.Document) []domain.Chunk {
	texts := c.Texts(document.Content)
	chunks := make([]domain.Chunk, 0, len(texts))
	for i, t := range texts {
		chunks = append(chunks, domain.Chunk{Filename: document.Filename, Text: t, Index: i})
	}
	return chunks
}

// Texts returns Split(Normalize(raw)) with the chunker's limits.
func (c *WordChunker) Texts(raw string) []string {
	return Split(Normalize(raw), c.maxWords, c.overlapWords)
}

// Normalize collapses runs of non-newline whitespace to one space, strips
// every line and collapses three or more newlines to a paragraph break.
func Normalize(raw string) string {
	text := inlineSpace.ReplaceAllString(raw, " ")
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	text = blankRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}

// Sentences splits text on sentence punctuation followed by whitespace and on
// blank lines. Empty segments are dropped.
func Sentences(text string) []string {
	var out []string
	start := 0
	for _, m := range boundary.FindAllStringIndex(text, -1) {
		end := m[0]
		if text[m[0]] != '\n' {
			end = m[0] + 1 // keep the punctuation with its sentence
		}
		if s := strings.TrimSpace(text[start:end]); s != "" {
			out = append(out, s)
		}
		start = m[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// Split packs the sentences of cleaned text into chunks of at most maxWords
// words. A sentence longer than maxWords becomes its own chunk.
func Split(cleaned string, maxWords, overlapWords int) []string {
	if strings.TrimSpace(cleaned) == "" {
		return nil
	}
	segments := Sentences(cleaned)
	words := make([][]string, len(segments))
	total := 0
	for i, s := range segments {
		words[i] = strings.Fields(s)
		total += len(words[i])
	}
	if total <= maxWords {
		return []string{strings.TrimSpace(cleaned)}
	}

	var chunks []string
	var current []string
	for _, seg := range words {
		if len(current)+len(seg) > maxWords && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			if overlapWords > 0 && len(current) > overlapWords {
				current = append([]string(nil), current[len(current)-overlapWords:]...)
			} else {
				current = nil
			}
		}
		current = append(current, seg...)
	}

	if len(current) > 0 {
		tail := strings.Join(current, " ")
		if len(chunks) > 0 && 4*len(current) < maxWords {
			chunks[len(chunks)-1] += " " + tail
		} else {
			chunks = append(chunks, tail)
		}
	}
	return chunks
}
