package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"tutor/internal/domain"
)

// DefaultMaxFeatures caps the vocabulary size.
const DefaultMaxFeatures = 8000

// Embedder implements a TF-IDF vectorizer over unigrams and bigrams.
// It builds a vocabulary from the corpus and computes smoothed IDF values;
// term frequencies are damped with 1+ln(tf) and vectors are L2-normalized.
type Embedder struct {
	maxFeatures  int
	vocabulary   map[string]int
	idf          []float64
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewEmbedder creates an unprepared TF-IDF embedder. A non-positive
// maxFeatures falls back to DefaultMaxFeatures.
func NewEmbedder(maxFeatures int) *Embedder {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Embedder{
		maxFeatures:  maxFeatures,
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}_]{2,}`),
		stopwords:    StopWords(),
	}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and IDF values from the provided corpus.
// A corpus made only of stop-words yields an empty vocabulary, not an error.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF prepare")
	}
	df := make(map[string]int)
	freq := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, term := range e.terms(text) {
			freq[term]++
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if len(terms) > e.maxFeatures {
		// Keep the most frequent terms across the corpus.
		sort.Slice(terms, func(i, j int) bool {
			if freq[terms[i]] == freq[terms[j]] {
				return terms[i] < terms[j]
			}
			return freq[terms[i]] > freq[terms[j]]
		})
		terms = terms[:e.maxFeatures]
	}
	sort.Strings(terms)

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return nil
}

// Dimension returns the vocabulary size.
func (e *Embedder) Dimension() int { return len(e.idf) }

// Embed computes the TF-IDF vector for text. Terms outside the vocabulary
// contribute nothing; an unprepared embedder yields the zero vector.
func (e *Embedder) Embed(text string) domain.Vector {
	tf := make(map[int]int)
	for _, term := range e.terms(text) {
		if idx, ok := e.vocabulary[term]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return domain.Vector{}
	}
	vec := domain.Vector{
		Indices: make([]int, 0, len(tf)),
		Values:  make([]float64, 0, len(tf)),
	}
	for idx := range tf {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)
	norm := 0.0
	for _, idx := range vec.Indices {
		w := (1 + math.Log(float64(tf[idx]))) * e.idf[idx]
		vec.Values = append(vec.Values, w)
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec
}

// terms returns the unigrams and bigrams of text after stop-word removal.
func (e *Embedder) terms(text string) []string {
	tokens := e.tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func (e *Embedder) tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := e.tokenPattern.FindAllString(lower, -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}
