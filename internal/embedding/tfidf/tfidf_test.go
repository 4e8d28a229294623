package tfidf

import (
	"math"
	"testing"
)

func TestPrepare_EmptyCorpus(t *testing.T) {
	if err := NewEmbedder(0).Prepare(nil); err == nil {
		t.Fatal("expected error for empty corpus")
	}
}

func TestPrepare_UnigramsAndBigrams(t *testing.T) {
	e := NewEmbedder(0)
	if err := e.Prepare([]string{"Graphs are trees with cycles.", "A tree has no cycles."}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	for _, term := range []string{"graphs", "trees", "cycles", "graphs trees", "trees cycles", "tree", "tree cycles"} {
		if _, ok := e.vocabulary[term]; !ok {
			t.Errorf("expected %q in vocabulary", term)
		}
	}
	for _, stop := range []string{"are", "with", "has", "no", "a"} {
		if _, ok := e.vocabulary[stop]; ok {
			t.Errorf("stop-word %q should be excluded", stop)
		}
	}
	if e.Dimension() != 7 {
		t.Errorf("expected 7 terms, got %d", e.Dimension())
	}
	// "cycles" appears in both documents: idf = ln(3/3)+1
	if got := e.idf[e.vocabulary["cycles"]]; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("idf(cycles) = %f, want 1", got)
	}
	if got := e.idf[e.vocabulary["tree"]]; math.Abs(got-(math.Log(1.5)+1)) > 1e-9 {
		t.Errorf("idf(tree) = %f", got)
	}
}

func TestPrepare_MaxFeaturesKeepsFrequentTerms(t *testing.T) {
	e := NewEmbedder(1)
	if err := e.Prepare([]string{"cycles cycles graphs", "cycles"}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if e.Dimension() != 1 {
		t.Fatalf("expected 1 term, got %d", e.Dimension())
	}
	if _, ok := e.vocabulary["cycles"]; !ok {
		t.Errorf("expected most frequent term to survive, got %v", e.vocabulary)
	}
}

func TestPrepare_StopWordCorpus(t *testing.T) {
	e := NewEmbedder(0)
	if err := e.Prepare([]string{"the and of", "it is"}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if e.Dimension() != 0 {
		t.Errorf("expected empty vocabulary, got %d", e.Dimension())
	}
	if v := e.Embed("the graph"); v.Len() != 0 {
		t.Errorf("expected zero vector, got %+v", v)
	}
}

func TestEmbed_NormalizedAndSublinear(t *testing.T) {
	e := NewEmbedder(0)
	if err := e.Prepare([]string{"graphs graphs graphs trees", "trees"}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	v := e.Embed("graphs graphs graphs trees")
	if math.Abs(v.Norm()-1) > 1e-9 {
		t.Errorf("expected unit norm, got %f", v.Norm())
	}
	for i := 1; i < len(v.Indices); i++ {
		if v.Indices[i] <= v.Indices[i-1] {
			t.Fatalf("indices not ascending: %v", v.Indices)
		}
	}
	if got := e.Embed("unseen words only"); got.Len() != 0 {
		t.Errorf("out-of-vocabulary text should embed to zero, got %+v", got)
	}
}

func TestEmbed_Unprepared(t *testing.T) {
	if v := NewEmbedder(0).Embed("graphs"); v.Len() != 0 {
		t.Errorf("expected zero vector, got %+v", v)
	}
}
