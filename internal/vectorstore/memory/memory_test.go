package memory

import (
	"testing"

	"tutor/internal/domain"
)

func vec(idx []int, vals []float64) domain.Vector {
	return domain.Vector{Indices: idx, Values: vals}
}

func TestSearch_OrdersByScoreThenInsertion(t *testing.T) {
	s := NewStorage()
	if err := s.Init(3); err != nil {
		t.Fatalf("init: %v", err)
	}
	chunks := []domain.Chunk{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}}
	vectors := []domain.Vector{
		vec([]int{0}, []float64{1}),
		vec([]int{1}, []float64{1}),
		vec([]int{0}, []float64{1}),
		{},
	}
	if err := s.Upsert(chunks, vectors); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	res, err := s.Search(vec([]int{0}, []float64{1}), 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	got := ""
	for _, r := range res {
		got += r.Chunk.Text
	}
	if got != "acbd" {
		t.Errorf("unexpected order %q", got)
	}
	if res[0].Score != 1 || res[3].Score != 0 {
		t.Errorf("unexpected scores: %+v", res)
	}
	top, _ := s.Search(vec([]int{1}, []float64{1}), 1)
	if len(top) != 1 || top[0].Chunk.Text != "b" {
		t.Errorf("unexpected top-1: %+v", top)
	}
}

func TestUpsert_Validation(t *testing.T) {
	s := NewStorage()
	if err := s.Init(-1); err == nil {
		t.Error("expected error for negative dimension")
	}
	_ = s.Init(1)
	if err := s.Upsert([]domain.Chunk{{}}, nil); err == nil {
		t.Error("expected length mismatch error")
	}
	if err := s.Upsert([]domain.Chunk{{}}, []domain.Vector{vec([]int{4}, []float64{1})}); err == nil {
		t.Error("expected dimension mismatch error")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}

func TestClear(t *testing.T) {
	s := NewStorage()
	_ = s.Init(1)
	_ = s.Upsert([]domain.Chunk{{Text: "x"}}, []domain.Vector{{}})
	_ = s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty store after clear")
	}
}
