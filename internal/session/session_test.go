package session

import (
	"context"
	"errors"
	"testing"

	"tutor/internal/mastery"
)

func TestMemoryStore_IsolatesCallers(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	s := &Session{ID: "s1", Subject: "Networks", Performance: mastery.NewPerformance()}
	if err := st.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.Create(ctx, s); err == nil {
		t.Error("expected duplicate create to fail")
	}

	s.Performance.TopicAccuracy["TCP"] = mastery.Tally{Correct: 1, Total: 1}
	got, err := st.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Performance.TopicAccuracy) != 0 {
		t.Error("store shares state with caller")
	}

	if err := st.Update(ctx, s); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = st.Get(ctx, "s1")
	if got.Performance.TopicAccuracy["TCP"].Total != 1 {
		t.Error("update not persisted")
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	if _, err := st.Get(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := st.Update(ctx, &Session{ID: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
