// Package service binds the retrieval index, the mastery tracker and the
// level state machine to persisted learning sessions.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"tutor/internal/chunker"
	"tutor/internal/domain"
	"tutor/internal/index"
	"tutor/internal/mastery"
	"tutor/internal/platform/logger"
	"tutor/internal/session"
	"tutor/internal/summarizer"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotAssessed     = errors.New("complete the diagnostic first")
	ErrEmptyMaterial   = errors.New("material has no text")
)

// Options tunes retrieval and summaries. Zero values use the package defaults.
type Options struct {
	TopK                int
	SummaryMaxSentences int

	// MinScore is the relevance threshold for lesson context. A negative
	// value disables it, so every top-k chunk is returned.
	MinScore float64
}

// Service owns the per-session material index and mediates every
// session-scoped operation through a per-session lock.
type Service struct {
	chunker    *chunker.WordChunker
	index      *index.Index
	store      session.Store
	summarizer domain.Summarizer
	log        *logger.Logger
	opts       Options
	locks      *keyedMutex
	now        func() time.Time

	// normalized source text per session, used for summaries
	textMu   sync.RWMutex
	material map[string][]string
}

// New wires a service. A nil summarizer selects the frequency summarizer and
// a nil logger discards output.
func New(c *chunker.WordChunker, idx *index.Index, store session.Store, sum domain.Summarizer, log *logger.Logger, opts Options) *Service {
	if c == nil {
		c = chunker.New(chunker.DefaultMaxWords, chunker.DefaultOverlapWords)
	}
	if idx == nil {
		idx = index.New(index.Options{})
	}
	if sum == nil {
		sum = summarizer.NewFrequencySummarizer()
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.TopK <= 0 {
		opts.TopK = index.DefaultTopK
	}
	if opts.MinScore == 0 {
		opts.MinScore = index.DefaultMinScore
	}
	if opts.SummaryMaxSentences <= 0 {
		opts.SummaryMaxSentences = 5
	}
	return &Service{
		chunker:    c,
		index:      idx,
		store:      store,
		summarizer: sum,
		log:        log,
		opts:       opts,
		locks:      newKeyedMutex(),
		now:        time.Now,
		material:   make(map[string][]string),
	}
}

// StartSession creates an unassessed session for subject.
func (s *Service) StartSession(ctx context.Context, subject string) (*session.Session, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, errors.New("subject is required")
	}
	now := s.now().UTC()
	sess := &session.Session{
		ID:          ulid.Make().String(),
		Subject:     subject,
		Performance: mastery.NewPerformance(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, sess); err != nil {
		s.log.Error("create session failed", "subject", subject, "error", err)
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.log.Info("session started", "session_id", sess.ID, "subject", subject)
	return sess, nil
}

// GetSession loads a session by id.
func (s *Service) GetSession(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.Performance == nil {
		sess.Performance = mastery.NewPerformance()
	}
	return sess, nil
}

// DeleteSession removes the session document and its material.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.clearMaterial(id)
	s.log.Info("session deleted", "session_id", id)
	return nil
}

// update runs fn on a freshly loaded copy of the session while holding its
// lock, then persists the result.
func (s *Service) update(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	unlock := s.locks.Lock(id)
	defer unlock()
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Update(ctx, sess); err != nil {
		s.log.Error("save session failed", "session_id", id, "error", err)
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}
