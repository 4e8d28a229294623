// Package index keeps one additive TF-IDF index per learning session and
// answers top-k relevance queries against it.
package index

import (
	"fmt"
	"strings"
	"sync"

	"tutor/internal/domain"
	"tutor/internal/embedding"
	"tutor/internal/embedding/tfidf"
	"tutor/internal/platform/logger"
	"tutor/internal/vectorstore"
	"tutor/internal/vectorstore/memory"
)

const (
	DefaultTopK     = 5
	DefaultMinScore = 0.05
	// fallbackCount chunks are returned when nothing passes the score threshold.
	fallbackCount = 2
)

// Options configures how sessions are vectorized and stored. A nil Logger
// discards output.
type Options struct {
	MaxFeatures int
	NewEmbedder func() embedding.Embedder
	NewStorage  func() vectorstore.Storage
	Logger      *logger.Logger
}

// Stats summarizes the material stored for a session.
type Stats struct {
	Chunks     int      `json:"chunks"`
	Files      []string `json:"files"`
	TotalWords int      `json:"total_words"`
}

type session struct {
	chunks   []domain.Chunk
	embedder embedding.Embedder
	store    vectorstore.Storage
}

// Index maps session ids to their material. The map itself is safe for
// concurrent use; calls for one session must be serialized by the caller.
type Index struct {
	mu       sync.RWMutex
	sessions map[string]*session
	opts     Options
	log      *logger.Logger
}

// New creates an empty index.
func New(opts Options) *Index {
	if opts.NewEmbedder == nil {
		maxFeatures := opts.MaxFeatures
		opts.NewEmbedder = func() embedding.Embedder { return tfidf.NewEmbedder(maxFeatures) }
	}
	if opts.NewStorage == nil {
		opts.NewStorage = func() vectorstore.Storage { return memory.NewStorage() }
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Index{sessions: make(map[string]*session), opts: opts, log: opts.Logger}
}

// Add appends chunks from one file to the session and rebuilds the whole
// session vocabulary. It returns the session's new total chunk count.
func (x *Index) Add(sessionID string, chunks []string, filename string) int {
	prev := x.get(sessionID)
	if len(chunks) == 0 {
		if prev == nil {
			return 0
		}
		return len(prev.chunks)
	}

	var all []domain.Chunk
	if prev != nil {
		all = append(all, prev.chunks...)
	}
	for _, text := range chunks {
		all = append(all, domain.Chunk{Filename: filename, Text: text, Index: len(all)})
	}

	next, err := x.build(all)
	if err != nil {
		kept := 0
		if prev != nil {
			kept = len(prev.chunks)
		}
		x.log.Warn("index rebuild failed, keeping previous material", "session_id", sessionID, "filename", filename, "kept_chunks", kept, "error", err)
		return kept
	}
	x.mu.Lock()
	x.sessions[sessionID] = next
	x.mu.Unlock()
	if prev != nil {
		x.release(sessionID, prev)
	}
	x.log.Debug("index rebuilt", "session_id", sessionID, "embedder", next.embedder.Name(), "dimension", next.embedder.Dimension(), "chunks", len(all))
	return len(all)
}

func (x *Index) build(chunks []domain.Chunk) (*session, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	emb := x.opts.NewEmbedder()
	if err := emb.Prepare(texts); err != nil {
		return nil, err
	}
	vectors := make([]domain.Vector, len(texts))
	for i, t := range texts {
		vectors[i] = emb.Embed(t)
	}
	st := x.opts.NewStorage()
	if err := st.Init(emb.Dimension()); err != nil {
		return nil, err
	}
	if err := st.Upsert(chunks, vectors); err != nil {
		return nil, err
	}
	if n := st.Len(); n != len(chunks) {
		return nil, fmt.Errorf("%s storage holds %d vectors for %d chunks", emb.Name(), n, len(chunks))
	}
	return &session{chunks: chunks, embedder: emb, store: st}, nil
}

// Search ranks the session's chunks against text and applies the score
// threshold. When no chunk reaches minScore the best min(2, topK) chunks are
// returned regardless of score. An unknown session yields no results.
func (x *Index) Search(sessionID, text string, topK int, minScore float64) []domain.SearchResult {
	s := x.get(sessionID)
	if s == nil {
		return nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	ranked, err := s.store.Search(s.embedder.Embed(text), 0)
	if err != nil {
		return nil
	}
	results := make([]domain.SearchResult, 0, topK)
	for _, r := range ranked {
		if len(results) >= topK {
			break
		}
		if r.Score >= minScore {
			results = append(results, r)
		}
	}
	if len(results) == 0 {
		n := min(fallbackCount, topK, len(ranked))
		results = append(results, ranked[:n]...)
	}
	return results
}

// Query is Search reduced to the chunk texts.
func (x *Index) Query(sessionID, text string, topK int, minScore float64) []string {
	res := x.Search(sessionID, text, topK, minScore)
	if res == nil {
		return []string{}
	}
	out := make([]string, len(res))
	for i, r := range res {
		out[i] = r.Chunk.Text
	}
	return out
}

// Stats reports the stored material for a session; false when absent.
func (x *Index) Stats(sessionID string) (Stats, bool) {
	s := x.get(sessionID)
	if s == nil {
		return Stats{}, false
	}
	st := Stats{Chunks: len(s.chunks), Files: []string{}}
	seen := make(map[string]struct{})
	for _, c := range s.chunks {
		st.TotalWords += len(strings.Fields(c.Text))
		if c.Filename == "" {
			continue
		}
		if _, ok := seen[c.Filename]; !ok {
			seen[c.Filename] = struct{}{}
			st.Files = append(st.Files, c.Filename)
		}
	}
	return st, true
}

// Chunks lists the session's chunks in insertion order.
func (x *Index) Chunks(sessionID string) []domain.Chunk {
	s := x.get(sessionID)
	if s == nil {
		return nil
	}
	return append([]domain.Chunk(nil), s.chunks...)
}

// Has reports whether the session has any material.
func (x *Index) Has(sessionID string) bool {
	return x.get(sessionID) != nil
}

// Clear drops all material for the session.
func (x *Index) Clear(sessionID string) {
	x.mu.Lock()
	s := x.sessions[sessionID]
	delete(x.sessions, sessionID)
	x.mu.Unlock()
	if s != nil {
		x.release(sessionID, s)
	}
}

// release empties the storage of a session state that is no longer served.
func (x *Index) release(sessionID string, s *session) {
	if err := s.store.Clear(); err != nil {
		x.log.Warn("clear vector storage", "session_id", sessionID, "error", err)
	}
}

func (x *Index) get(sessionID string) *session {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.sessions[sessionID]
}
