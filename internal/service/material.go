package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"tutor/internal/chunker"
	"tutor/internal/domain"
	"tutor/internal/index"
	"tutor/internal/level"
)

// UploadResult reports one ingested file.
type UploadResult struct {
	SessionID   string `json:"session_id"`
	Filename    string `json:"filename"`
	Chunks      int    `json:"chunks"`
	TotalChunks int    `json:"total_chunks"`
}

// Message is the human-readable upload summary.
func (r UploadResult) Message() string {
	return fmt.Sprintf("Processed %d chunks from %s", r.Chunks, r.Filename)
}

// UploadMaterial chunks text and adds it to the session index. Material may
// be stored for a session id that has no persisted document.
func (s *Service) UploadMaterial(sessionID, filename, text string) (UploadResult, error) {
	if strings.TrimSpace(text) == "" {
		return UploadResult{}, fmt.Errorf("%s: %w", filename, ErrEmptyMaterial)
	}
	cleaned := chunker.Normalize(text)
	return s.addChunks(sessionID, filename, cleaned, s.chunker.Texts(text)), nil
}

func (s *Service) addChunks(sessionID, filename, cleaned string, chunks []string) UploadResult {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	total := s.index.Add(sessionID, chunks, filename)
	s.textMu.Lock()
	s.material[sessionID] = append(s.material[sessionID], cleaned)
	s.textMu.Unlock()

	s.log.Info("material added", "session_id", sessionID, "filename", filename, "chunks", len(chunks), "total_chunks", total)
	return UploadResult{SessionID: sessionID, Filename: filename, Chunks: len(chunks), TotalChunks: total}
}

type preparedFile struct {
	name    string
	cleaned string
	chunks  []string
}

// IngestFiles expands glob patterns, reads and chunks every .txt or .md match
// in parallel, then adds the files to the session in argument order.
func (s *Service) IngestFiles(ctx context.Context, sessionID string, patterns []string) ([]UploadResult, error) {
	var paths []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			switch strings.ToLower(filepath.Ext(m)) {
			case ".txt", ".md":
				paths = append(paths, m)
			}
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .txt or .md documents found")
	}

	prepared := make([]preparedFile, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			name := filepath.Base(path)
			if strings.TrimSpace(string(data)) == "" {
				return fmt.Errorf("%s: %w", name, ErrEmptyMaterial)
			}
			prepared[i] = preparedFile{
				name:    name,
				cleaned: chunker.Normalize(string(data)),
				chunks:  s.chunker.Texts(string(data)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]UploadResult, 0, len(prepared))
	for _, f := range prepared {
		out = append(out, s.addChunks(sessionID, f.name, f.cleaned, f.chunks))
	}
	return out, nil
}

// Retrieve returns the texts of the chunks most relevant to query.
func (s *Service) Retrieve(sessionID, query string, topK int, minScore float64) []string {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	return s.index.Query(sessionID, query, s.topK(topK), minScore)
}

// Search is Retrieve with chunk metadata and scores.
func (s *Service) Search(sessionID, query string, topK int, minScore float64) []domain.SearchResult {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	return s.index.Search(sessionID, query, s.topK(topK), minScore)
}

// LessonContext retrieves the chunks that ground a lesson for the session's
// subject at its current level. Unassessed sessions are treated as Beginner.
func (s *Service) LessonContext(ctx context.Context, sessionID string) ([]string, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.HasMaterial(sessionID) {
		return nil, fmt.Errorf("no material uploaded for session %s", sessionID)
	}
	lvl := level.Beginner
	if sess.Level.Assessed {
		lvl = sess.Level.Current
	}
	return s.Retrieve(sessionID, sess.Subject+" "+lvl.String(), index.DefaultTopK, s.opts.MinScore), nil
}

// MaterialStats describes the stored material; false when there is none.
func (s *Service) MaterialStats(sessionID string) (index.Stats, bool) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	return s.index.Stats(sessionID)
}

// HasMaterial reports whether any material was uploaded for the session.
func (s *Service) HasMaterial(sessionID string) bool {
	return s.index.Has(sessionID)
}

// ClearMaterial drops the session's material.
func (s *Service) ClearMaterial(sessionID string) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	s.clearMaterial(sessionID)
	s.log.Info("material cleared", "session_id", sessionID)
}

func (s *Service) clearMaterial(sessionID string) {
	s.index.Clear(sessionID)
	s.textMu.Lock()
	delete(s.material, sessionID)
	s.textMu.Unlock()
}

// Summary condenses all material uploaded for the session.
func (s *Service) Summary(sessionID string) string {
	s.textMu.RLock()
	text := strings.Join(s.material[sessionID], "\n\n")
	s.textMu.RUnlock()
	return s.summarizer.Summarize(text, s.opts.SummaryMaxSentences)
}

func (s *Service) topK(k int) int {
	if k <= 0 {
		return s.opts.TopK
	}
	return k
}
