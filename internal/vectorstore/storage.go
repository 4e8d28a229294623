package vectorstore

import "tutor/internal/domain"

// Storage holds chunk vectors and ranks them against a query vector.
type Storage interface {
	Init(dimension int) error
	Upsert(chunks []domain.Chunk, vectors []domain.Vector) error
	// Search returns chunks by descending cosine similarity; equal scores keep
	// insertion order. A non-positive topK returns every chunk.
	Search(vector domain.Vector, topK int) ([]domain.SearchResult, error)
	Clear() error
	Len() int
}
