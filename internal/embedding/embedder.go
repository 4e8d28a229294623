package embedding

import "tutor/internal/domain"

// Embedder converts free text into a sparse weight vector.
// Implementations build their vocabulary in a preparation phase over the corpus;
// text embedded afterwards only uses terms already in that vocabulary.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) domain.Vector
}
