package driven

import "context"

// VectorIndex provides exact inner-product search over unit vectors.
// Rows are dense and append-only: row i is the i-th vector added.
type VectorIndex interface {
	// Add appends a vector. Row must equal the current Size.
	Add(ctx context.Context, row int, embedding []float32) error

	// Search returns up to k rows by descending inner product with query.
	// Ties are broken by ascending row.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Size returns the number of stored vectors.
	Size() int

	// Dimensions returns the vector size.
	Dimensions() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Row is the matched vector row; it equals the chunk ID.
	Row int

	// Similarity is the inner product, equal to cosine similarity for unit vectors.
	Similarity float64
}
