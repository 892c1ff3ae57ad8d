package flat

import (
	"container/heap"
	"context"
	"fmt"
	"sync"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/vecmath"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an exact inner-product index over fixed-dimension vectors.
// It is safe for concurrent searches; Add is meant for a single builder.
type Index struct {
	mu   sync.RWMutex
	dim  int
	data []float32
}

// New creates an empty index for vectors of the given dimension.
func New(dim int) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", domain.ErrInvalidInput, dim)
	}
	return &Index{dim: dim}, nil
}

// Add appends a vector. Row must equal the current size.
func (idx *Index) Add(_ context.Context, row int, embedding []float32) error {
	if len(embedding) != idx.dim {
		return fmt.Errorf("%w: got %d, index has %d", domain.ErrDimensionMismatch, len(embedding), idx.dim)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if size := len(idx.data) / idx.dim; row != size {
		return fmt.Errorf("%w: row %d appended to index of size %d", domain.ErrInvalidInput, row, size)
	}
	idx.data = append(idx.data, embedding...)
	return nil
}

// Search scores every row against query and returns the best k.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", domain.ErrDimensionMismatch, len(query), idx.dim)
	}
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := len(idx.data) / idx.dim
	if k > n {
		k = n
	}

	top := make(hitHeap, 0, k)
	for row := 0; row < n; row++ {
		if row%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hit := driven.VectorHit{
			Row:        row,
			Similarity: float64(vecmath.Dot(query, idx.data[row*idx.dim:(row+1)*idx.dim])),
		}
		if len(top) < k {
			heap.Push(&top, hit)
			continue
		}
		if better(hit, top[0]) {
			top[0] = hit
			heap.Fix(&top, 0)
		}
	}

	hits := make([]driven.VectorHit, len(top))
	for i := len(top) - 1; i >= 0; i-- {
		hits[i] = heap.Pop(&top).(driven.VectorHit)
	}
	return hits, nil
}

// Vector returns a copy of the vector at row.
func (idx *Index) Vector(row int) ([]float32, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if row < 0 || row >= len(idx.data)/idx.dim {
		return nil, fmt.Errorf("%w: row %d", domain.ErrNotFound, row)
	}
	out := make([]float32, idx.dim)
	copy(out, idx.data[row*idx.dim:])
	return out, nil
}

// Size returns the number of stored vectors.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.data) / idx.dim
}

// Dimensions returns the vector size.
func (idx *Index) Dimensions() int {
	return idx.dim
}

// Close releases the stored vectors.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.data = nil
	return nil
}

// better reports whether a ranks ahead of b.
func better(a, b driven.VectorHit) bool {
	if a.Similarity != b.Similarity {
		return a.Similarity > b.Similarity
	}
	return a.Row < b.Row
}

// hitHeap is a min-heap on rank: the root is the worst kept hit.
type hitHeap []driven.VectorHit

func (h hitHeap) Len() int           { return len(h) }
func (h hitHeap) Less(i, j int) bool { return better(h[j], h[i]) }
func (h hitHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *hitHeap) Push(x any) { *h = append(*h, x.(driven.VectorHit)) }

func (h *hitHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
