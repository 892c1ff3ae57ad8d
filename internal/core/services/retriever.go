package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driving"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/logger"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/vecmath"
)

// Ensure Retriever implements the interface.
var _ driving.RetrievalService = (*Retriever)(nil)

// Retriever answers searches and random samples against the stored index.
//
// The snapshot is loaded on first use and shared read-only afterwards.
// Reload swaps in a new snapshot; calls already running keep the one they
// started with.
type Retriever struct {
	store    driven.ArtifactStore
	embedder driven.EmbeddingService

	topK       int
	sampleSize int

	snap   atomic.Pointer[driven.Snapshot]
	loadMu sync.Mutex

	rngMu sync.Mutex
	rng   *rand.Rand
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithDefaultTopK sets the result count used when a search asks for none.
func WithDefaultTopK(k int) RetrieverOption {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithDefaultSampleSize sets the sample size used when a sample asks for none.
func WithDefaultSampleSize(n int) RetrieverOption {
	return func(r *Retriever) {
		if n > 0 {
			r.sampleSize = n
		}
	}
}

// WithSeed makes random sampling reproducible.
func WithSeed(seed uint64) RetrieverOption {
	return func(r *Retriever) {
		r.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// NewRetriever creates a retriever. The embedder must be the one the index
// was built with; a mismatch is reported when the snapshot is loaded.
func NewRetriever(store driven.ArtifactStore, embedder driven.EmbeddingService, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		store:      store,
		embedder:   embedder,
		topK:       domain.DefaultTopK,
		sampleSize: domain.DefaultSampleSize,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Search returns the chunks most similar to query, best first.
func (r *Retriever) Search(ctx context.Context, query string, topK int) (*domain.Retrieval, error) {
	logger.Section("Search")
	logger.Debug("Query: %q", query)

	result := &domain.Retrieval{Mode: domain.RetrievalModeSearch, Query: query, Chunks: []domain.RankedChunk{}}

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return result, nil
	}
	if topK <= 0 {
		topK = r.topK
	}

	snap, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	done := logger.Timed("embed query")
	vec, err := r.embedder.Embed(ctx, query)
	done()
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vec) != snap.Manifest.Dimensions {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w",
			len(vec), snap.Manifest.Dimensions, domain.ErrDimensionMismatch)
	}
	vecmath.NormalizeInPlace(vec)

	hits, err := snap.Index.Search(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	for _, hit := range hits {
		chunk, ok := chunkAt(snap, hit.Row)
		if !ok {
			continue
		}
		result.Chunks = append(result.Chunks, domain.RankedChunk{Chunk: chunk, Similarity: hit.Similarity})
	}

	logger.Debug("Search returned %d of %d requested", len(result.Chunks), topK)
	return result, nil
}

// SampleRandom returns min(n, size) distinct chunks drawn uniformly from
// the whole index, in selection order.
func (r *Retriever) SampleRandom(ctx context.Context, n int) (*domain.Retrieval, error) {
	if n <= 0 {
		n = r.sampleSize
	}

	snap, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	rows := r.sampleRows(len(snap.Chunks), n)
	result := &domain.Retrieval{Mode: domain.RetrievalModeRandom, Chunks: make([]domain.RankedChunk, 0, len(rows))}
	for _, row := range rows {
		chunk, ok := chunkAt(snap, row)
		if !ok {
			continue
		}
		result.Chunks = append(result.Chunks, domain.RankedChunk{Chunk: chunk})
	}

	logger.Debug("Sampled %d of %d chunks", len(result.Chunks), len(snap.Chunks))
	return result, nil
}

// Info returns the manifest of the loaded index.
func (r *Retriever) Info(ctx context.Context) (*domain.IndexManifest, error) {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	m := snap.Manifest
	return &m, nil
}

// Reload reads the artifacts again and swaps the new snapshot in. On
// failure the current snapshot stays in use.
func (r *Retriever) Reload(ctx context.Context) error {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	snap, err := r.load(ctx)
	if err != nil {
		return err
	}
	old := r.snap.Swap(snap)
	if old != nil && old.Manifest.Generation != snap.Manifest.Generation {
		logger.Info("Reloaded index generation %s (%d chunks)", snap.Manifest.Generation, snap.Manifest.Count)
	}
	return nil
}

// snapshot returns the current snapshot, loading it on first use. A failed
// load is not remembered, so a later call retries.
func (r *Retriever) snapshot(ctx context.Context) (*driven.Snapshot, error) {
	if snap := r.snap.Load(); snap != nil {
		return snap, nil
	}

	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	if snap := r.snap.Load(); snap != nil {
		return snap, nil
	}
	snap, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	r.snap.Store(snap)
	return snap, nil
}

func (r *Retriever) load(ctx context.Context) (*driven.Snapshot, error) {
	defer logger.Timed("load index")()

	snap, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}

	m := snap.Manifest
	if m.Model != r.embedder.ModelName() || m.Dimensions != r.embedder.Dimensions() {
		return nil, fmt.Errorf("index built with %s (%d dims), querying with %s (%d dims); rebuild with 'hiresense build': %w",
			m.Model, m.Dimensions, r.embedder.ModelName(), r.embedder.Dimensions(), domain.ErrEmbeddingMismatch)
	}
	if m.Count != len(snap.Chunks) || snap.Index.Size() != len(snap.Chunks) {
		logger.Warn("Index generation %s: manifest count %d, %d vectors, %d chunks",
			m.Generation, m.Count, snap.Index.Size(), len(snap.Chunks))
	}

	logger.Debug("Loaded index generation %s: %d chunks, model %s", m.Generation, len(snap.Chunks), m.Model)
	return snap, nil
}

// sampleRows picks min(n, size) distinct rows in [0, size) using Floyd's
// algorithm.
func (r *Retriever) sampleRows(size, n int) []int {
	n = min(n, size)
	if n <= 0 {
		return nil
	}

	r.rngMu.Lock()
	defer r.rngMu.Unlock()

	chosen := make(map[int]struct{}, n)
	rows := make([]int, 0, n)
	for j := size - n; j < size; j++ {
		t := r.rng.IntN(j + 1)
		if _, ok := chosen[t]; ok {
			t = j
		}
		chosen[t] = struct{}{}
		rows = append(rows, t)
	}
	return rows
}

// chunkAt resolves an index row to its chunk, dropping rows that fall
// outside the chunk table or whose chunk carries a different id.
func chunkAt(snap *driven.Snapshot, row int) (domain.Chunk, bool) {
	if row < 0 || row >= len(snap.Chunks) {
		logger.Warn("Index row %d outside chunk table of %d, skipping", row, len(snap.Chunks))
		return domain.Chunk{}, false
	}
	chunk := snap.Chunks[row]
	if chunk.ID != row {
		logger.Warn("Chunk at row %d has id %d, skipping", row, chunk.ID)
		return domain.Chunk{}, false
	}
	return chunk, true
}
