package services

import (
	"context"
	"errors"
	"sync"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/index/flat"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	err error
	got *domain.EmbeddingSettings
}

func (m *mockAIValidator) ValidateEmbedding(cfg *domain.EmbeddingSettings) error {
	m.got = cfg
	return m.err
}

// mockEmbedder implements driven.EmbeddingService for testing.
// Texts found in vectors get that vector; everything else gets fallback.
type mockEmbedder struct {
	mu        sync.Mutex
	dims      int
	model     string
	vectors   map[string][]float32
	fallback  []float32
	fail      map[string]bool
	batchErr  error
	embedErr  error
	batchCall int
	embedCall int
}

func newMockEmbedder(dims int) *mockEmbedder {
	fallback := make([]float32, dims)
	fallback[0] = 1
	return &mockEmbedder{
		dims:     dims,
		model:    "mock-model",
		vectors:  map[string][]float32{},
		fallback: fallback,
		fail:     map[string]bool{},
	}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCall++
	return m.vector(text)
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCall++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.vector(text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) vector(text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.fail[text] {
		return nil, errors.New("embedding failed")
	}
	v, ok := m.vectors[text]
	if !ok {
		v = m.fallback
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dims }
func (m *mockEmbedder) ModelName() string            { return m.model }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockArtifactStore implements driven.ArtifactStore for testing.
type mockArtifactStore struct {
	mu      sync.Mutex
	snap    *driven.Snapshot
	loadErr error
	saveErr error
	saved   *driven.Snapshot
	loads   int
}

func (m *mockArtifactStore) Save(_ context.Context, snap *driven.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = snap
	return nil
}

func (m *mockArtifactStore) Load(_ context.Context) (*driven.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.snap == nil {
		return nil, domain.ErrArtifactMissing
	}
	return m.snap, nil
}

func (m *mockArtifactStore) setSnapshot(snap *driven.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
}

func (m *mockArtifactStore) Exists() bool       { return m.snap != nil }
func (m *mockArtifactStore) IndexPath() string  { return "mock/index.flat" }
func (m *mockArtifactStore) ChunksPath() string { return "mock/chunks.db" }

// mockLoader implements driven.CorpusLoader for testing.
type mockLoader struct {
	docs    []domain.RawDocument
	skipped []domain.SkippedItem
	err     error
}

func (m *mockLoader) Load(_ context.Context) ([]domain.RawDocument, []domain.SkippedItem, error) {
	return m.docs, m.skipped, m.err
}

func (m *mockLoader) Root() string { return "mock-books" }

// mockRetrieval implements driving.RetrievalService for testing.
type mockRetrieval struct {
	searchFn   func(query string, topK int) (*domain.Retrieval, error)
	sample     *domain.Retrieval
	sampleErr  error
	queries    []string
	topKs      []int
	sampleArgs []int
}

func (m *mockRetrieval) Search(_ context.Context, query string, topK int) (*domain.Retrieval, error) {
	m.queries = append(m.queries, query)
	m.topKs = append(m.topKs, topK)
	if m.searchFn == nil {
		return &domain.Retrieval{Mode: domain.RetrievalModeSearch, Query: query, Chunks: []domain.RankedChunk{}}, nil
	}
	return m.searchFn(query, topK)
}

func (m *mockRetrieval) SampleRandom(_ context.Context, n int) (*domain.Retrieval, error) {
	m.sampleArgs = append(m.sampleArgs, n)
	return m.sample, m.sampleErr
}

func (m *mockRetrieval) Info(_ context.Context) (*domain.IndexManifest, error) {
	return &domain.IndexManifest{}, nil
}

func (m *mockRetrieval) Reload(_ context.Context) error { return nil }

// --- Helpers ---

func flatFactory(dim int) (driven.VectorIndex, error) {
	return flat.New(dim)
}

// snapshotOf builds an in-memory snapshot with chunk i stored at row i.
func snapshotOf(generation, model string, vectors [][]float32, chunks []domain.Chunk) *driven.Snapshot {
	dim := len(vectors[0])
	idx, err := flat.New(dim)
	if err != nil {
		panic(err)
	}
	for i, v := range vectors {
		if err := idx.Add(context.Background(), i, v); err != nil {
			panic(err)
		}
	}
	return &driven.Snapshot{
		Manifest: domain.IndexManifest{
			Generation: generation,
			Model:      model,
			Dimensions: dim,
			Count:      len(chunks),
		},
		Index:  idx,
		Chunks: chunks,
	}
}

func rankedChunks(ids ...int) []domain.RankedChunk {
	out := make([]domain.RankedChunk, len(ids))
	for i, id := range ids {
		out[i] = domain.RankedChunk{Chunk: domain.Chunk{ID: id, Source: "book.pdf"}}
	}
	return out
}
