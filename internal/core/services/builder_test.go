package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/index/flat"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/normalisers"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/postprocessors"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/postprocessors/chunker"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/vecmath"
)

func textDoc(source, content string) domain.RawDocument {
	return domain.RawDocument{
		Source:   source,
		URI:      "books/" + source,
		MIMEType: "text/plain",
		Content:  []byte(content),
	}
}

func newTestBuilder(loader *mockLoader, embedder *mockEmbedder, store *mockArtifactStore, opts ...BuilderOption) *IndexBuilder {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	opts = append([]BuilderOption{
		WithClock(func() time.Time { return fixed }),
		WithGenerationFunc(func() string { return "gen-test" }),
	}, opts...)
	return NewIndexBuilder(
		loader,
		normalisers.DefaultRegistry(),
		postprocessors.NewPipeline(chunker.New()),
		embedder,
		store,
		flatFactory,
		opts...,
	)
}

func TestIndexBuilder_Build(t *testing.T) {
	loader := &mockLoader{docs: []domain.RawDocument{
		textDoc("a.txt", "alpha text"),
		textDoc("b.txt", "beta text"),
	}}
	embedder := newMockEmbedder(3)
	embedder.vectors["alpha text"] = []float32{3, 4, 0}
	store := &mockArtifactStore{}

	builder := newTestBuilder(loader, embedder, store, WithChunkSettings(domain.ChunkSettings{Size: 500, Overlap: 50}))
	report, err := builder.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 2, report.Chunks)
	assert.Empty(t, report.Skipped)

	m := report.Manifest
	assert.Equal(t, "gen-test", m.Generation)
	assert.Equal(t, "mock-model", m.Model)
	assert.Equal(t, 3, m.Dimensions)
	assert.Equal(t, 2, m.Count)
	assert.Equal(t, 500, m.ChunkSize)
	assert.Equal(t, 50, m.Overlap)
	assert.Equal(t, time.UTC, m.CreatedAt.Location())

	require.NotNil(t, store.saved)
	assert.Equal(t, m, store.saved.Manifest)
	require.Len(t, store.saved.Chunks, 2)
	assert.Equal(t, 0, store.saved.Chunks[0].ID)
	assert.Equal(t, "a.txt", store.saved.Chunks[0].Source)
	assert.Equal(t, 1, store.saved.Chunks[1].ID)
	assert.Equal(t, "b.txt", store.saved.Chunks[1].Source)

	idx, ok := store.saved.Index.(*flat.Index)
	require.True(t, ok)
	assert.Equal(t, 2, idx.Size())
	vec, err := idx.Vector(0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.6, 0.8, 0}, vec, 1e-6)
	assert.True(t, vecmath.IsUnit(vec, 1e-5))
}

func TestIndexBuilder_SkipsBadDocuments(t *testing.T) {
	loader := &mockLoader{
		docs: []domain.RawDocument{
			textDoc("a.txt", "alpha text"),
			{Source: "image.png", MIMEType: "image/png", Content: []byte{0x89}},
			textDoc("blank.txt", "   \n  "),
			textDoc("b.txt", "beta text"),
		},
		skipped: []domain.SkippedItem{{Source: "huge.pdf", Stage: domain.StageLoad, Reason: "too large"}},
	}
	store := &mockArtifactStore{}

	report, err := newTestBuilder(loader, newMockEmbedder(3), store).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Documents)
	require.Len(t, report.Skipped, 3)
	assert.Equal(t, "huge.pdf", report.Skipped[0].Source)
	assert.Equal(t, domain.StageLoad, report.Skipped[0].Stage)
	assert.Equal(t, "image.png", report.Skipped[1].Source)
	assert.Equal(t, domain.StageNormalise, report.Skipped[1].Stage)
	assert.Equal(t, "blank.txt", report.Skipped[2].Source)
	assert.Equal(t, domain.StageNormalise, report.Skipped[2].Stage)

	assert.Equal(t, []int{0, 1}, []int{store.saved.Chunks[0].ID, store.saved.Chunks[1].ID})
}

// crashingNormaliser panics on every document of its MIME type.
type crashingNormaliser struct{}

func (crashingNormaliser) SupportedMIMETypes() []string { return []string{"application/x-crash"} }
func (crashingNormaliser) Priority() int                { return 100 }

func (crashingNormaliser) Normalise(context.Context, *domain.RawDocument) (*driven.NormaliseResult, error) {
	panic("corrupt cross-reference table")
}

func TestIndexBuilder_NormaliserPanicSkipsDocument(t *testing.T) {
	registry := normalisers.DefaultRegistry()
	registry.Register(crashingNormaliser{})
	loader := &mockLoader{docs: []domain.RawDocument{
		{Source: "broken.bin", MIMEType: "application/x-crash", Content: []byte{0}},
		textDoc("a.txt", "alpha text"),
	}}
	store := &mockArtifactStore{}
	builder := NewIndexBuilder(loader, registry, postprocessors.NewPipeline(chunker.New()),
		newMockEmbedder(3), store, flatFactory)

	var report *domain.BuildReport
	var err error
	require.NotPanics(t, func() {
		report, err = builder.Build(context.Background())
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Documents)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "broken.bin", report.Skipped[0].Source)
	assert.Equal(t, domain.StageNormalise, report.Skipped[0].Stage)
	assert.Contains(t, report.Skipped[0].Reason, "corrupt cross-reference table")
	require.Len(t, store.saved.Chunks, 1)
	assert.Equal(t, "a.txt", store.saved.Chunks[0].Source)
}

func TestIndexBuilder_BatchFailureRetriesItems(t *testing.T) {
	loader := &mockLoader{docs: []domain.RawDocument{
		textDoc("a.txt", "alpha text"),
		textDoc("b.txt", "beta text"),
		textDoc("c.txt", "gamma text"),
	}}
	embedder := newMockEmbedder(3)
	embedder.batchErr = errors.New("batch rejected")
	embedder.fail["beta text"] = true
	store := &mockArtifactStore{}

	report, err := newTestBuilder(loader, embedder, store).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, embedder.batchCall)
	assert.Equal(t, 3, embedder.embedCall)
	assert.Equal(t, 2, report.Chunks)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "b.txt", report.Skipped[0].Source)
	assert.Equal(t, domain.StageEmbed, report.Skipped[0].Stage)

	// IDs stay dense around the failed chunk.
	require.Len(t, store.saved.Chunks, 2)
	assert.Equal(t, 0, store.saved.Chunks[0].ID)
	assert.Equal(t, "a.txt", store.saved.Chunks[0].Source)
	assert.Equal(t, 1, store.saved.Chunks[1].ID)
	assert.Equal(t, "c.txt", store.saved.Chunks[1].Source)
	assert.Equal(t, 2, store.saved.Index.Size())
}

func TestIndexBuilder_SkipsWrongDimensions(t *testing.T) {
	loader := &mockLoader{docs: []domain.RawDocument{
		textDoc("a.txt", "alpha text"),
		textDoc("b.txt", "beta text"),
	}}
	embedder := newMockEmbedder(3)
	embedder.vectors["beta text"] = []float32{1, 0}
	store := &mockArtifactStore{}

	report, err := newTestBuilder(loader, embedder, store).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Chunks)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, domain.StageEmbed, report.Skipped[0].Stage)
	assert.Contains(t, report.Skipped[0].Reason, "expected 3")
}

func TestIndexBuilder_BatchSize(t *testing.T) {
	loader := &mockLoader{docs: []domain.RawDocument{
		textDoc("a.txt", "alpha"),
		textDoc("b.txt", "beta"),
		textDoc("c.txt", "gamma"),
	}}
	embedder := newMockEmbedder(3)

	_, err := newTestBuilder(loader, embedder, &mockArtifactStore{}, WithBatchSize(2)).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, embedder.batchCall)
	assert.Zero(t, embedder.embedCall)
}

func TestIndexBuilder_Progress(t *testing.T) {
	loader := &mockLoader{docs: []domain.RawDocument{
		textDoc("a.txt", "alpha"),
		textDoc("b.txt", "beta"),
	}}
	var events []domain.BuildProgress
	progress := WithProgress(func(p domain.BuildProgress) { events = append(events, p) })

	_, err := newTestBuilder(loader, newMockEmbedder(3), &mockArtifactStore{}, progress).Build(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, domain.StageEmbed, last.Stage)
	assert.Equal(t, 2, last.Done)
	assert.Equal(t, 2, last.Total)
}

func TestIndexBuilder_Errors(t *testing.T) {
	t.Run("empty corpus", func(t *testing.T) {
		store := &mockArtifactStore{}
		_, err := newTestBuilder(&mockLoader{}, newMockEmbedder(3), store).Build(context.Background())
		assert.True(t, errors.Is(err, domain.ErrEmptyCorpus))
		assert.Nil(t, store.saved)
	})

	t.Run("only blank documents", func(t *testing.T) {
		loader := &mockLoader{docs: []domain.RawDocument{textDoc("blank.txt", "  ")}}
		_, err := newTestBuilder(loader, newMockEmbedder(3), &mockArtifactStore{}).Build(context.Background())
		assert.True(t, errors.Is(err, domain.ErrEmptyCorpus))
	})

	t.Run("nothing embeds", func(t *testing.T) {
		loader := &mockLoader{docs: []domain.RawDocument{textDoc("a.txt", "alpha")}}
		embedder := newMockEmbedder(3)
		embedder.embedErr = errors.New("down")
		store := &mockArtifactStore{}

		_, err := newTestBuilder(loader, embedder, store).Build(context.Background())
		assert.True(t, errors.Is(err, domain.ErrEmptyCorpus))
		assert.Nil(t, store.saved)
	})

	t.Run("loader failure", func(t *testing.T) {
		loader := &mockLoader{err: domain.ErrNotFound}
		_, err := newTestBuilder(loader, newMockEmbedder(3), &mockArtifactStore{}).Build(context.Background())
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("save failure", func(t *testing.T) {
		loader := &mockLoader{docs: []domain.RawDocument{textDoc("a.txt", "alpha")}}
		store := &mockArtifactStore{saveErr: errors.New("disk full")}
		_, err := newTestBuilder(loader, newMockEmbedder(3), store).Build(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		loader := &mockLoader{docs: []domain.RawDocument{textDoc("a.txt", "alpha")}}
		_, err := newTestBuilder(loader, newMockEmbedder(3), &mockArtifactStore{}).Build(ctx)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
