package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driving"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/logger"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/vecmath"
)

// Ensure IndexBuilder implements the interface.
var _ driving.IndexService = (*IndexBuilder)(nil)

// IndexFactory creates an empty vector index of the given dimension.
type IndexFactory func(dim int) (driven.VectorIndex, error)

// IndexBuilder turns the books directory into a new index generation.
type IndexBuilder struct {
	loader   driven.CorpusLoader
	registry driven.NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	embedder driven.EmbeddingService
	store    driven.ArtifactStore
	newIndex IndexFactory

	chunking  domain.ChunkSettings
	batchSize int
	progress  func(domain.BuildProgress)
	now       func() time.Time
	newID     func() string
}

// BuilderOption configures an IndexBuilder.
type BuilderOption func(*IndexBuilder)

// WithBatchSize sets the number of chunks per embedding request.
func WithBatchSize(n int) BuilderOption {
	return func(b *IndexBuilder) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithChunkSettings records the chunker parameters in the manifest.
func WithChunkSettings(c domain.ChunkSettings) BuilderOption {
	return func(b *IndexBuilder) {
		b.chunking = c
	}
}

// WithProgress registers a callback for build progress.
func WithProgress(fn func(domain.BuildProgress)) BuilderOption {
	return func(b *IndexBuilder) {
		b.progress = fn
	}
}

// WithClock replaces the manifest timestamp source. Used by tests.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *IndexBuilder) {
		b.now = now
	}
}

// WithGenerationFunc replaces the generation id source. Used by tests.
func WithGenerationFunc(fn func() string) BuilderOption {
	return func(b *IndexBuilder) {
		b.newID = fn
	}
}

// NewIndexBuilder creates an index builder.
func NewIndexBuilder(
	loader driven.CorpusLoader,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	store driven.ArtifactStore,
	newIndex IndexFactory,
	opts ...BuilderOption,
) *IndexBuilder {
	b := &IndexBuilder{
		loader:    loader,
		registry:  registry,
		pipeline:  pipeline,
		embedder:  embedder,
		store:     store,
		newIndex:  newIndex,
		chunking:  domain.ChunkSettings{Size: domain.DefaultChunkSize, Overlap: domain.DefaultChunkOverlap},
		batchSize: domain.DefaultBatchSize,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build loads, normalises, chunks and embeds the corpus, then replaces the
// stored artifacts with the new generation. Per-item failures are reported
// in the BuildReport; the build fails only when nothing is indexable or a
// whole stage cannot run.
func (b *IndexBuilder) Build(ctx context.Context) (*domain.BuildReport, error) {
	started := b.now()
	logger.Section("Index Build")
	logger.Info("Books directory: %s", b.loader.Root())

	report := &domain.BuildReport{}

	chunks, err := b.collectChunks(ctx, report)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%s: %w", b.loader.Root(), domain.ErrEmptyCorpus)
	}

	index, kept, err := b.embedChunks(ctx, chunks, report)
	if err != nil {
		return nil, err
	}
	if len(kept) == 0 {
		index.Close()
		return nil, fmt.Errorf("all %d chunks failed to embed: %w", len(chunks), domain.ErrEmptyCorpus)
	}

	manifest := domain.IndexManifest{
		Generation: b.newID(),
		Model:      b.embedder.ModelName(),
		Dimensions: b.embedder.Dimensions(),
		Count:      len(kept),
		ChunkSize:  b.chunking.Size,
		Overlap:    b.chunking.Overlap,
		CreatedAt:  b.now().UTC(),
	}

	done := logger.Timed("save artifacts")
	err = b.store.Save(ctx, &driven.Snapshot{Manifest: manifest, Index: index, Chunks: kept})
	done()
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("save artifacts: %w", err)
	}

	report.Manifest = manifest
	report.Chunks = len(kept)
	report.Duration = b.now().Sub(started)

	logger.Info("Indexed %d chunks from %d documents (%d skipped) in %s",
		report.Chunks, report.Documents, len(report.Skipped), report.Duration.Round(time.Millisecond))
	return report, nil
}

// collectChunks runs every loaded document through normalisation and the
// post-processor pipeline, in load order.
func (b *IndexBuilder) collectChunks(ctx context.Context, report *domain.BuildReport) ([]domain.Chunk, error) {
	done := logger.Timed("load")
	raws, skipped, err := b.loader.Load(ctx)
	done()
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	report.Skipped = append(report.Skipped, skipped...)
	logger.Debug("Loaded %d documents", len(raws))

	var chunks []domain.Chunk
	for i := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := &raws[i]
		b.report(domain.StageNormalise, i, len(raws))

		result, err := b.normalise(ctx, raw)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("Skipping %s: %v", raw.Source, err)
			report.Skipped = append(report.Skipped, skip(raw.Source, domain.StageNormalise, err.Error()))
			continue
		}
		report.Skipped = append(report.Skipped, result.Skipped...)

		doc := result.Document
		if strings.TrimSpace(doc.Content) == "" {
			report.Skipped = append(report.Skipped, skip(raw.Source, domain.StageNormalise, "no text content"))
			continue
		}

		docChunks, err := b.pipeline.Process(ctx, &doc)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("Skipping %s: %v", raw.Source, err)
			report.Skipped = append(report.Skipped, skip(raw.Source, domain.StageChunk, err.Error()))
			continue
		}
		if len(docChunks) == 0 {
			report.Skipped = append(report.Skipped, skip(raw.Source, domain.StageChunk, "no chunks produced"))
			continue
		}

		logger.Debug("%s: %d chunks", raw.Source, len(docChunks))
		report.Documents++
		chunks = append(chunks, docChunks...)
	}
	b.report(domain.StageNormalise, len(raws), len(raws))

	return chunks, nil
}

// normalise runs the registry on one document. A normaliser that panics
// fails only that document.
func (b *IndexBuilder) normalise(ctx context.Context, raw *domain.RawDocument) (result *driven.NormaliseResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("normaliser panic: %v", r)
		}
	}()
	return b.registry.Normalise(ctx, raw)
}

// embedChunks embeds chunks in order-preserving batches and appends every
// successfully embedded, normalised vector to a new index. A chunk's ID is
// set to its row, so kept chunks have dense IDs.
func (b *IndexBuilder) embedChunks(
	ctx context.Context, chunks []domain.Chunk, report *domain.BuildReport,
) (driven.VectorIndex, []domain.Chunk, error) {
	defer logger.Timed("embed")()

	dim := b.embedder.Dimensions()
	index, err := b.newIndex(dim)
	if err != nil {
		return nil, nil, fmt.Errorf("create index: %w", err)
	}

	kept := make([]domain.Chunk, 0, len(chunks))
	for start := 0; start < len(chunks); start += b.batchSize {
		end := min(start+b.batchSize, len(chunks))
		batch := chunks[start:end]
		b.report(domain.StageEmbed, start, len(chunks))

		vectors, err := b.embedBatch(ctx, batch)
		if err != nil {
			index.Close()
			return nil, nil, err
		}

		for i, vec := range vectors {
			chunk := batch[i]
			if vec == nil {
				report.Skipped = append(report.Skipped,
					skip(chunk.Source, domain.StageEmbed, fmt.Sprintf("chunk %d: embedding failed", chunk.Position)))
				continue
			}
			if len(vec) != dim {
				report.Skipped = append(report.Skipped, skip(chunk.Source, domain.StageEmbed,
					fmt.Sprintf("chunk %d: %d dimensions, expected %d", chunk.Position, len(vec), dim)))
				continue
			}

			vecmath.NormalizeInPlace(vec)
			row := index.Size()
			if err := index.Add(ctx, row, vec); err != nil {
				index.Close()
				return nil, nil, fmt.Errorf("add vector %d: %w", row, err)
			}
			chunk.ID = row
			kept = append(kept, chunk)
		}
	}
	b.report(domain.StageEmbed, len(chunks), len(chunks))

	return index, kept, nil
}

// embedBatch embeds one batch. When the batch request fails, each chunk is
// retried on its own; chunks that still fail come back as nil vectors.
func (b *IndexBuilder) embedBatch(ctx context.Context, batch []domain.Chunk) ([][]float32, error) {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Text
	}

	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err == nil && len(vectors) == len(texts) {
		return vectors, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err == nil {
		err = fmt.Errorf("got %d vectors for %d texts", len(vectors), len(texts))
	}
	logger.Warn("Embedding batch of %d failed, retrying one by one: %v", len(texts), err)

	vectors = make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := b.embedder.Embed(ctx, text)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if errors.Is(err, domain.ErrRateLimited) {
				logger.Warn("Embedding rate limited on %s", batch[i].Source)
			}
			logger.Debug("Embedding chunk %d of %s failed: %v", batch[i].Position, batch[i].Source, err)
			continue
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (b *IndexBuilder) report(stage domain.BuildStage, done, total int) {
	if b.progress != nil {
		b.progress(domain.BuildProgress{Stage: stage, Done: done, Total: total})
	}
}

func skip(source string, stage domain.BuildStage, reason string) domain.SkippedItem {
	return domain.SkippedItem{Source: source, Stage: stage, Reason: reason}
}
