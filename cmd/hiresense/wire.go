package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/ai"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/config/file"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/index/flat"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/storage/artifact"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/cli"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/connectors/filesystem"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/services"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/logger"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/normalisers"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/postprocessors"
)

// bootstrap wires the adapters behind the CLI's driving ports.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	// A .env file is optional; variables already set win.
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env loaded: %v", err)
	}

	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsSvc := services.NewSettingsService(store, ai.NewConfigValidator())
	if opts.SettingsOnly {
		return &cli.Services{Settings: settingsSvc}, nil
	}

	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := settingsSvc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	selected, err := ai.SelectEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, err
	}
	if selected.FellBack {
		logger.Warn("embedding provider %s unavailable, using %s",
			settings.Embedding.Provider, selected.Provider)
	}
	embedder := selected.EmbeddingService

	pipeline, err := postprocessors.FromConfig(postprocessors.DefaultRegistry(), settingsSvc.GetPipelineConfig())
	if err != nil {
		selected.Close()
		return nil, fmt.Errorf("building chunk pipeline: %w", err)
	}

	artifacts := artifact.New(settings.Paths.DataDir)
	builder := services.NewIndexBuilder(
		filesystem.New(settings.Paths.BooksDir),
		normalisers.DefaultRegistry(),
		pipeline,
		embedder,
		artifacts,
		newFlatIndex,
		services.WithBatchSize(settings.Embedding.BatchSize),
		services.WithChunkSettings(settings.Chunking),
		services.WithProgress(opts.Progress),
	)
	retriever := services.NewRetriever(artifacts, embedder,
		services.WithDefaultTopK(settings.Retrieval.TopK),
		services.WithDefaultSampleSize(settings.Retrieval.SampleSize),
	)

	logger.Debug("books %s, artifacts %s", settings.Paths.BooksDir, artifacts.Dir())

	return &cli.Services{
		Settings:      settingsSvc,
		Index:         builder,
		Retrieval:     retriever,
		Interview:     services.NewInterviewService(retriever),
		Evaluation:    services.NewEvaluationService(retriever, embedder),
		SourceCounts:  artifacts.SourceCounts,
		DataDir:       artifacts.Dir(),
		ArtifactFiles: []string{artifact.IndexFile, artifact.ChunksFile},
		Close: func() error {
			selected.Close()
			return nil
		},
	}, nil
}

func newFlatIndex(dim int) (driven.VectorIndex, error) {
	idx, err := flat.New(dim)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

