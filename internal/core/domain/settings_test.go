package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		provider AIProvider
		want     bool
	}{
		{AIProviderHashing, true},
		{AIProviderOllama, true},
		{AIProviderOpenAI, true},
		{AIProvider("anthropic"), false},
		{AIProvider(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Properties(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderHashing.IsLocal())
	assert.False(t, AIProviderHashing.IsRemote())
	assert.True(t, AIProviderOllama.IsRemote())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
	assert.Equal(t, "openai", AIProviderOpenAI.String())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		want     bool
	}{
		{"hashing", EmbeddingSettings{Provider: AIProviderHashing}, true},
		{"ollama without key", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"openai without key", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}, true},
		{"unknown", EmbeddingSettings{Provider: "bogus"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}

func TestEmbeddingSettings_Chain(t *testing.T) {
	s := EmbeddingSettings{
		Provider: AIProviderOpenAI,
		Fallback: []AIProvider{AIProviderOllama, AIProviderOpenAI, "", AIProviderHashing},
	}

	assert.Equal(t, []AIProvider{AIProviderOpenAI, AIProviderOllama, AIProviderHashing}, s.Chain())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, "data/books", s.Paths.BooksDir)
	assert.Equal(t, "vector_db", s.Paths.DataDir)
	assert.Equal(t, 800, s.Chunking.Size)
	assert.Equal(t, 200, s.Chunking.Overlap)
	assert.Equal(t, AIProviderHashing, s.Embedding.Provider)
	assert.Equal(t, 384, s.Embedding.Dimensions)
	assert.Equal(t, 32, s.Embedding.BatchSize)
	assert.Equal(t, 8, s.Retrieval.TopK)
	assert.Equal(t, 8, s.Retrieval.SampleSize)
	assert.True(t, s.Embedding.IsConfigured())
}

func TestDefaultEmbeddingModels_HaveDimensions(t *testing.T) {
	dims := EmbeddingDimensions()
	for provider, model := range DefaultEmbeddingModels() {
		_, ok := dims[model]
		assert.True(t, ok, "no dimensions for %s model %s", provider, model)
	}
}

func TestPipelineConfigFor(t *testing.T) {
	cfg := PipelineConfigFor(ChunkSettings{Size: 500, Overlap: 50})

	assert.Equal(t, []string{"chunker"}, cfg.Processors)
	assert.Equal(t, 500, cfg.GetProcessorConfig("chunker")["chunk_size"])
	assert.Equal(t, 50, cfg.GetProcessorConfig("chunker")["overlap"])
	assert.Nil(t, cfg.GetProcessorConfig("missing"))

	var empty PipelineConfig
	assert.Nil(t, empty.GetProcessorConfig("chunker"))
}
