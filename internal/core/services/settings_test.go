package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/storage/memory"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

func noEnv(string) string { return "" }

func envWith(key, value string) func(string) string {
	return func(k string) string {
		if k == key {
			return value
		}
		return ""
	}
}

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil, WithGetenv(noEnv))

	settings, err := service.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults, *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"paths.books_dir":               "/srv/books",
		"paths.data_dir":                "/srv/index",
		"chunking.chunk_size":           int64(600),
		"chunking.overlap":              int64(0),
		"embedding.provider":            "ollama",
		"embedding.fallback":            []any{"hashing", "bogus"},
		"embedding.requests_per_second": int64(0),
		"retrieval.top_k":               int64(5),
	})
	service := NewSettingsService(store, nil, WithGetenv(noEnv))

	settings, err := service.Get()
	require.NoError(t, err)

	assert.Equal(t, "/srv/books", settings.Paths.BooksDir)
	assert.Equal(t, "/srv/index", settings.Paths.DataDir)
	assert.Equal(t, 600, settings.Chunking.Size)
	assert.Equal(t, 0, settings.Chunking.Overlap)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, []domain.AIProvider{domain.AIProviderHashing}, settings.Embedding.Fallback)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
	assert.Equal(t, 768, settings.Embedding.Dimensions)
	assert.Zero(t, settings.Embedding.RequestsPerSecond)
	assert.Equal(t, 5, settings.Retrieval.TopK)
	assert.Equal(t, domain.DefaultSampleSize, settings.Retrieval.SampleSize)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"embedding.provider":   "invalid_provider",
		"chunking.chunk_size":  -5,
		"embedding.batch_size": 0,
	})
	service := NewSettingsService(store, nil, WithGetenv(noEnv))

	settings, err := service.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.Chunking.Size, settings.Chunking.Size)
	assert.Equal(t, defaults.Embedding.BatchSize, settings.Embedding.BatchSize)
}

func TestSettingsService_Get_EnvAPIKeyOverrides(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"embedding.provider": "openai",
		"embedding.api_key":  "from-file",
	})

	t.Run("env wins", func(t *testing.T) {
		service := NewSettingsService(store, nil, WithGetenv(envWith(EnvOpenAIKey, "from-env")))
		settings, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, "from-env", settings.Embedding.APIKey)
		assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
		assert.Empty(t, settings.Embedding.BaseURL)
	})

	t.Run("file used without env", func(t *testing.T) {
		service := NewSettingsService(store, nil, WithGetenv(noEnv))
		settings, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, "from-file", settings.Embedding.APIKey)
	})
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil, WithGetenv(noEnv))

	settings := domain.DefaultAppSettings()
	settings.Paths.BooksDir = "/books"
	settings.Embedding.Fallback = []domain.AIProvider{domain.AIProviderHashing}
	settings.Embedding.APIKey = "secret"
	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "/books", store.GetString("paths.books_dir"))
	assert.Equal(t, []string{"hashing"}, store.GetStringSlice("embedding.fallback"))
	assert.Equal(t, "secret", store.GetString("embedding.api_key"))

	loaded, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *loaded)
}

func TestSettingsService_Save_DoesNotPersistEnvKey(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil, WithGetenv(envWith(EnvOpenAIKey, "from-env")))

	settings, err := service.Get()
	require.NoError(t, err)
	require.NoError(t, service.Save(settings))

	_, ok := store.Get("embedding.api_key")
	assert.False(t, ok)
}

func TestSettingsService_Save_Nil(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)
	assert.ErrorIs(t, service.Save(nil), domain.ErrInvalidInput)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	t.Run("ollama with default model", func(t *testing.T) {
		store := memory.NewConfigStore()
		service := NewSettingsService(store, nil, WithGetenv(noEnv))

		require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))

		settings, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
		assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
		assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
		assert.Equal(t, 768, settings.Embedding.Dimensions)
	})

	t.Run("openai requires key", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil, WithGetenv(noEnv))
		err := service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("openai key from env", func(t *testing.T) {
		store := memory.NewConfigStore()
		service := NewSettingsService(store, nil, WithGetenv(envWith(EnvOpenAIKey, "env-key")))

		require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOpenAI, "text-embedding-3-large", ""))
		assert.Equal(t, "text-embedding-3-large", store.GetString("embedding.model"))
		assert.Equal(t, 3072, store.GetInt("embedding.dimensions"))
		_, ok := store.Get("embedding.api_key")
		assert.False(t, ok)
	})

	t.Run("invalid provider", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil)
		err := service.SetEmbeddingProvider("anthropic", "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSettingsService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
	}{
		{name: "defaults are valid", values: nil},
		{
			name:    "overlap not below chunk size",
			values:  map[string]any{"chunking.chunk_size": 100, "chunking.overlap": 100},
			wantErr: "chunking.overlap",
		},
		{
			name:    "negative overlap",
			values:  map[string]any{"chunking.overlap": -1},
			wantErr: "chunking.overlap",
		},
		{
			name:    "openai without key and no fallback",
			values:  map[string]any{"embedding.provider": "openai"},
			wantErr: "no usable embedding provider",
		},
		{
			name:   "openai without key falls back to hashing",
			values: map[string]any{"embedding.provider": "openai", "embedding.fallback": []string{"hashing"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore(tt.values), nil, WithGetenv(noEnv))
			err := service.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)
	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

func TestSettingsService_ValidateEmbeddingConfig(t *testing.T) {
	t.Run("nil validator", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil)
		assert.NoError(t, service.ValidateEmbeddingConfig())
	})

	t.Run("delegates to validator", func(t *testing.T) {
		validator := &mockAIValidator{err: errors.New("unreachable")}
		service := NewSettingsService(memory.NewConfigStore(), validator, WithGetenv(noEnv))

		err := service.ValidateEmbeddingConfig()
		assert.EqualError(t, err, "unreachable")
		require.NotNil(t, validator.got)
		assert.Equal(t, domain.AIProviderHashing, validator.got.Provider)
	})
}

func TestSettingsService_GetPipelineConfig(t *testing.T) {
	t.Run("from chunking settings", func(t *testing.T) {
		store := memory.NewConfigStore(map[string]any{
			"chunking.chunk_size": 500,
			"chunking.overlap":    50,
		})
		service := NewSettingsService(store, nil)

		cfg := service.GetPipelineConfig()
		assert.Equal(t, []string{"chunker"}, cfg.Processors)
		assert.Equal(t, 500, cfg.GetProcessorConfig("chunker")["chunk_size"])
		assert.Equal(t, 50, cfg.GetProcessorConfig("chunker")["overlap"])
	})

	t.Run("pipeline overrides", func(t *testing.T) {
		store := memory.NewConfigStore(map[string]any{
			"pipeline.chunker.chunk_size": int64(300),
		})
		service := NewSettingsService(store, nil)

		cfg := service.GetPipelineConfig()
		assert.Equal(t, int64(300), cfg.GetProcessorConfig("chunker")["chunk_size"])
		assert.Equal(t, domain.DefaultChunkOverlap, cfg.GetProcessorConfig("chunker")["overlap"])
	})
}
