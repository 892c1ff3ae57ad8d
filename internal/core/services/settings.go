package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvOpenAIKey overrides embedding.api_key when set.
//
//nolint:gosec // G101: environment variable name, not a credential.
const EnvOpenAIKey = "OPENAI_API_KEY"

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyBooksDir       = "paths.books_dir"
	keyDataDir        = "paths.data_dir"
	keyChunkSize      = "chunking.chunk_size"
	keyChunkOverlap   = "chunking.overlap"
	keyEmbedProvider  = "embedding.provider"
	keyEmbedFallback  = "embedding.fallback"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyEmbedDims      = "embedding.dimensions"
	keyEmbedBatchSize = "embedding.batch_size"
	keyEmbedRate      = "embedding.requests_per_second"
	keyEmbedBurst     = "embedding.burst"
	keyTopK           = "retrieval.top_k"
	keySampleSize     = "retrieval.sample_size"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// SettingsOption configures a SettingsService.
type SettingsOption func(*SettingsService)

// WithGetenv replaces the environment lookup. Used by tests.
func WithGetenv(getenv func(string) string) SettingsOption {
	return func(s *SettingsService) {
		s.getenv = getenv
	}
}

// NewSettingsService creates a new settings service.
func NewSettingsService(
	configStore driven.ConfigStore,
	aiValidator driven.AIConfigValidator,
	opts ...SettingsOption,
) *SettingsService {
	s := &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves current application settings. Missing keys take their
// defaults; provider-specific defaults follow the configured provider.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider)
	model := s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[provider])

	dims := s.getPositiveInt(keyEmbedDims, 0)
	if dims == 0 {
		dims = domain.EmbeddingDimensions()[model]
	}

	apiKey := s.configStore.GetString(keyEmbedAPIKey)
	if env := s.getenv(EnvOpenAIKey); env != "" {
		apiKey = env
	}

	settings := &domain.AppSettings{
		Paths: domain.PathSettings{
			BooksDir: s.getString(keyBooksDir, defaults.Paths.BooksDir),
			DataDir:  s.getString(keyDataDir, defaults.Paths.DataDir),
		},
		Chunking: domain.ChunkSettings{
			Size:    s.getPositiveInt(keyChunkSize, defaults.Chunking.Size),
			Overlap: s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          provider,
			Fallback:          s.getFallback(),
			Model:             model,
			BaseURL:           s.getString(keyEmbedBaseURL, domain.DefaultBaseURLs()[provider]),
			APIKey:            apiKey,
			Dimensions:        dims,
			BatchSize:         s.getPositiveInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			RequestsPerSecond: s.getFloat(keyEmbedRate, defaults.Embedding.RequestsPerSecond),
			Burst:             s.getPositiveInt(keyEmbedBurst, defaults.Embedding.Burst),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:       s.getPositiveInt(keyTopK, defaults.Retrieval.TopK),
			SampleSize: s.getPositiveInt(keySampleSize, defaults.Retrieval.SampleSize),
		},
	}

	return settings, nil
}

// Save persists application settings. An API key that came from the
// environment is not written to the config file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("save settings: %w", domain.ErrInvalidInput)
	}

	fallback := make([]string, 0, len(settings.Embedding.Fallback))
	for _, p := range settings.Embedding.Fallback {
		fallback = append(fallback, p.String())
	}

	values := []struct {
		key   string
		value any
	}{
		{keyBooksDir, settings.Paths.BooksDir},
		{keyDataDir, settings.Paths.DataDir},
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedFallback, fallback},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDims, settings.Embedding.Dimensions},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyEmbedRate, settings.Embedding.RequestsPerSecond},
		{keyEmbedBurst, settings.Embedding.Burst},
		{keyTopK, settings.Retrieval.TopK},
		{keySampleSize, settings.Retrieval.SampleSize},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if key := settings.Embedding.APIKey; key != "" && key != s.getenv(EnvOpenAIKey) {
		if err := s.configStore.Set(keyEmbedAPIKey, key); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider %q: %w", provider, domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if apiKey == "" && settings.Embedding.Provider == provider {
		apiKey = settings.Embedding.APIKey
	}
	if apiKey == "" {
		apiKey = s.getenv(EnvOpenAIKey)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s (or set %s): %w", provider, EnvOpenAIKey, domain.ErrInvalidInput)
	}

	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	settings.Embedding.BaseURL = domain.DefaultBaseURLs()[provider]
	settings.Embedding.APIKey = apiKey
	settings.Embedding.Dimensions = domain.EmbeddingDimensions()[model]

	return s.Save(settings)
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var problems []string
	if settings.Paths.BooksDir == "" {
		problems = append(problems, "paths.books_dir is empty")
	}
	if settings.Paths.DataDir == "" {
		problems = append(problems, "paths.data_dir is empty")
	}
	if settings.Chunking.Overlap < 0 || settings.Chunking.Overlap >= settings.Chunking.Size {
		problems = append(problems, fmt.Sprintf("chunking.overlap %d must be in [0, %d)",
			settings.Chunking.Overlap, settings.Chunking.Size))
	}

	configured := false
	for _, p := range settings.Embedding.Chain() {
		if settings.Embedding.ProviderConfigured(p) {
			configured = true
			break
		}
	}
	if !configured {
		problems = append(problems, "no usable embedding provider (check embedding.provider and api key)")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// GetPipelineConfig returns the post-processor pipeline configuration:
// the chunker configured from chunking.*, overridable per processor with
// pipeline.<name>.<key>.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	settings, err := s.Get()
	if err != nil {
		return domain.DefaultPipelineConfig()
	}
	cfg := domain.PipelineConfigFor(settings.Chunking)

	if processors := s.configStore.GetStringSlice("pipeline.processors"); len(processors) > 0 {
		cfg.Processors = processors
	}

	for _, name := range cfg.Processors {
		overrides := s.loadProcessorConfig("pipeline." + name + ".")
		if len(overrides) == 0 {
			continue
		}
		existing := cfg.ProcessorConfigs[name]
		if existing == nil {
			existing = make(map[string]any)
		}
		for k, v := range overrides {
			existing[k] = v
		}
		cfg.ProcessorConfigs[name] = existing
	}

	return cfg
}

// loadProcessorConfig loads config keys with a given prefix into a map.
func (s *SettingsService) loadProcessorConfig(prefix string) map[string]any {
	cfg := make(map[string]any)
	for _, key := range []string{"chunk_size", "overlap"} {
		if val, exists := s.configStore.Get(prefix + key); exists {
			cfg[key] = val
		}
	}
	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt returns the stored value, including zero, when the key exists.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getFallback() []domain.AIProvider {
	var chain []domain.AIProvider
	for _, name := range s.configStore.GetStringSlice(keyEmbedFallback) {
		if p := domain.AIProvider(name); p.IsValid() {
			chain = append(chain, p)
		}
	}
	return chain
}
