package domain

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available embedding providers.
const (
	// AIProviderHashing is the local feature-hashing embedder.
	AIProviderHashing AIProvider = "hashing"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderHashing, AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs without a network service.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderHashing
}

// IsRemote returns true if this provider is reached over HTTP.
func (p AIProvider) IsRemote() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderHashing:
		return "Hashing (local, deterministic)"
	case AIProviderOllama:
		return "Ollama (local server)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the preferred embedding service provider.
	Provider AIProvider

	// Fallback lists providers tried in order when Provider is unavailable.
	Fallback []AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (Ollama, or an OpenAI-compatible server).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size for providers that take one.
	Dimensions int

	// BatchSize is the number of texts per embedding request during a build.
	BatchSize int

	// RequestsPerSecond limits calls to remote providers. Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the rate limiter bucket size.
	Burst int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.ProviderConfigured(e.Provider)
}

// ProviderConfigured reports whether p can be constructed from these settings.
func (e EmbeddingSettings) ProviderConfigured(p AIProvider) bool {
	if !p.IsValid() {
		return false
	}
	if p.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// Chain returns the provider followed by its fallbacks, without duplicates.
func (e EmbeddingSettings) Chain() []AIProvider {
	seen := make(map[AIProvider]bool, len(e.Fallback)+1)
	chain := make([]AIProvider, 0, len(e.Fallback)+1)
	for _, p := range append([]AIProvider{e.Provider}, e.Fallback...) {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		chain = append(chain, p)
	}
	return chain
}

// ChunkSettings holds chunker configuration.
type ChunkSettings struct {
	// Size is the maximum characters per chunk.
	Size int

	// Overlap is the number of characters shared by consecutive chunks.
	Overlap int
}

// PathSettings holds the corpus and artifact locations.
type PathSettings struct {
	// BooksDir is the directory scanned for source documents.
	BooksDir string

	// DataDir holds the index and chunk artifacts.
	DataDir string
}

// RetrievalSettings holds retrieval defaults.
type RetrievalSettings struct {
	// TopK is the default number of search results.
	TopK int

	// SampleSize is the default number of randomly sampled chunks.
	SampleSize int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Paths holds corpus and artifact locations.
	Paths PathSettings

	// Chunking holds chunker settings.
	Chunking ChunkSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Retrieval holds retrieval defaults.
	Retrieval RetrievalSettings
}

// Default values.
const (
	DefaultChunkSize     = 800
	DefaultChunkOverlap  = 200
	DefaultTopK          = 8
	DefaultSampleSize    = 8
	DefaultBatchSize     = 32
	DefaultHashingDims   = 384
	DefaultBooksDir      = "data/books"
	DefaultDataDir       = "vector_db"
	DefaultRequestsPerS  = 5
	DefaultRequestsBurst = 10
)

// DefaultAppSettings returns settings that work without any configuration:
// the local hashing embedder over data/books, artifacts in vector_db.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Paths: PathSettings{
			BooksDir: DefaultBooksDir,
			DataDir:  DefaultDataDir,
		},
		Chunking: ChunkSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Embedding: EmbeddingSettings{
			Provider:          AIProviderHashing,
			Model:             DefaultEmbeddingModels()[AIProviderHashing],
			Dimensions:        DefaultHashingDims,
			BatchSize:         DefaultBatchSize,
			RequestsPerSecond: DefaultRequestsPerS,
			Burst:             DefaultRequestsBurst,
		},
		Retrieval: RetrievalSettings{
			TopK:       DefaultTopK,
			SampleSize: DefaultSampleSize,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHashing,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHashing: "hashing-fnv1a",
		AIProviderOllama:  "nomic-embed-text",
		AIProviderOpenAI:  "text-embedding-3-small",
	}
}

// DefaultBaseURLs returns default endpoints for remote providers.
func DefaultBaseURLs() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "http://localhost:11434",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"hashing-fnv1a": DefaultHashingDims,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config so new processors need no struct changes.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor returns the chunking pipeline for the given settings.
func PipelineConfigFor(c ChunkSettings) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": c.Size,
				"overlap":    c.Overlap,
			},
		},
	}
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfigFor(ChunkSettings{Size: DefaultChunkSize, Overlap: DefaultChunkOverlap})
}
