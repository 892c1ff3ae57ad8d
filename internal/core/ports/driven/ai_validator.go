package driven

import "github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"

// AIConfigValidator validates embedding provider configurations by testing
// connectivity to the underlying service.
type AIConfigValidator interface {
	// ValidateEmbedding validates an embedding configuration by pinging the provider.
	ValidateEmbedding(config *domain.EmbeddingSettings) error
}
