// Package ai provides factory functions for creating embedding service
// adapters and selecting one from the configured provider chain.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/embedding/openai"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/embedding/ratelimit"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// ProviderFactory builds the embedding service for one provider.
type ProviderFactory func(p domain.AIProvider, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error)

// InitResult contains the result of embedding service selection.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	Provider         domain.AIProvider
	Warnings         []string // Non-fatal issues that caused fallback.
	FellBack         bool     // True if a fallback provider was selected.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
}

// Selector walks the provider chain and keeps the first provider that can
// be constructed and answers Ping.
type Selector struct {
	factory ProviderFactory
	timeout time.Duration
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithFactory replaces the provider constructor. Used by tests.
func WithFactory(f ProviderFactory) SelectorOption {
	return func(s *Selector) {
		s.factory = f
	}
}

// WithPingTimeout overrides the per-provider ping timeout.
func WithPingTimeout(d time.Duration) SelectorOption {
	return func(s *Selector) {
		s.timeout = d
	}
}

// NewSelector creates a selector using the built-in providers.
func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{factory: CreateProvider, timeout: pingTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns the first usable provider in settings.Chain(). The choice
// holds for the lifetime of the process.
func (s *Selector) Select(ctx context.Context, settings *domain.EmbeddingSettings) (*InitResult, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrEmbeddingUnavailable)
	}

	chain := settings.Chain()
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}

	result := &InitResult{}
	for i, p := range chain {
		if !settings.ProviderConfigured(p) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: not configured", p))
			continue
		}

		svc, err := s.factory(p, settings)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", p, err))
			continue
		}

		pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err = svc.Ping(pingCtx)
		cancel()
		if err != nil {
			svc.Close()
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: unreachable (%v)", p, err))
			continue
		}

		result.EmbeddingService = svc
		result.Provider = p
		result.FellBack = i > 0
		for _, w := range result.Warnings {
			logger.Warn("embedding provider skipped: %s", w)
		}
		logger.Debug("using embedding provider %s (model %s, %d dims)", p, svc.ModelName(), svc.Dimensions())
		return result, nil
	}

	return nil, fmt.Errorf("%w: %s. Run 'hiresense config' to fix",
		domain.ErrEmbeddingUnavailable, strings.Join(result.Warnings, "; "))
}

// SelectEmbeddingService selects a provider with the built-in factory.
func SelectEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (*InitResult, error) {
	return NewSelector().Select(ctx, settings)
}

// ValidateEmbeddingConfig validates an embedding configuration by creating
// the primary provider and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the service for the primary provider.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrInvalidInput)
	}
	return CreateProvider(settings.Provider, settings)
}

// CreateProvider creates the embedding service for p. Model, base URL and
// dimensions from settings apply only when p is the primary provider;
// fallbacks run with their defaults. Remote providers are rate limited when
// settings.RequestsPerSecond is positive.
func CreateProvider(p domain.AIProvider, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrInvalidInput)
	}
	if !p.IsValid() {
		return nil, fmt.Errorf("embedding provider %q: %w", p, domain.ErrUnsupportedType)
	}

	model, baseURL, dimensions := providerParams(p, settings)

	var (
		svc driven.EmbeddingService
		err error
	)
	switch p {
	case domain.AIProviderHashing:
		svc = hashing.NewEmbeddingService(hashing.Config{Dimensions: dimensions})

	case domain.AIProviderOllama:
		if dimensions == 0 {
			dimensions = domain.EmbeddingDimensions()[model]
		}
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    baseURL,
			Model:      model,
			Dimensions: dimensions,
		})

	case domain.AIProviderOpenAI:
		svc, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    baseURL,
			Model:      model,
			Dimensions: dimensions,
			BatchSize:  settings.BatchSize,
		})
		if err != nil {
			return nil, err
		}
	}

	if p.IsRemote() && settings.RequestsPerSecond > 0 {
		svc = ratelimit.Wrap(svc, ratelimit.Config{
			RequestsPerSecond: settings.RequestsPerSecond,
			BurstSize:         settings.Burst,
		})
	}
	return svc, nil
}

func providerParams(p domain.AIProvider, settings *domain.EmbeddingSettings) (model, baseURL string, dimensions int) {
	if p == settings.Provider {
		model, baseURL, dimensions = settings.Model, settings.BaseURL, settings.Dimensions
	}
	if model == "" {
		model = domain.DefaultEmbeddingModels()[p]
	}
	if baseURL == "" {
		baseURL = domain.DefaultBaseURLs()[p]
	}
	return model, baseURL, dimensions
}
