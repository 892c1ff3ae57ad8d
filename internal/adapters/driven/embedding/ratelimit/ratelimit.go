// Package ratelimit wraps an embedding service with a token bucket so
// remote providers are not flooded during index builds.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultBackoff is how long requests pause after the provider reports a
// rate limit error.
const DefaultBackoff = 30 * time.Second

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64

	// BurstSize is the maximum burst size.
	BurstSize int

	// Backoff is the pause after a rate limit error (default: 30s).
	Backoff time.Duration
}

// Limiter is a token bucket with a backoff window set by rate limit errors.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	backoff time.Duration
	now     func() time.Time
}

// NewLimiter creates a limiter from cfg. A non-positive rate disables the
// token bucket but keeps the backoff behaviour.
func NewLimiter(cfg Config) *Limiter {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Limiter{
		limiter: rate.NewLimiter(limit, burst),
		backoff: backoff,
		now:     time.Now,
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimitError.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if wait := retryAt.Sub(l.now()); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.limiter.Wait(ctx)
}

// RecordRateLimitError starts a backoff period.
func (l *Limiter) RecordRateLimitError() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.retryAt = l.now().Add(l.backoff)
}

// Allow reports whether a request can be made immediately.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if l.now().Before(retryAt) {
		return false
	}
	return l.limiter.Allow()
}

// EmbeddingService rate limits calls to an inner embedding service.
// Every Embed and EmbedBatch call takes one token.
type EmbeddingService struct {
	inner   driven.EmbeddingService
	limiter *Limiter
}

// Wrap returns svc guarded by a limiter built from cfg.
func Wrap(svc driven.EmbeddingService, cfg Config) *EmbeddingService {
	return &EmbeddingService{inner: svc, limiter: NewLimiter(cfg)}
}

// Embed waits for a token, then embeds text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	vec, err := s.inner.Embed(ctx, text)
	s.observe(err)
	return vec, err
}

// EmbedBatch waits for a token, then embeds texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	vecs, err := s.inner.EmbedBatch(ctx, texts)
	s.observe(err)
	return vecs, err
}

// Dimensions returns the inner service's vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the inner service's model name.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping is not rate limited.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the inner service.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}

// Unwrap returns the inner service.
func (s *EmbeddingService) Unwrap() driven.EmbeddingService {
	return s.inner
}

func (s *EmbeddingService) observe(err error) {
	if errors.Is(err, domain.ErrRateLimited) {
		logger.Warn("embedding provider rate limited, backing off for %s", s.limiter.backoff)
		s.limiter.RecordRateLimitError()
	}
}
