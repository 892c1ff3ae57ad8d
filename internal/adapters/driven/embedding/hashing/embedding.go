// Package hashing provides a deterministic local embedding service based
// on feature hashing. It needs no network and no model download, so it is
// the default provider and the one used by tests.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/vecmath"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	ModelName         = "hashing-fnv1a"
	DefaultDimensions = domain.DefaultHashingDims
	minTokenLength    = 2
)

// stopwords are dropped before hashing.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "can": true, "do": true, "does": true, "for": true,
	"from": true, "has": true, "have": true, "how": true, "if": true, "in": true,
	"into": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "their": true, "then": true,
	"there": true, "these": true, "this": true, "to": true, "was": true,
	"we": true, "what": true, "when": true, "where": true, "which": true,
	"while": true, "who": true, "why": true, "will": true, "with": true,
	"you": true, "your": true,
}

// Config holds configuration for the hashing embedding service.
type Config struct {
	// Dimensions is the embedding vector size (default: 384).
	Dimensions int
}

// EmbeddingService maps text to a bag-of-words vector: each token is
// hashed with FNV-1a into a signed bucket, weighted by 1+ln(tf) and the
// result is L2-normalised.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a new hashing embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: cfg.Dimensions}
}

// Embed generates a vector embedding for the given text. Text without any
// indexable token yields the zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.vector(text), nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		embeddings[i] = s.vector(text)
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

func (s *EmbeddingService) vector(text string) []float32 {
	vec := make([]float32, s.dimensions)

	counts := make(map[string]int)
	for _, tok := range Tokenize(text) {
		counts[tok]++
	}

	for tok, tf := range counts {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum32()

		weight := float32(1 + math.Log(float64(tf)))
		if sum&0x80000000 != 0 {
			weight = -weight
		}
		vec[int(sum%uint32(s.dimensions))] += weight
	}

	vecmath.NormalizeInPlace(vec)
	return vec
}

// Tokenize lowercases text, splits it on anything that is not a letter or
// digit and drops stopwords and single characters.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < minTokenLength || stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
