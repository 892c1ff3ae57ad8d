package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown provider or document format.
	ErrUnsupportedType = errors.New("unsupported type")

	// Index Errors.

	// ErrArtifactMissing indicates the index or chunk artifact is absent.
	// A build must run before anything can be retrieved.
	ErrArtifactMissing = errors.New("index artifact missing")

	// ErrArtifactMismatch indicates the index and chunk artifacts do not
	// belong to the same build, or one of them is corrupt.
	ErrArtifactMismatch = errors.New("index artifacts do not match")

	// ErrEmptyCorpus indicates a build found no indexable chunks.
	ErrEmptyCorpus = errors.New("no indexable chunks in corpus")

	// ErrDimensionMismatch indicates a vector of the wrong size.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrNoContext indicates retrieval produced no chunks to build context from.
	ErrNoContext = errors.New("no context chunks found")

	// Embedding Errors.

	// ErrEmbeddingUnavailable indicates no embedding provider could be set up.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrEmbeddingMismatch indicates the index was built with a different
	// embedding model or dimension than the one used for queries.
	ErrEmbeddingMismatch = errors.New("embedding model does not match index")

	// ErrRateLimited indicates the embedding provider rejected a request
	// for exceeding its rate limit.
	ErrRateLimited = errors.New("embedding provider rate limited")
)
