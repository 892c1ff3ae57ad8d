// Package flat provides an exact inner-product vector index.
//
// Vectors are kept in one contiguous row-major slice and every search
// scores every row, so results are exact and deterministic: similarity
// descending, ties broken by ascending row. Callers store unit vectors,
// which makes the inner product equal to cosine similarity.
//
// The index is persisted in a small binary format (see codec.go) that
// carries the build manifest, so a loader can tell which build produced it.
package flat
