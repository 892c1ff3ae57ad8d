package domain

import "time"

// IndexManifest identifies one index build. It is written into both
// artifacts so that a mismatched pair can be detected at load time.
type IndexManifest struct {
	// Generation is unique per build.
	Generation string `json:"generation"`

	// Model is the embedding model used for every vector.
	Model string `json:"model"`

	// Dimensions is the vector size.
	Dimensions int `json:"dimensions"`

	// Count is the number of rows (and chunks).
	Count int `json:"count"`

	// ChunkSize is the maximum characters per chunk used by the build.
	ChunkSize int `json:"chunk_size"`

	// Overlap is the chunk overlap used by the build.
	Overlap int `json:"overlap"`

	// CreatedAt is when the build finished.
	CreatedAt time.Time `json:"created_at"`
}

// SameBuild reports whether two manifests describe the same build.
func (m IndexManifest) SameBuild(other IndexManifest) bool {
	return m.Generation != "" && m.Generation == other.Generation
}

// BuildReport summarises an index build.
type BuildReport struct {
	// Manifest is the identity of the written index.
	Manifest IndexManifest

	// Documents is the number of documents that produced text.
	Documents int

	// Chunks is the number of chunks indexed.
	Chunks int

	// Skipped lists pages, documents and chunks left out.
	Skipped []SkippedItem

	// Duration is the wall time of the build.
	Duration time.Duration
}
