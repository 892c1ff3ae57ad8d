package driven

import (
	"context"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// Snapshot is one complete, immutable index build: the vectors, the chunks
// they map to and the manifest both artifacts were written with.
type Snapshot struct {
	// Manifest identifies the build.
	Manifest domain.IndexManifest

	// Index holds one vector per chunk, row i for chunk ID i.
	Index VectorIndex

	// Chunks are ordered by ID.
	Chunks []domain.Chunk
}

// ArtifactStore persists snapshots as an index file plus a chunk database.
type ArtifactStore interface {
	// Save writes both artifacts for the snapshot. The previous pair is
	// left in place if any step fails.
	Save(ctx context.Context, snap *Snapshot) error

	// Load reads both artifacts. It returns domain.ErrArtifactMissing when
	// either is absent and domain.ErrArtifactMismatch when they disagree.
	Load(ctx context.Context) (*Snapshot, error)

	// Exists reports whether both artifacts are present.
	Exists() bool

	// IndexPath returns the index artifact location.
	IndexPath() string

	// ChunksPath returns the chunk artifact location.
	ChunksPath() string
}
