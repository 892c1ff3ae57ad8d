// Package artifact persists an index build as a pair of files: the flat
// vector index and the SQLite chunk database.
//
// Both files carry the build manifest. Save writes each to a temporary file
// in the target directory and renames them into place, so readers see either
// the previous file or the new one, never a partial write. The previous index
// is moved aside until the chunk database is installed and is put back if
// that rename fails. Only a crash between the two renames can leave a pair
// with different generations, which Load reports as
// domain.ErrArtifactMismatch.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/index/flat"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/storage/sqlite"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.ArtifactStore = (*Store)(nil)

// Artifact file names inside the data directory.
const (
	IndexFile  = "index.flat"
	ChunksFile = "chunks.db"
)

// Store reads and writes the artifact pair in one directory.
type Store struct {
	dir    string
	rename func(oldpath, newpath string) error
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir, rename: os.Rename}
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// IndexPath returns the index artifact location.
func (s *Store) IndexPath() string {
	return filepath.Join(s.dir, IndexFile)
}

// ChunksPath returns the chunk artifact location.
func (s *Store) ChunksPath() string {
	return filepath.Join(s.dir, ChunksFile)
}

// Exists reports whether both artifacts are present.
func (s *Store) Exists() bool {
	for _, p := range []string{s.IndexPath(), s.ChunksPath()} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// Save writes the snapshot. The index must be a *flat.Index and the chunks
// must satisfy chunks[i].ID == i.
func (s *Store) Save(ctx context.Context, snap *driven.Snapshot) error {
	if snap == nil || snap.Index == nil {
		return fmt.Errorf("%w: empty snapshot", domain.ErrInvalidInput)
	}
	idx, ok := snap.Index.(*flat.Index)
	if !ok {
		return fmt.Errorf("%w: unsupported index type %T", domain.ErrInvalidInput, snap.Index)
	}
	if idx.Size() != len(snap.Chunks) {
		return fmt.Errorf("%w: index has %d rows for %d chunks", domain.ErrInvalidInput, idx.Size(), len(snap.Chunks))
	}
	if snap.Manifest.Generation == "" {
		return fmt.Errorf("%w: manifest has no generation", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	suffix := ".tmp-" + snap.Manifest.Generation
	indexTmp := s.IndexPath() + suffix
	chunksTmp := s.ChunksPath() + suffix
	defer func() {
		_ = os.Remove(indexTmp)
		_ = os.Remove(chunksTmp)
	}()

	if err := flat.WriteFile(indexTmp, snap.Manifest, idx); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	if err := writeChunks(ctx, chunksTmp, snap); err != nil {
		return fmt.Errorf("writing chunks: %w", err)
	}

	if err := s.install(indexTmp, chunksTmp, snap.Manifest.Generation); err != nil {
		return err
	}

	logger.Debug("artifacts saved to %s (generation %s)", s.dir, snap.Manifest.Generation)
	return nil
}

// install renames the written pair into place. If the chunk database cannot
// be installed, the previous index is restored, or the new one removed when
// there was none, so the directory never holds a mismatched pair.
func (s *Store) install(indexTmp, chunksTmp, generation string) error {
	backup := s.IndexPath() + ".bak-" + generation
	hadIndex := false
	if _, err := os.Stat(s.IndexPath()); err == nil {
		if err := s.rename(s.IndexPath(), backup); err != nil {
			return fmt.Errorf("moving previous index aside: %w", err)
		}
		hadIndex = true
	}

	restore := func() {
		if hadIndex {
			if err := s.rename(backup, s.IndexPath()); err != nil {
				logger.Warn("restoring previous index from %s: %v", backup, err)
			}
			return
		}
		_ = os.Remove(s.IndexPath())
	}

	if err := s.rename(indexTmp, s.IndexPath()); err != nil {
		restore()
		return fmt.Errorf("installing index: %w", err)
	}
	if err := s.rename(chunksTmp, s.ChunksPath()); err != nil {
		restore()
		return fmt.Errorf("installing chunks: %w", err)
	}

	if hadIndex {
		if err := os.Remove(backup); err != nil {
			logger.Warn("removing previous index %s: %v", backup, err)
		}
	}
	return nil
}

func writeChunks(ctx context.Context, path string, snap *driven.Snapshot) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	db, err := sqlite.Create(path)
	if err != nil {
		return err
	}
	if err := db.WriteBuild(ctx, snap.Manifest, snap.Chunks); err != nil {
		_ = db.Close()
		return err
	}
	return db.Close()
}

// Load reads both artifacts and checks they come from the same build.
func (s *Store) Load(ctx context.Context) (*driven.Snapshot, error) {
	indexManifest, idx, err := flat.ReadFile(s.IndexPath())
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(s.ChunksPath())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	chunkManifest, err := db.Manifest(ctx)
	if err != nil {
		return nil, err
	}

	if !indexManifest.SameBuild(chunkManifest) {
		return nil, fmt.Errorf("%w: index generation %s, chunks generation %s",
			domain.ErrArtifactMismatch, indexManifest.Generation, chunkManifest.Generation)
	}

	chunks, err := db.Chunks(ctx)
	if err != nil {
		return nil, err
	}

	if idx.Size() != len(chunks) {
		logger.Warn("index has %d rows but chunk database has %d chunks; out-of-range rows will be dropped",
			idx.Size(), len(chunks))
	}

	logger.Debug("loaded %d vectors and %d chunks (generation %s)", idx.Size(), len(chunks), indexManifest.Generation)

	return &driven.Snapshot{
		Manifest: indexManifest,
		Index:    idx,
		Chunks:   chunks,
	}, nil
}

// SourceCounts returns the number of stored chunks per source.
func (s *Store) SourceCounts(ctx context.Context) (map[string]int, error) {
	db, err := sqlite.Open(s.ChunksPath())
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.SourceCounts(ctx)
}
