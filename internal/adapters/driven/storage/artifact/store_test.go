package artifact

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/index/flat"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driven/storage/sqlite"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
)

func snapshot(t *testing.T, generation string, texts ...string) *driven.Snapshot {
	t.Helper()

	idx, err := flat.New(2)
	require.NoError(t, err)

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		require.NoError(t, idx.Add(context.Background(), i, []float32{1, float32(i)}))
		chunks[i] = domain.Chunk{ID: i, Text: text, Source: "book.pdf", Position: i}
	}

	return &driven.Snapshot{
		Manifest: domain.IndexManifest{
			Generation: generation,
			Model:      "test-model",
			Dimensions: 2,
			Count:      len(texts),
			ChunkSize:  800,
			Overlap:    200,
			CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		Index:  idx,
		Chunks: chunks,
	}
}

func TestStore_Paths(t *testing.T) {
	s := New("vector_db")

	assert.Equal(t, filepath.Join("vector_db", "index.flat"), s.IndexPath())
	assert.Equal(t, filepath.Join("vector_db", "chunks.db"), s.ChunksPath())
	assert.Equal(t, "vector_db", s.Dir())
}

func TestStore_SaveLoad(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "vector_db"))
	ctx := context.Background()

	assert.False(t, s.Exists())
	require.NoError(t, s.Save(ctx, snapshot(t, "g1", "alpha", "beta", "gamma")))
	assert.True(t, s.Exists())

	snap, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, "g1", snap.Manifest.Generation)
	assert.Equal(t, 3, snap.Manifest.Count)
	assert.Equal(t, 3, snap.Index.Size())
	require.Len(t, snap.Chunks, 3)
	for i, c := range snap.Chunks {
		assert.Equal(t, i, c.ID)
	}
	assert.Equal(t, "beta", snap.Chunks[1].Text)

	counts, err := s.SourceCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"book.pdf": 3}, counts)
}

func TestStore_Save_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	require.NoError(t, s.Save(context.Background(), snapshot(t, "g1", "alpha")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{IndexFile, ChunksFile}, names)
}

func TestStore_Save_Rebuild(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, snapshot(t, "g1", "alpha", "beta")))
	require.NoError(t, s.Save(ctx, snapshot(t, "g2", "delta")))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "g2", snap.Manifest.Generation)
	assert.Len(t, snap.Chunks, 1)
}

// failRenameTo makes renames onto target fail.
func failRenameTo(target string) func(string, string) error {
	return func(oldpath, newpath string) error {
		if newpath == target {
			return errors.New("device busy")
		}
		return os.Rename(oldpath, newpath)
	}
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestStore_Save_ChunksInstallFailureRestoresIndex(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, snapshot(t, "g1", "alpha", "beta")))

	s.rename = failRenameTo(s.ChunksPath())
	err := s.Save(ctx, snapshot(t, "g2", "delta"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "installing chunks")

	s.rename = os.Rename
	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "g1", snap.Manifest.Generation)
	assert.Len(t, snap.Chunks, 2)
	assert.ElementsMatch(t, []string{IndexFile, ChunksFile}, dirNames(t, dir))
}

func TestStore_Save_IndexInstallFailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, snapshot(t, "g1", "alpha")))

	calls := 0
	s.rename = func(oldpath, newpath string) error {
		calls++
		if oldpath != s.IndexPath() && newpath == s.IndexPath() && calls == 2 {
			return errors.New("device busy")
		}
		return os.Rename(oldpath, newpath)
	}
	err := s.Save(ctx, snapshot(t, "g2", "delta"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "installing index")

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "g1", snap.Manifest.Generation)
	assert.ElementsMatch(t, []string{IndexFile, ChunksFile}, dirNames(t, dir))
}

func TestStore_Save_FirstBuildInstallFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	s.rename = failRenameTo(s.ChunksPath())

	err := s.Save(context.Background(), snapshot(t, "g1", "alpha"))
	require.Error(t, err)

	assert.False(t, s.Exists())
	assert.Empty(t, dirNames(t, dir))
}

func TestStore_Save_InvalidSnapshotKeepsPrevious(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, snapshot(t, "g1", "alpha")))

	bad := snapshot(t, "g2", "x", "y")
	bad.Chunks = bad.Chunks[:1]
	assert.ErrorIs(t, s.Save(ctx, bad), domain.ErrInvalidInput)

	noGen := snapshot(t, "", "x")
	assert.ErrorIs(t, s.Save(ctx, noGen), domain.ErrInvalidInput)

	assert.ErrorIs(t, s.Save(ctx, nil), domain.ErrInvalidInput)

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "g1", snap.Manifest.Generation)
}

func TestStore_Load_Missing(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrArtifactMissing)
}

func TestStore_Load_MissingChunks(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, snapshot(t, "g1", "alpha")))
	require.NoError(t, os.Remove(s.ChunksPath()))

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrArtifactMissing)
}

func TestStore_Load_GenerationMismatch(t *testing.T) {
	ctx := context.Background()
	a := New(t.TempDir())
	b := New(t.TempDir())
	require.NoError(t, a.Save(ctx, snapshot(t, "g1", "alpha")))
	require.NoError(t, b.Save(ctx, snapshot(t, "g2", "beta")))

	data, err := os.ReadFile(b.IndexPath())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(a.IndexPath(), data, 0o600))

	_, err = a.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrArtifactMismatch)
}

func TestStore_Load_CountMismatchTolerated(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	ctx := context.Background()
	snap := snapshot(t, "g1", "alpha", "beta", "gamma")

	require.NoError(t, flat.WriteFile(s.IndexPath(), snap.Manifest, snap.Index.(*flat.Index)))
	db, err := sqlite.Create(s.ChunksPath())
	require.NoError(t, err)
	require.NoError(t, db.WriteBuild(ctx, snap.Manifest, snap.Chunks[:2]))
	require.NoError(t, db.Close())

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Index.Size())
	assert.Len(t, loaded.Chunks, 2)
}
