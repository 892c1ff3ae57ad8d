package flat

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

func testManifest() domain.IndexManifest {
	return domain.IndexManifest{
		Generation: "6f1c2d0e-1111-4a2b-9c3d-000000000001",
		Model:      "hashing-fnv1a",
		ChunkSize:  800,
		Overlap:    200,
		CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.flat")
	idx := newIndex(t, []float32{1, 0, 0}, []float32{0, 1, 0}, []float32{0, 0, 1})

	require.NoError(t, WriteFile(path, testManifest(), idx))

	m, loaded, err := ReadFile(path)
	require.NoError(t, err)

	want := testManifest()
	want.Dimensions = 3
	want.Count = 3
	assert.Equal(t, want, m)
	assert.Equal(t, 3, loaded.Size())
	assert.Equal(t, idx.data, loaded.data)
}

func TestReadFile_Missing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "nope.flat"))
	assert.ErrorIs(t, err, domain.ErrArtifactMissing)
	assert.Contains(t, err.Error(), "hiresense build")
}

func TestDecode_Corruption(t *testing.T) {
	var buf bytes.Buffer
	idx := newIndex(t, []float32{1, 2}, []float32{3, 4})
	require.NoError(t, Encode(&buf, testManifest(), idx))
	good := buf.Bytes()

	tests := []struct {
		name string
		data func() []byte
	}{
		{"truncated", func() []byte { return good[:10] }},
		{"flipped vector byte", func() []byte {
			b := bytes.Clone(good)
			b[len(b)-6] ^= 0xff
			return b
		}},
		{"bad magic", func() []byte {
			b := bytes.Clone(good)
			b[0] = 'X'
			return b
		}},
		{"missing trailer", func() []byte { return good[:len(good)-4] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.data())
			assert.ErrorIs(t, err, domain.ErrArtifactMismatch)
		})
	}
}

func TestWriteFile_BadPath(t *testing.T) {
	idx := newIndex(t, []float32{1, 0})
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "index.flat"), testManifest(), idx)
	assert.Error(t, err)
}

func TestReadFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.flat")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, _, err := ReadFile(path)
	assert.ErrorIs(t, err, domain.ErrArtifactMismatch)
}
