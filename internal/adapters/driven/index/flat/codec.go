package flat

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"math"
	"os"
	"time"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// File layout, all integers little-endian:
//
//	magic      [8]byte  "HSFLAT\x00\x00"
//	version    uint32
//	generation uint16 length + bytes
//	model      uint16 length + bytes
//	dim        uint32
//	count      uint32
//	chunkSize  uint32
//	overlap    uint32
//	createdAt  int64    unix nanoseconds
//	vectors    count*dim float32, row-major
//	crc        uint32   CRC-32 (IEEE) of everything above
var magic = [8]byte{'H', 'S', 'F', 'L', 'A', 'T', 0, 0}

// FormatVersion is the current file format version.
const FormatVersion uint32 = 1

// WriteFile writes the index and manifest to path. The manifest's
// Dimensions and Count are taken from the index.
func WriteFile(path string, m domain.IndexManifest, idx *Index) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}

	if err := Encode(f, m, idx); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync index file: %w", err)
	}
	return f.Close()
}

// Encode writes the index in file format to w.
func Encode(w io.Writer, m domain.IndexManifest, idx *Index) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	crc := crc32.NewIEEE()
	bw := bufio.NewWriter(io.MultiWriter(w, crc))
	le := binary.LittleEndian

	header := []any{
		magic,
		FormatVersion,
	}
	for _, v := range header {
		if err := binary.Write(bw, le, v); err != nil {
			return fmt.Errorf("write index header: %w", err)
		}
	}
	for _, s := range []string{m.Generation, m.Model} {
		if err := writeString(bw, s); err != nil {
			return fmt.Errorf("write index header: %w", err)
		}
	}

	var created int64
	if !m.CreatedAt.IsZero() {
		created = m.CreatedAt.UnixNano()
	}

	count := len(idx.data) / idx.dim
	fields := []any{
		uint32(idx.dim),
		uint32(count),
		uint32(m.ChunkSize),
		uint32(m.Overlap),
		created,
	}
	for _, v := range fields {
		if err := binary.Write(bw, le, v); err != nil {
			return fmt.Errorf("write index header: %w", err)
		}
	}

	buf := make([]byte, 4)
	for _, x := range idx.data {
		le.PutUint32(buf, math.Float32bits(x))
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write vectors: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}

	return binary.Write(w, le, crc.Sum32())
}

// ReadFile loads an index and its manifest from path.
func ReadFile(path string) (domain.IndexManifest, *Index, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.IndexManifest{}, nil, fmt.Errorf("%w: %s (run 'hiresense build' first)", domain.ErrArtifactMissing, path)
	}
	if err != nil {
		return domain.IndexManifest{}, nil, fmt.Errorf("read index file: %w", err)
	}
	return Decode(data)
}

// Decode parses an index in file format.
func Decode(data []byte) (domain.IndexManifest, *Index, error) {
	var m domain.IndexManifest

	if len(data) < len(magic)+4+4 {
		return m, nil, fmt.Errorf("%w: index file truncated", domain.ErrArtifactMismatch)
	}

	body, trailer := data[:len(data)-4], data[len(data)-4:]
	if crc32.ChecksumIEEE(body) != binary.LittleEndian.Uint32(trailer) {
		return m, nil, fmt.Errorf("%w: index checksum mismatch", domain.ErrArtifactMismatch)
	}

	r := bytes.NewReader(body)
	le := binary.LittleEndian

	var gotMagic [8]byte
	var version uint32
	if err := binary.Read(r, le, &gotMagic); err != nil || gotMagic != magic {
		return m, nil, fmt.Errorf("%w: not an index file", domain.ErrArtifactMismatch)
	}
	if err := binary.Read(r, le, &version); err != nil || version != FormatVersion {
		return m, nil, fmt.Errorf("%w: unsupported index format version %d", domain.ErrArtifactMismatch, version)
	}

	var err error
	if m.Generation, err = readString(r); err != nil {
		return m, nil, corrupt(err)
	}
	if m.Model, err = readString(r); err != nil {
		return m, nil, corrupt(err)
	}

	var dim, count, chunkSize, overlap uint32
	var created int64
	for _, v := range []any{&dim, &count, &chunkSize, &overlap, &created} {
		if err := binary.Read(r, le, v); err != nil {
			return m, nil, corrupt(err)
		}
	}

	if dim == 0 {
		return m, nil, corrupt(errors.New("zero dimension"))
	}
	want := int64(dim) * int64(count) * 4
	if int64(r.Len()) != want {
		return m, nil, corrupt(fmt.Errorf("expected %d vector bytes, found %d", want, r.Len()))
	}

	vectors := make([]float32, int(dim)*int(count))
	rest := body[len(body)-r.Len():]
	for i := range vectors {
		vectors[i] = math.Float32frombits(le.Uint32(rest[i*4:]))
	}

	m.Dimensions = int(dim)
	m.Count = int(count)
	m.ChunkSize = int(chunkSize)
	m.Overlap = int(overlap)
	if created != 0 {
		m.CreatedAt = time.Unix(0, created).UTC()
	}

	return m, &Index{dim: int(dim), data: vectors}, nil
}

func writeString(w io.Writer, s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("string too long: %d bytes", len(s))
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func corrupt(err error) error {
	return fmt.Errorf("%w: index file corrupt: %v", domain.ErrArtifactMismatch, err)
}
