// Package chunker provides a fixed-size character window chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// lineBreaks maps carriage returns and newlines to spaces so every chunk
// is a single line.
var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// Processor splits document content into overlapping fixed-size chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.chunkSize, p.overlap = normalise(p.chunkSize, p.overlap)

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the effective chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the effective overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Split(doc.Content, doc.Source, p.chunkSize, p.overlap), nil
}

// Split breaks text into windows of at most maxChars characters, each
// starting overlap characters before the previous one ended. Line breaks
// become spaces, windows are trimmed and blank windows are dropped.
//
// Chunk IDs are left at zero; the index builder assigns them.
func Split(text, source string, maxChars, overlap int) []domain.Chunk {
	maxChars, overlap = normalise(maxChars, overlap)

	runes := []rune(lineBreaks.Replace(text))
	n := len(runes)
	if n == 0 {
		return nil
	}

	step := maxChars - overlap
	chunks := make([]domain.Chunk, 0, n/step+1)

	start := 0
	for start < n {
		end := start + maxChars
		if end > n {
			end = n
		}

		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			chunks = append(chunks, domain.Chunk{
				Text:     piece,
				Source:   source,
				Position: len(chunks),
			})
		}

		if end == n {
			break
		}
		start = end - overlap
	}

	return chunks
}

// normalise applies the size and overlap guards so the window always advances.
func normalise(maxChars, overlap int) (int, int) {
	if maxChars <= 0 {
		maxChars = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChars {
		overlap = maxChars / 4
	}
	return maxChars, overlap
}
