package chunker

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(500))
		if p.ChunkSize() != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.ChunkSize())
		}
	})

	t.Run("custom overlap", func(t *testing.T) {
		p := New(WithOverlap(100))
		if p.Overlap() != 100 {
			t.Errorf("expected overlap 100, got %d", p.Overlap())
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.overlap != 25 {
			t.Errorf("expected overlap clamped to 25, got %d", p.overlap)
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", p.overlap)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p := New()
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", p.Name())
	}
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	p := New()
	doc := &domain.Document{Source: "empty.txt", Content: ""}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestProcessor_Process_CarriesSource(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(2))
	doc := &domain.Document{Source: "algo.pdf", Content: strings.Repeat("abcdefghij", 5)}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, c := range chunks {
		if c.Source != "algo.pdf" {
			t.Errorf("chunk %d: expected source algo.pdf, got %q", i, c.Source)
		}
		if c.Position != i {
			t.Errorf("chunk %d: expected position %d, got %d", i, i, c.Position)
		}
	}
}

func TestProcessor_Process_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Process(ctx, &domain.Document{Content: "text"}, nil)
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestSplit_SingleWindow(t *testing.T) {
	chunks := Split("  hello world  ", "a.txt", 800, 200)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "hello world" {
		t.Errorf("expected trimmed text, got %q", chunks[0].Text)
	}
}

func TestSplit_Windows(t *testing.T) {
	// 20 characters, windows of 8 with overlap 3: [0,8) [5,13) [10,18) [15,20)
	text := "abcdefghijklmnopqrst"
	chunks := Split(text, "s", 8, 3)

	want := []string{"abcdefgh", "fghijklm", "klmnopqr", "pqrst"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		if chunks[i].Text != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, chunks[i].Text)
		}
	}
}

func TestSplit_NewlinesBecomeSpaces(t *testing.T) {
	chunks := Split("line one\r\nline two\nline three", "s", 800, 200)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if strings.ContainsAny(chunks[0].Text, "\r\n") {
		t.Errorf("chunk contains line breaks: %q", chunks[0].Text)
	}
	if chunks[0].Text != "line one  line two line three" {
		t.Errorf("unexpected text %q", chunks[0].Text)
	}
}

func TestSplit_DropsBlankWindows(t *testing.T) {
	text := "abc" + strings.Repeat(" ", 30) + "xyz"
	chunks := Split(text, "s", 10, 2)

	for i, c := range chunks {
		if strings.TrimSpace(c.Text) == "" {
			t.Errorf("chunk %d is blank", i)
		}
		if c.Position != i {
			t.Errorf("chunk %d has position %d", i, c.Position)
		}
	}
	if chunks[0].Text != "abc" || chunks[len(chunks)-1].Text != "xyz" {
		t.Errorf("unexpected chunks %+v", chunks)
	}
}

func TestSplit_WhitespaceOnly(t *testing.T) {
	if chunks := Split(" \n\r\t ", "s", 800, 200); len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}

func TestSplit_CountsRunes(t *testing.T) {
	text := strings.Repeat("é", 25)
	chunks := Split(text, "s", 10, 0)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c.Text) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}
	if utf8.RuneCountInString(chunks[0].Text) != 10 {
		t.Errorf("expected 10 runes, got %d", utf8.RuneCountInString(chunks[0].Text))
	}
}

func TestSplit_DegenerateOverlapTerminates(t *testing.T) {
	text := strings.Repeat("x", 100)
	chunks := Split(text, "s", 10, 10)

	// overlap clamps to 2, so windows start at 0, 8, ..., 96
	if len(chunks) != 13 {
		t.Errorf("expected 13 chunks, got %d", len(chunks))
	}
}

// TestSplit_Properties checks that for text without surrounding whitespace
// every chunk is bounded and consecutive windows cover the text.
func TestSplit_Properties(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 500; i++ {
		b.WriteByte(byte('a' + i%26))
	}
	text := b.String()

	for _, tc := range []struct{ size, overlap int }{
		{800, 200}, {50, 10}, {7, 3}, {13, 0}, {100, 99},
	} {
		chunks := Split(text, "s", tc.size, tc.overlap)
		_, overlap := normalise(tc.size, tc.overlap)

		rebuilt := chunks[0].Text
		for i, c := range chunks {
			if len(c.Text) > tc.size {
				t.Errorf("size=%d: chunk %d has %d chars", tc.size, i, len(c.Text))
			}
			if c.Text == "" {
				t.Errorf("size=%d: chunk %d empty", tc.size, i)
			}
			if i > 0 {
				rebuilt += c.Text[overlap:]
			}
		}
		if rebuilt != text {
			t.Errorf("size=%d overlap=%d: chunks do not cover text", tc.size, tc.overlap)
		}
	}
}
