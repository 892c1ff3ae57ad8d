package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.Implements(t, (*driven.Normaliser)(nil), normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	assert.Contains(t, New().SupportedMIMETypes(), "text/plain")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawDocument{
		Source:   "notes.txt",
		URI:      "/books/os_notes.txt",
		MIMEType: "text/plain",
		Content:  []byte("Paging divides memory into frames.\nTLBs cache translations."),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "notes.txt", doc.Source)
	assert.Equal(t, "os notes", doc.Title)
	assert.Equal(t, string(raw.Content), doc.Content)
	assert.Equal(t, "text/plain", doc.Metadata["mime_type"])
	assert.Empty(t, result.Skipped)
}

func TestNormalise_CleansEncoding(t *testing.T) {
	raw := &domain.RawDocument{
		URI:     "/a.txt",
		Content: append([]byte("\xef\xbb\xbfstack"), 0xff, 'x'),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "stack\uFFFDx", result.Document.Content)
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}
