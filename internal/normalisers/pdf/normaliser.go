// Package pdf provides a Normaliser that extracts text from PDF books
// page by page using github.com/ledongthuc/pdf.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/logger"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/normalisers/docutil"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// ErrNoText indicates that no page of the document yielded any text,
// typically a scanned book without a text layer.
var ErrNoText = errors.New("pdf contains no extractable text")

// PageSource exposes the pages of an opened PDF.
type PageSource interface {
	// NumPage returns the number of pages.
	NumPage() int

	// PageText returns the plain text of page i, counting from 1.
	PageText(i int) (string, error)
}

// OpenFunc opens PDF bytes as a page source.
type OpenFunc func(data []byte) (PageSource, error)

// Normaliser handles PDF documents.
type Normaliser struct {
	open OpenFunc
}

// Option configures the normaliser.
type Option func(*Normaliser)

// WithOpener replaces the PDF parser. Used by tests.
func WithOpener(open OpenFunc) Option {
	return func(n *Normaliser) {
		n.open = open
	}
}

// New creates a new PDF normaliser.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{open: openPDF}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts the text of every readable page, joined by newlines.
// Pages that fail to parse are skipped and reported in the result.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	src, total, err := openSource(n.open, raw.Content)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", raw.Source, err)
	}

	pages := make([]string, 0, total)
	var skipped []domain.SkippedItem

	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := pageText(src, i)
		if err != nil {
			logger.Warn("error reading page %d in %s: %v", i, raw.Source, err)
			skipped = append(skipped, domain.SkippedItem{
				Source: raw.Source,
				Stage:  domain.StageNormalise,
				Reason: fmt.Sprintf("page %d: %v", i, err),
			})
			continue
		}
		pages = append(pages, text)
	}

	content := strings.Join(pages, "\n")
	if strings.TrimSpace(content) == "" && total > 0 {
		return nil, fmt.Errorf("%s: %w", raw.Source, ErrNoText)
	}

	title := docutil.FirstLine(content)
	if title == "" {
		title = docutil.TitleFromURI(raw.URI)
	}

	doc := docutil.NewDocument(raw, title, content, "pdf")
	doc.Metadata["pages"] = total
	doc.Metadata["pages_skipped"] = len(skipped)

	return &driven.NormaliseResult{
		Document: doc,
		Skipped:  skipped,
	}, nil
}

// openSource opens the document and counts its pages. The parser panics on
// many malformed files (a bad xref offset, a truncated trailer); those
// panics become errors so the caller can skip the book.
func openSource(open OpenFunc, data []byte) (src PageSource, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			src, pages, err = nil, 0, fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	src, err = open(data)
	if err != nil {
		return nil, 0, err
	}
	return src, src.NumPage(), nil
}

// pageText reads one page, turning parser panics on malformed content
// streams into errors.
func pageText(src PageSource, i int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page: %v", r)
		}
	}()
	return src.PageText(i)
}

// ledongthucSource adapts *pdf.Reader to PageSource.
type ledongthucSource struct {
	r *pdf.Reader
}

func openPDF(data []byte) (PageSource, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &ledongthucSource{r: r}, nil
}

func (s *ledongthucSource) NumPage() int {
	return s.r.NumPage()
}

func (s *ledongthucSource) PageText(i int) (string, error) {
	p := s.r.Page(i)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
