// Package filesystem loads the book corpus from a local directory tree.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.CorpusLoader = (*Loader)(nil)

// SupportedExtensions lists the file extensions read by default.
var SupportedExtensions = []string{".pdf", ".txt", ".md", ".markdown", ".html", ".htm"}

// fallbackMIMETypes covers extensions the platform MIME table often lacks
// or reports inconsistently.
var fallbackMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".pdf":      "application/pdf",
	".html":     "text/html",
	".htm":      "text/html",
	".rst":      "text/x-rst",
	".csv":      "text/csv",
}

// Loader reads every supported file below a root directory.
type Loader struct {
	root       string
	extensions map[string]bool
	maxBytes   int64
}

// Option configures a Loader.
type Option func(*Loader)

// WithExtensions replaces the accepted file extensions.
func WithExtensions(exts ...string) Option {
	return func(l *Loader) {
		l.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(ext)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			l.extensions[ext] = true
		}
	}
}

// WithMaxFileSize skips files larger than n bytes. Zero disables the limit.
func WithMaxFileSize(n int64) Option {
	return func(l *Loader) {
		l.maxBytes = n
	}
}

// New creates a loader rooted at root.
func New(root string, opts ...Option) *Loader {
	l := &Loader{root: root}
	WithExtensions(SupportedExtensions...)(l)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Root returns the directory the loader reads from.
func (l *Loader) Root() string {
	return l.root
}

// Load walks the root in lexical order and returns one raw document per
// supported file. Files that cannot be read are reported as skipped.
func (l *Loader) Load(ctx context.Context) ([]domain.RawDocument, []domain.SkippedItem, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("books directory %s: %w", l.root, domain.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("stat books directory: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("books path %s is not a directory: %w", l.root, domain.ErrInvalidInput)
	}

	var (
		docs    []domain.RawDocument
		skipped []domain.SkippedItem
	)

	walkErr := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel := relativeSource(l.root, path)
		if err != nil {
			if path == l.root {
				return err
			}
			skipped = append(skipped, loadSkip(rel, err.Error()))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if path != l.root && isHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !l.extensions[ext] {
			logger.Debug("skipping unsupported file %s", rel)
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			skipped = append(skipped, loadSkip(rel, err.Error()))
			return nil
		}
		if l.maxBytes > 0 && fi.Size() > l.maxBytes {
			skipped = append(skipped, loadSkip(rel, fmt.Sprintf("file too large (%d bytes)", fi.Size())))
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("could not read %s: %v", rel, err)
			skipped = append(skipped, loadSkip(rel, err.Error()))
			return nil
		}

		docs = append(docs, domain.RawDocument{
			Source:   rel,
			URI:      path,
			MIMEType: detectMIMEType(path),
			Content:  content,
			Metadata: map[string]any{
				"size":     fi.Size(),
				"modified": fi.ModTime(),
			},
		})
		return nil
	})
	if walkErr != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", l.root, walkErr)
	}

	logger.Debug("loaded %d files from %s (%d skipped)", len(docs), l.root, len(skipped))
	return docs, skipped, nil
}

// relativeSource names a file by its slash-separated path below root,
// so top-level books are identified by their base name.
func relativeSource(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

func loadSkip(source, reason string) domain.SkippedItem {
	return domain.SkippedItem{Source: source, Stage: domain.StageLoad, Reason: reason}
}

// detectMIMEType returns the MIME type for a file name without parameters.
func detectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "text/plain"
	}
	if mt, ok := fallbackMIMETypes[ext]; ok {
		return mt
	}
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		return "application/octet-stream"
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
