package normalisers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/normalisers/html"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/normalisers/markdown"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/normalisers/pdf"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to the highest-priority normaliser
// registered for their MIME type.
type Registry struct {
	mu     sync.RWMutex
	byType map[string][]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string][]driven.Normaliser)}
}

// DefaultRegistry returns a registry with every built-in normaliser.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(plaintext.New())
	return r
}

// Register adds a normaliser for each of its MIME types. Normalisers with
// equal priority keep registration order.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mt := range n.SupportedMIMETypes() {
		mt = baseMIMEType(mt)
		list := append(r.byType[mt], n)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.byType[mt] = list
	}
}

// Normalise transforms raw with the best matching normaliser.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	candidates := r.byType[baseMIMEType(raw.MIMEType)]
	r.mu.RUnlock()

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%s (%s): %w", raw.Source, raw.MIMEType, domain.ErrUnsupportedType)
	}
	return candidates[0].Normalise(ctx, raw)
}

// SupportedMIMETypes returns all registered MIME types, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byType))
	for mt := range r.byType {
		types = append(types, mt)
	}
	sort.Strings(types)
	return types
}

// baseMIMEType strips parameters such as "; charset=utf-8".
func baseMIMEType(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
