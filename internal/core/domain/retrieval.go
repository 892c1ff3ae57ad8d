package domain

import (
	"sort"
	"strings"
)

// RetrievalMode describes how a retrieval selected its chunks.
type RetrievalMode string

// Retrieval modes.
const (
	// RetrievalModeSearch ranks chunks by similarity to a query.
	RetrievalModeSearch RetrievalMode = "search"

	// RetrievalModeRandom samples chunks uniformly without replacement.
	RetrievalModeRandom RetrievalMode = "random"
)

// String returns the string representation.
func (m RetrievalMode) String() string {
	return string(m)
}

// RankedChunk is a chunk with its similarity to the query.
// Similarity is zero for sampled chunks.
type RankedChunk struct {
	Chunk
	Similarity float64 `json:"similarity"`
}

// Retrieval is the result of a search or sample. Texts always travel
// with their sources.
type Retrieval struct {
	// Mode is how the chunks were selected.
	Mode RetrievalMode `json:"mode"`

	// Query is the search text; empty for random samples.
	Query string `json:"query,omitempty"`

	// Chunks are ordered by descending similarity for searches and in
	// selection order for samples.
	Chunks []RankedChunk `json:"chunks"`
}

// Len returns the number of chunks.
func (r *Retrieval) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Chunks)
}

// Texts returns the chunk texts in result order.
func (r *Retrieval) Texts() []string {
	if r == nil {
		return nil
	}
	texts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		texts[i] = c.Text
	}
	return texts
}

// ContextText joins the chunk texts with a blank line between them.
func (r *Retrieval) ContextText() string {
	return strings.Join(r.Texts(), "\n\n")
}

// Sources returns the sorted, de-duplicated sources of the chunks.
func (r *Retrieval) Sources() []string {
	if r == nil {
		return []string{}
	}
	seen := make(map[string]struct{}, len(r.Chunks))
	sources := make([]string, 0, len(r.Chunks))
	for _, c := range r.Chunks {
		if _, ok := seen[c.Source]; ok {
			continue
		}
		seen[c.Source] = struct{}{}
		sources = append(sources, c.Source)
	}
	sort.Strings(sources)
	return sources
}

// IDs returns the chunk ids in result order.
func (r *Retrieval) IDs() []int {
	if r == nil {
		return nil
	}
	ids := make([]int, len(r.Chunks))
	for i, c := range r.Chunks {
		ids[i] = c.ID
	}
	return ids
}
