package domain

// Document is the normalised text of one source document.
// It is the input to the chunker.
type Document struct {
	// Source identifies the originating document (the file base name).
	Source string

	// URI is the original location on disk.
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full text after normalisation.
	Content string

	// Metadata contains format-specific key-value pairs.
	Metadata map[string]any
}

// Chunk is the unit of retrieval: a bounded span of a document tagged
// with its origin.
type Chunk struct {
	// ID is the row of this chunk in the vector index.
	// Chunks of a built index satisfy chunks[i].ID == i.
	ID int `json:"id"`

	// Text is the chunk content, single-line and trimmed.
	Text string `json:"text"`

	// Source identifies the originating document.
	Source string `json:"source"`

	// Position is the ordinal of the chunk within its document.
	Position int `json:"position"`
}
