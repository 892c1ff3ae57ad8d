package domain

// RawDocument represents opaque bytes read from the corpus.
// It is the corpus loader's output before normalisation.
type RawDocument struct {
	// Source is the document identifier carried onto every chunk.
	Source string

	// URI is the original location (file path).
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains loader-specific key-value pairs.
	Metadata map[string]any
}

// BuildStage names the step of an index build that produced a skip.
type BuildStage string

// Build stages.
const (
	StageLoad      BuildStage = "load"
	StageNormalise BuildStage = "normalise"
	StageChunk     BuildStage = "chunk"
	StageEmbed     BuildStage = "embed"
)

// SkippedItem records input that an index build left out.
// Build failures are isolated per item and never abort the batch.
type SkippedItem struct {
	// Source is the document the item belongs to.
	Source string

	// Stage is where the failure happened.
	Stage BuildStage

	// Reason is the error text.
	Reason string
}

// BuildProgress reports how far a build stage has advanced.
type BuildProgress struct {
	Stage BuildStage
	Done  int
	Total int
}
