package domain

// Interview defaults.
const (
	// InterviewChunkCount is the number of chunks used to seed a question.
	InterviewChunkCount = 12

	// AnswerChunkCount is the number of chunks used to evaluate an answer.
	AnswerChunkCount = 8

	// DefaultInterviewTopic is used when no topic is given.
	DefaultInterviewTopic = "data structures"

	// RandomTopic labels contexts built from a random sample.
	RandomTopic = "random"
)

// InterviewContext is the material handed to question generation or
// answer evaluation: the joined chunk text and its global sources.
type InterviewContext struct {
	// Topic is the requested topic, or RandomTopic.
	Topic string `json:"topic"`

	// Text is the chunk texts joined by blank lines.
	Text string `json:"context"`

	// Sources are the sorted unique sources of the chunks.
	Sources []string `json:"sources"`

	// Chunks are the underlying chunks.
	Chunks []RankedChunk `json:"chunks"`
}

// NewInterviewContext builds a context from a retrieval.
func NewInterviewContext(topic string, r *Retrieval) *InterviewContext {
	ic := &InterviewContext{
		Topic:   topic,
		Text:    r.ContextText(),
		Sources: r.Sources(),
		Chunks:  []RankedChunk{},
	}
	if r != nil && r.Chunks != nil {
		ic.Chunks = r.Chunks
	}
	return ic
}

// IsEmpty reports whether the context has no chunks.
func (c *InterviewContext) IsEmpty() bool {
	return c == nil || len(c.Chunks) == 0
}
