package driving

import (
	"context"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// InterviewService assembles textbook context for the interview loop.
type InterviewService interface {
	// QuestionContext returns context to generate a question from.
	// With random set, chunks are sampled; otherwise they are searched by
	// topic, defaulting to domain.DefaultInterviewTopic.
	QuestionContext(ctx context.Context, topic string, random bool) (*domain.InterviewContext, error)

	// AnswerContext returns context to evaluate an answer to question against.
	AnswerContext(ctx context.Context, question string) (*domain.InterviewContext, error)
}

// EvaluationService scores retrieval quality against a reference answer.
type EvaluationService interface {
	// Evaluate retrieves context for query and compares its concepts with
	// those of reference.
	Evaluate(ctx context.Context, query, reference string) (*domain.Evaluation, error)
}
