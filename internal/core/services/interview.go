package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driving"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/logger"
)

// Ensure InterviewService implements the interface.
var _ driving.InterviewService = (*InterviewService)(nil)

// InterviewService assembles textbook context for question generation and
// answer evaluation.
type InterviewService struct {
	retrieval driving.RetrievalService
}

// NewInterviewService creates an interview service.
func NewInterviewService(retrieval driving.RetrievalService) *InterviewService {
	return &InterviewService{retrieval: retrieval}
}

// QuestionContext returns the context a question is generated from. With
// random set the topic is ignored and chunks are sampled from the whole
// corpus.
func (s *InterviewService) QuestionContext(ctx context.Context, topic string, random bool) (*domain.InterviewContext, error) {
	var (
		r   *domain.Retrieval
		err error
	)
	if random {
		topic = domain.RandomTopic
		r, err = s.retrieval.SampleRandom(ctx, domain.InterviewChunkCount)
	} else {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			topic = domain.DefaultInterviewTopic
		}
		r, err = s.retrieval.Search(ctx, topic, domain.InterviewChunkCount)
	}
	if err != nil {
		return nil, fmt.Errorf("question context for %q: %w", topic, err)
	}
	if r.Len() == 0 {
		return nil, fmt.Errorf("topic %q: %w", topic, domain.ErrNoContext)
	}

	ic := domain.NewInterviewContext(topic, r)
	logger.Debug("Question context %q: %d chunks from %d sources", topic, len(ic.Chunks), len(ic.Sources))
	return ic, nil
}

// AnswerContext returns the context a candidate's answer is judged
// against. The result may hold no chunks.
func (s *InterviewService) AnswerContext(ctx context.Context, question string) (*domain.InterviewContext, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is required: %w", domain.ErrInvalidInput)
	}

	r, err := s.retrieval.Search(ctx, question, domain.AnswerChunkCount)
	if err != nil {
		return nil, fmt.Errorf("answer context: %w", err)
	}
	return domain.NewInterviewContext(question, r), nil
}
