package mcp

import (
	"context"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	result    *domain.Retrieval
	manifest  *domain.IndexManifest
	err       error
	lastQuery string
	lastLimit int
	lastCount int
}

func (m *mockRetrievalService) Search(_ context.Context, query string, topK int) (*domain.Retrieval, error) {
	m.lastQuery = query
	m.lastLimit = topK
	return m.result, m.err
}

func (m *mockRetrievalService) SampleRandom(_ context.Context, n int) (*domain.Retrieval, error) {
	m.lastCount = n
	return m.result, m.err
}

func (m *mockRetrievalService) Info(_ context.Context) (*domain.IndexManifest, error) {
	return m.manifest, m.err
}

func (m *mockRetrievalService) Reload(_ context.Context) error {
	return m.err
}

// mockInterviewService is a mock implementation of driving.InterviewService.
type mockInterviewService struct {
	context      *domain.InterviewContext
	err          error
	lastTopic    string
	lastRandom   bool
	lastQuestion string
}

func (m *mockInterviewService) QuestionContext(_ context.Context, topic string, random bool) (*domain.InterviewContext, error) {
	m.lastTopic = topic
	m.lastRandom = random
	return m.context, m.err
}

func (m *mockInterviewService) AnswerContext(_ context.Context, question string) (*domain.InterviewContext, error) {
	m.lastQuestion = question
	return m.context, m.err
}

// mockEvaluationService is a mock implementation of driving.EvaluationService.
type mockEvaluationService struct {
	evaluation *domain.Evaluation
	err        error
}

func (m *mockEvaluationService) Evaluate(_ context.Context, _, _ string) (*domain.Evaluation, error) {
	return m.evaluation, m.err
}

func sampleRetrieval() *domain.Retrieval {
	return &domain.Retrieval{
		Mode:  domain.RetrievalModeSearch,
		Query: "binary search",
		Chunks: []domain.RankedChunk{
			{Chunk: domain.Chunk{ID: 4, Text: "Binary search halves the interval.", Source: "algorithms.pdf", Position: 2}, Similarity: 0.91},
			{Chunk: domain.Chunk{ID: 9, Text: "Sorted arrays allow binary search.", Source: "arrays.pdf", Position: 0}, Similarity: 0.52},
		},
	}
}
