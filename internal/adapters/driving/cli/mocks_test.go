package cli

import (
	"context"
	"time"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driving"
)

var (
	_ driving.SettingsService   = (*mockSettings)(nil)
	_ driving.IndexService      = (*mockIndex)(nil)
	_ driving.RetrievalService  = (*mockRetrieval)(nil)
	_ driving.InterviewService  = (*mockInterview)(nil)
	_ driving.EvaluationService = (*mockEvaluation)(nil)
)

type mockSettings struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error
	pings       int
}

func newMockSettings() *mockSettings {
	return &mockSettings{settings: domain.DefaultAppSettings()}
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettings) SetEmbeddingProvider(p domain.AIProvider, model, apiKey string) error {
	if !p.IsValid() {
		return domain.ErrInvalidInput
	}
	if model == "" {
		model = domain.DefaultEmbeddingModels()[p]
	}
	m.settings.Embedding.Provider = p
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return nil
}

func (m *mockSettings) Validate() error                         { return m.validateErr }
func (m *mockSettings) GetDefaults() domain.AppSettings         { return domain.DefaultAppSettings() }
func (m *mockSettings) GetPipelineConfig() domain.PipelineConfig { return domain.DefaultPipelineConfig() }

func (m *mockSettings) ValidateEmbeddingConfig() error {
	m.pings++
	return m.pingErr
}

type mockIndex struct {
	report *domain.BuildReport
	err    error
	builds int
}

func (m *mockIndex) Build(context.Context) (*domain.BuildReport, error) {
	m.builds++
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

type mockRetrieval struct {
	queries  []string
	topKs    []int
	samples  []int
	manifest domain.IndexManifest
	err      error
	empty    bool
}

func (m *mockRetrieval) Search(_ context.Context, query string, topK int) (*domain.Retrieval, error) {
	m.queries = append(m.queries, query)
	m.topKs = append(m.topKs, topK)
	if m.err != nil {
		return nil, m.err
	}
	r := &domain.Retrieval{Mode: domain.RetrievalModeSearch, Query: query, Chunks: []domain.RankedChunk{}}
	if !m.empty {
		r.Chunks = testChunks()
	}
	return r, nil
}

func (m *mockRetrieval) SampleRandom(_ context.Context, n int) (*domain.Retrieval, error) {
	m.samples = append(m.samples, n)
	if m.err != nil {
		return nil, m.err
	}
	r := &domain.Retrieval{Mode: domain.RetrievalModeRandom, Chunks: []domain.RankedChunk{}}
	if !m.empty {
		r.Chunks = testChunks()[:1]
		r.Chunks[0].Similarity = 0
	}
	return r, nil
}

func (m *mockRetrieval) Info(context.Context) (*domain.IndexManifest, error) {
	if m.err != nil {
		return nil, m.err
	}
	cp := m.manifest
	return &cp, nil
}

func (m *mockRetrieval) Reload(context.Context) error { return m.err }

type mockInterview struct {
	topics    []string
	randoms   []bool
	questions []string
	err       error
}

func (m *mockInterview) QuestionContext(_ context.Context, topic string, random bool) (*domain.InterviewContext, error) {
	m.topics = append(m.topics, topic)
	m.randoms = append(m.randoms, random)
	if m.err != nil {
		return nil, m.err
	}
	if random {
		topic = domain.RandomTopic
	} else if topic == "" {
		topic = domain.DefaultInterviewTopic
	}
	return domain.NewInterviewContext(topic, &domain.Retrieval{Chunks: testChunks()}), nil
}

func (m *mockInterview) AnswerContext(_ context.Context, question string) (*domain.InterviewContext, error) {
	m.questions = append(m.questions, question)
	if m.err != nil {
		return nil, m.err
	}
	return domain.NewInterviewContext("", &domain.Retrieval{Chunks: testChunks()[1:]}), nil
}

type mockEvaluation struct {
	references []string
	err        error
}

func (m *mockEvaluation) Evaluate(_ context.Context, query, reference string) (*domain.Evaluation, error) {
	m.references = append(m.references, reference)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Evaluation{
		Query:             query,
		Positives:         testChunks(),
		HardNegatives:     []domain.RankedChunk{},
		ReferenceConcepts: []string{"binary", "search"},
		RetrievedConcepts: []string{"binary", "logarithmic", "search"},
		Metrics:           domain.NewRetrievalMetrics(2, 3, 2),
	}, nil
}

func testChunks() []domain.RankedChunk {
	return []domain.RankedChunk{
		{Chunk: domain.Chunk{ID: 4, Text: "Binary search halves the interval.", Source: "algorithms.pdf", Position: 2}, Similarity: 0.912},
		{Chunk: domain.Chunk{ID: 9, Text: "Sorted arrays allow logarithmic lookup.", Source: "arrays.md", Position: 0}, Similarity: 0.744},
	}
}

func testManifest() domain.IndexManifest {
	return domain.IndexManifest{
		Generation: "gen-42",
		Model:      "hashing-fnv1a",
		Dimensions: 384,
		Count:      57,
		ChunkSize:  800,
		Overlap:    200,
		CreatedAt:  time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC),
	}
}
