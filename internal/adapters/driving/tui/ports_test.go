package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driving"
)

// MockRetrievalService is a scripted driving.RetrievalService.
type MockRetrievalService struct {
	Queries  []string
	Samples  []int
	Manifest domain.IndexManifest
	Err      error
}

var _ driving.RetrievalService = (*MockRetrievalService)(nil)

func (m *MockRetrievalService) Search(_ context.Context, query string, _ int) (*domain.Retrieval, error) {
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.Retrieval{
		Mode:  domain.RetrievalModeSearch,
		Query: query,
		Chunks: []domain.RankedChunk{
			{Chunk: domain.Chunk{ID: 0, Text: "Quicksort partitions around a pivot.", Source: "sorting.pdf", Position: 1}, Similarity: 0.9},
		},
	}, nil
}

func (m *MockRetrievalService) SampleRandom(_ context.Context, n int) (*domain.Retrieval, error) {
	m.Samples = append(m.Samples, n)
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.Retrieval{
		Mode:   domain.RetrievalModeRandom,
		Chunks: []domain.RankedChunk{{Chunk: domain.Chunk{ID: 3, Text: "Tries store prefixes.", Source: "strings.md"}}},
	}, nil
}

func (m *MockRetrievalService) Info(context.Context) (*domain.IndexManifest, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	cp := m.Manifest
	return &cp, nil
}

func (m *MockRetrievalService) Reload(context.Context) error { return m.Err }

func TestPorts_Validate(t *testing.T) {
	assert.NoError(t, NewPorts(&MockRetrievalService{}).Validate())
	assert.ErrorIs(t, NewPorts(nil).Validate(), ErrMissingRetrievalService)

	var p *Ports
	assert.ErrorIs(t, p.Validate(), ErrInvalidPorts)
}

func TestErrors_Distinct(t *testing.T) {
	assert.NotEqual(t, ErrMissingRetrievalService.Error(), ErrInvalidPorts.Error())
	assert.Contains(t, ErrMissingRetrievalService.Error(), "retrieval service")
}
