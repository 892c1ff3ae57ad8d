package mcp

import (
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval provides search and random sampling.
	Retrieval driving.RetrievalService

	// Interview builds question and answer context.
	Interview driving.InterviewService

	// Evaluation scores retrieval against a reference answer.
	Evaluation driving.EvaluationService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// Interview and Evaluation are optional; their tools are not registered without them.
	return nil
}
