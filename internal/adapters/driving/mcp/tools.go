package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question or topic to find textbook passages for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default 8)"`
}

// SampleInput is the input schema for the sample_random tool.
type SampleInput struct {
	Count int `json:"count,omitempty" jsonschema:"number of passages to sample (default 8)"`
}

// RetrievalOutput is the output schema for the search and sample_random tools.
type RetrievalOutput struct {
	Chunks  []ChunkOutput `json:"chunks"`
	Sources []string      `json:"sources"`
	Count   int           `json:"count"`
}

// ChunkOutput represents a single retrieved passage.
type ChunkOutput struct {
	ID         int     `json:"id"`
	Source     string  `json:"source"`
	Position   int     `json:"position"`
	Similarity float64 `json:"similarity,omitempty"`
	Text       string  `json:"text"`
}

// ContextInput is the input schema for the interview_context tool.
type ContextInput struct {
	Topic    string `json:"topic,omitempty" jsonschema:"interview topic (default data structures)"`
	Random   bool   `json:"random,omitempty" jsonschema:"sample passages from the whole corpus instead of searching"`
	Question string `json:"question,omitempty" jsonschema:"when set, return context for judging an answer to this question"`
}

// ContextOutput is the output schema for the interview_context tool.
type ContextOutput struct {
	Topic   string   `json:"topic"`
	Context string   `json:"context"`
	Sources []string `json:"sources"`
	Count   int      `json:"count"`
}

// EvaluateInput is the input schema for the evaluate_retrieval tool.
type EvaluateInput struct {
	Query     string `json:"query" jsonschema:"the interview question"`
	Reference string `json:"reference" jsonschema:"a reference answer to score the retrieved passages against"`
}

// EvaluateOutput is the output schema for the evaluate_retrieval tool.
type EvaluateOutput struct {
	Precision         float64  `json:"precision"`
	Recall            float64  `json:"recall"`
	F1                float64  `json:"f1"`
	ReferenceConcepts []string `json:"reference_concepts"`
	RetrievedConcepts []string `json:"retrieved_concepts"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find the textbook passages most relevant to a question or topic",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sample_random",
		Description: "Sample textbook passages uniformly at random, for open-ended questions",
	}, s.handleSample)

	if s.ports.Interview != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "interview_context",
			Description: "Build the context for generating an interview question or judging an answer",
		}, s.handleInterviewContext)
	}

	if s.ports.Evaluation != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "evaluate_retrieval",
			Description: "Score retrieved passages against a reference answer (precision, recall, F1)",
		}, s.handleEvaluate)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, RetrievalOutput, error) {
	result, err := s.ports.Retrieval.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, RetrievalOutput{}, err
	}
	return nil, retrievalOutput(result), nil
}

// handleSample handles the sample_random tool invocation.
func (s *Server) handleSample(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SampleInput,
) (*mcp.CallToolResult, RetrievalOutput, error) {
	result, err := s.ports.Retrieval.SampleRandom(ctx, input.Count)
	if err != nil {
		return nil, RetrievalOutput{}, err
	}
	return nil, retrievalOutput(result), nil
}

// handleInterviewContext handles the interview_context tool invocation.
func (s *Server) handleInterviewContext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ContextInput,
) (*mcp.CallToolResult, ContextOutput, error) {
	var (
		ic  *domain.InterviewContext
		err error
	)
	if strings.TrimSpace(input.Question) != "" {
		ic, err = s.ports.Interview.AnswerContext(ctx, input.Question)
	} else {
		ic, err = s.ports.Interview.QuestionContext(ctx, input.Topic, input.Random)
	}
	if err != nil {
		return nil, ContextOutput{}, err
	}

	return nil, contextOutput(ic), nil
}

// contextOutput converts an interview context, keeping sources a JSON array.
func contextOutput(ic *domain.InterviewContext) ContextOutput {
	sources := ic.Sources
	if sources == nil {
		sources = []string{}
	}
	return ContextOutput{
		Topic:   ic.Topic,
		Context: ic.Text,
		Sources: sources,
		Count:   len(ic.Chunks),
	}
}

// handleEvaluate handles the evaluate_retrieval tool invocation.
func (s *Server) handleEvaluate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EvaluateInput,
) (*mcp.CallToolResult, EvaluateOutput, error) {
	eval, err := s.ports.Evaluation.Evaluate(ctx, input.Query, input.Reference)
	if err != nil {
		return nil, EvaluateOutput{}, err
	}

	return nil, EvaluateOutput{
		Precision:         eval.Metrics.Precision,
		Recall:            eval.Metrics.Recall,
		F1:                eval.Metrics.F1,
		ReferenceConcepts: eval.ReferenceConcepts,
		RetrievedConcepts: eval.RetrievedConcepts,
	}, nil
}

func retrievalOutput(r *domain.Retrieval) RetrievalOutput {
	output := RetrievalOutput{
		Chunks:  make([]ChunkOutput, r.Len()),
		Sources: r.Sources(),
		Count:   r.Len(),
	}
	for i := range output.Chunks {
		c := r.Chunks[i]
		output.Chunks[i] = ChunkOutput{
			ID:         c.ID,
			Source:     c.Source,
			Position:   c.Position,
			Similarity: c.Similarity,
			Text:       c.Text,
		}
	}
	return output
}
