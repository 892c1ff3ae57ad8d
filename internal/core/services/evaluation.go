package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driven"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/ports/driving"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/logger"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/vecmath"
)

// Ensure EvaluationService implements the interface.
var _ driving.EvaluationService = (*EvaluationService)(nil)

// minConceptRunes is the length a token must exceed to count as a concept.
const minConceptRunes = 4

var conceptPunctuation = strings.NewReplacer(",", " ", ".", " ", "(", " ", ")", " ")

// EvaluationService scores how well retrieval covers a reference answer.
//
// Concepts are the long words of a text, collapsed by embedding similarity.
// Retrieved concepts come from the top results and their hard negatives;
// precision and recall compare them with the reference answer's concepts.
type EvaluationService struct {
	retrieval driving.RetrievalService
	embedder  driven.EmbeddingService
}

// NewEvaluationService creates an evaluation service. The embedder is used
// for concept extraction and should be the one the index was built with.
func NewEvaluationService(retrieval driving.RetrievalService, embedder driven.EmbeddingService) *EvaluationService {
	return &EvaluationService{retrieval: retrieval, embedder: embedder}
}

// Evaluate retrieves context for query and scores it against reference.
func (s *EvaluationService) Evaluate(ctx context.Context, query, reference string) (*domain.Evaluation, error) {
	logger.Section("Retrieval Evaluation")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(reference) == "" {
		return nil, fmt.Errorf("reference answer is required: %w", domain.ErrInvalidInput)
	}

	positives, err := s.retrieval.Search(ctx, query, domain.EvaluationPositives)
	if err != nil {
		return nil, fmt.Errorf("retrieve positives: %w", err)
	}

	negatives, err := s.hardNegatives(ctx, positives)
	if err != nil {
		return nil, err
	}

	retrieved := make(map[string]struct{})
	for _, c := range append(append([]domain.RankedChunk{}, positives.Chunks...), negatives...) {
		concepts, err := s.concepts(ctx, c.Text)
		if err != nil {
			return nil, err
		}
		for _, concept := range concepts {
			retrieved[concept] = struct{}{}
		}
	}

	referenceConcepts, err := s.concepts(ctx, reference)
	if err != nil {
		return nil, err
	}

	truePositives := 0
	for _, concept := range referenceConcepts {
		if _, ok := retrieved[concept]; ok {
			truePositives++
		}
	}

	eval := &domain.Evaluation{
		Query:             query,
		Positives:         positives.Chunks,
		HardNegatives:     negatives,
		ReferenceConcepts: referenceConcepts,
		RetrievedConcepts: sortedKeys(retrieved),
		Metrics:           domain.NewRetrievalMetrics(truePositives, len(retrieved), len(referenceConcepts)),
	}

	logger.Debug("Evaluation %q: %d positives, %d hard negatives, %d/%d concepts matched",
		query, len(eval.Positives), len(eval.HardNegatives), truePositives, len(referenceConcepts))
	return eval, nil
}

// hardNegatives returns the chunks nearest to the joined positive text that
// are not positives themselves, as many as there are positives.
func (s *EvaluationService) hardNegatives(ctx context.Context, positives *domain.Retrieval) ([]domain.RankedChunk, error) {
	negatives := []domain.RankedChunk{}
	n := positives.Len()
	if n == 0 {
		return negatives, nil
	}

	joined := strings.Join(positives.Texts(), " ")
	near, err := s.retrieval.Search(ctx, joined, 2*n)
	if err != nil {
		return nil, fmt.Errorf("retrieve hard negatives: %w", err)
	}

	exclude := make(map[int]struct{}, n)
	for _, id := range positives.IDs() {
		exclude[id] = struct{}{}
	}
	for _, c := range near.Chunks {
		if _, ok := exclude[c.ID]; ok {
			continue
		}
		negatives = append(negatives, c)
		if len(negatives) == n {
			break
		}
	}
	return negatives, nil
}

// concepts extracts the distinct concepts of text, sorted. A token becomes
// a concept when it is not too similar to any concept kept before it.
func (s *EvaluationService) concepts(ctx context.Context, text string) ([]string, error) {
	var tokens []string
	for _, t := range strings.Fields(conceptPunctuation.Replace(strings.ToLower(text))) {
		if utf8.RuneCountInString(t) > minConceptRunes {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return []string{}, nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("embed concepts: %w", err)
	}
	if len(vectors) != len(tokens) {
		return nil, fmt.Errorf("embed concepts: got %d vectors for %d tokens", len(vectors), len(tokens))
	}

	kept := make(map[string]struct{})
	var keptVecs [][]float32
	for i, token := range tokens {
		vec := vecmath.Normalize(vectors[i])
		distinct := true
		for _, k := range keptVecs {
			if vecmath.Dot(vec, k) >= domain.ConceptSimilarityThreshold {
				distinct = false
				break
			}
		}
		if distinct {
			kept[token] = struct{}{}
			keptVecs = append(keptVecs, vec)
		}
	}
	return sortedKeys(kept), nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
