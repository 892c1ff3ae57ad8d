package domain

import "math"

// ConceptSimilarityThreshold is the cosine similarity above which two
// concepts are treated as the same.
const ConceptSimilarityThreshold = 0.70

// EvaluationPositives is the number of retrieved chunks scored as positives.
const EvaluationPositives = 5

// RetrievalMetrics scores retrieved context against a reference answer.
type RetrievalMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// NewRetrievalMetrics computes precision, recall and F1 from match counts,
// rounded to three decimals. Zero denominators yield zero.
func NewRetrievalMetrics(truePositives, retrieved, relevant int) RetrievalMetrics {
	var m RetrievalMetrics
	if retrieved > 0 {
		m.Precision = float64(truePositives) / float64(retrieved)
	}
	if relevant > 0 {
		m.Recall = float64(truePositives) / float64(relevant)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	m.Precision = Round3(m.Precision)
	m.Recall = Round3(m.Recall)
	m.F1 = Round3(m.F1)
	return m
}

// Round3 rounds to three decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Evaluation is the full result of scoring one query.
type Evaluation struct {
	// Query is the evaluated question.
	Query string `json:"query"`

	// Positives are the retrieved chunks.
	Positives []RankedChunk `json:"positives"`

	// HardNegatives are chunks close to the positives but not retrieved.
	HardNegatives []RankedChunk `json:"hard_negatives"`

	// ReferenceConcepts are the distinct concepts of the reference answer.
	ReferenceConcepts []string `json:"reference_concepts"`

	// RetrievedConcepts are the distinct concepts of the positives.
	RetrievedConcepts []string `json:"retrieved_concepts"`

	// Metrics are the scores.
	Metrics RetrievalMetrics `json:"metrics"`
}
