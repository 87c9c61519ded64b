// Package docmodel contains the document and search-result types shared
// across the embedding, BM25, vector-store and hybrid-search packages.
package docmodel

import "math"

// Document is a unit of text to be indexed: a stable identifier, the
// authoritative content, an optional precomputed embedding, and metadata.
// metadata["content"] is the canonical copy persisted to the vector store so
// search results always carry their text.
type Document struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Embedding []float32         `json:"embedding,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// SearchSource identifies which retrieval branch produced a SearchResult.
type SearchSource string

const (
	SourceVector SearchSource = "vector"
	SourceBM25   SearchSource = "bm25"
	SourceHybrid SearchSource = "hybrid"
)

// SearchResult is one ranked document returned by a search call.
type SearchResult struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Source   SearchSource      `json:"source"`
}

// RankedDocument is a reranker output: the original search result plus its
// zero-based position before and after reranking.
type RankedDocument struct {
	ID           string            `json:"id"`
	Content      string            `json:"content"`
	Score        float32           `json:"score"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	OriginalRank int               `json:"original_rank"`
	NewRank      int               `json:"new_rank"`
}

// RerankCandidate is a reranker input: a document plus its prior score
// (unused by scoring — the reranker orders strictly by cross-encoder score —
// but carried through so callers can compare before/after).
type RerankCandidate struct {
	ID       string
	Content  string
	Score    float32
	Metadata map[string]string
}

// HealthStatus is the aggregate or per-component health reported by
// HealthCheck.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Normalize L2-normalizes v in place. A zero vector is left unchanged.
func Normalize(v []float32) {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
}
