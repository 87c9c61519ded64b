package transport

import (
	"net/http"
	"time"

	"github.com/thebtf/ragd/internal/apierr"
	"github.com/thebtf/ragd/internal/reranking"
	"github.com/thebtf/ragd/internal/search"
)

type rerankDocumentRequest struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type rerankRequest struct {
	Query     string                  `json:"query"`
	Documents []rerankDocumentRequest `json:"documents"`
	TopK      int                     `json:"top_k"`
}

type rerankedDocumentResponse struct {
	ID           string            `json:"id"`
	Content      string            `json:"content"`
	Score        float32           `json:"score"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	OriginalRank int               `json:"original_rank"`
	NewRank      int               `json:"new_rank"`
}

type rerankResponse struct {
	Documents []rerankedDocumentResponse `json:"documents"`
	Model     string                     `json:"model"`
}

func (s *Server) handleRerank(w http.ResponseWriter, r *http.Request) {
	if s.reranker == nil {
		s.writeError(w, apierr.New(apierr.NotInitialized, "reranking service not initialized"))
		return
	}

	var req rerankRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, apierr.Wrap(apierr.InvalidArgument, err, "decode request body"))
		return
	}

	candidates := make([]reranking.Candidate, len(req.Documents))
	for i, d := range req.Documents {
		candidates[i] = reranking.Candidate{ID: d.ID, Content: d.Content, Score: d.Score, Metadata: d.Metadata}
	}

	ranked, err := s.reranker.Rerank(req.Query, candidates, req.TopK)
	if err != nil {
		s.writeError(w, apierr.Wrap(apierr.InferenceError, err, "rerank documents"))
		return
	}

	docs := make([]rerankedDocumentResponse, len(ranked))
	for i, d := range ranked {
		docs[i] = rerankedDocumentResponse{
			ID: d.ID, Content: d.Content, Score: d.Score, Metadata: d.Metadata,
			OriginalRank: d.OriginalRank, NewRank: d.NewRank,
		}
	}

	s.writeJSON(w, http.StatusOK, rerankResponse{Documents: docs, Model: s.reranker.Name()})
}

type searchRequest struct {
	Collection   string            `json:"collection"`
	Query        string            `json:"query"`
	TopK         int               `json:"top_k"`
	UseHybrid    bool              `json:"use_hybrid"`
	VectorWeight *float64          `json:"vector_weight"`
	Filters      map[string]string `json:"filters,omitempty"`
	UseReranking bool              `json:"use_reranking"`
	RerankTopK   int               `json:"rerank_top_k"`
}

type searchResultResponse struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Source   string            `json:"source"`
}

type searchResponse struct {
	Results    []searchResultResponse `json:"results"`
	SearchMode string                 `json:"search_mode"`
	LatencyMs  float64                `json:"latency_ms"`
}

// handleSearch dispatches a hybrid/vector search and, when requested,
// chains the cross-encoder rerank over a wider candidate fetch (spec
// §4.5's "optional rerank chaining", performed by the request layer).
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, apierr.Wrap(apierr.InvalidArgument, err, "decode request body"))
		return
	}
	if req.Collection == "" {
		s.writeError(w, apierr.New(apierr.InvalidArgument, "collection is required"))
		return
	}

	topK := req.TopK
	if topK <= 0 {
		topK = 10
	}

	vectorWeight := 0.7
	if req.VectorWeight != nil {
		vectorWeight = *req.VectorWeight
	}

	mode := search.ModeVector
	modeName := "vector"
	if req.UseHybrid {
		mode = search.ModeHybrid
		modeName = "hybrid"
	}

	fetchK := topK
	if req.UseReranking {
		fetchK = topK * s.rerankFetchMultiplier
		if req.RerankTopK > fetchK {
			fetchK = req.RerankTopK
		}
	}

	results, err := s.coordinator.Search(r.Context(), req.Collection, req.Query, fetchK, mode, vectorWeight, req.Filters)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if req.UseReranking && s.reranker != nil && len(results) > 0 {
		candidates := make([]reranking.Candidate, len(results))
		for i, res := range results {
			candidates[i] = reranking.Candidate{ID: res.ID, Content: res.Content, Score: res.Score, Metadata: res.Metadata}
		}
		rerankTopK := req.RerankTopK
		if rerankTopK <= 0 {
			rerankTopK = topK
		}
		ranked, err := s.reranker.Rerank(req.Query, candidates, rerankTopK)
		if err != nil {
			s.writeError(w, apierr.Wrap(apierr.InferenceError, err, "rerank search results"))
			return
		}
		if len(ranked) > topK {
			ranked = ranked[:topK]
		}
		out := make([]searchResultResponse, len(ranked))
		for i, d := range ranked {
			out[i] = searchResultResponse{ID: d.ID, Content: d.Content, Score: d.Score, Metadata: d.Metadata, Source: modeName}
		}
		s.writeJSON(w, http.StatusOK, searchResponse{Results: out, SearchMode: modeName, LatencyMs: elapsedMs(start)})
		return
	}

	if len(results) > topK {
		results = results[:topK]
	}
	out := make([]searchResultResponse, len(results))
	for i, res := range results {
		out[i] = searchResultResponse{ID: res.ID, Content: res.Content, Score: res.Score, Metadata: res.Metadata, Source: string(res.Source)}
	}
	s.writeJSON(w, http.StatusOK, searchResponse{Results: out, SearchMode: modeName, LatencyMs: elapsedMs(start)})
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
