package transport

import (
	"net/http"

	"github.com/thebtf/ragd/internal/apierr"
	"github.com/thebtf/ragd/pkg/docmodel"
)

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding  []float32 `json:"embedding"`
	Dimensions int       `json:"dimensions"`
	Model      string    `json:"model"`
}

func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	if s.embedder == nil {
		s.writeError(w, apierr.New(apierr.NotInitialized, "embedding service not initialized"))
		return
	}

	var req embedRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, apierr.Wrap(apierr.InvalidArgument, err, "decode request body"))
		return
	}

	vec, err := s.embedder.Embed(req.Text)
	if err != nil {
		s.writeError(w, apierr.Wrap(apierr.InferenceError, err, "embed text"))
		return
	}

	s.writeJSON(w, http.StatusOK, embedResponse{
		Embedding:  vec,
		Dimensions: s.embedder.Dimensions(),
		Model:      s.embedder.Name(),
	})
}

type embedBatchRequest struct {
	Texts []string `json:"texts"`
}

type indexedVector struct {
	Vector []float32 `json:"vector"`
	Index  int       `json:"index"`
}

type embedBatchResponse struct {
	Embeddings []indexedVector `json:"embeddings"`
	Model      string          `json:"model"`
}

func (s *Server) handleEmbedBatch(w http.ResponseWriter, r *http.Request) {
	if s.embedder == nil {
		s.writeError(w, apierr.New(apierr.NotInitialized, "embedding service not initialized"))
		return
	}

	var req embedBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, apierr.Wrap(apierr.InvalidArgument, err, "decode request body"))
		return
	}

	vectors, err := s.embedder.EmbedBatch(req.Texts)
	if err != nil {
		s.writeError(w, apierr.Wrap(apierr.InferenceError, err, "embed batch"))
		return
	}

	embeddings := make([]indexedVector, len(vectors))
	for i, v := range vectors {
		embeddings[i] = indexedVector{Vector: v, Index: i}
	}

	s.writeJSON(w, http.StatusOK, embedBatchResponse{Embeddings: embeddings, Model: s.embedder.Name()})
}

type extractSkillsRequest struct {
	Text              string `json:"text"`
	IncludeSoftSkills bool   `json:"include_soft_skills"`
}

func (s *Server) handleExtractSkills(w http.ResponseWriter, r *http.Request) {
	var req extractSkillsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, apierr.Wrap(apierr.InvalidArgument, err, "decode request body"))
		return
	}

	result := s.extractor.Extract(req.Text, req.IncludeSoftSkills)
	s.writeJSON(w, http.StatusOK, result)
}

type healthCheckResponse struct {
	Status     docmodel.HealthStatus `json:"status"`
	Components map[string]string     `json:"components"`
	Version    string                `json:"version"`
}

// handleHealthCheck reports component-by-component status; overall status is
// healthy iff both neural components are initialized, degraded if exactly
// one is, unhealthy otherwise (spec §7).
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]string)

	embedOK := s.embedder != nil
	rerankOK := s.reranker != nil
	components["embedding"] = componentStatus(embedOK)
	components["reranker"] = componentStatus(rerankOK)

	if s.vectorStore != nil {
		components["vectorstore"] = componentStatus(s.vectorStore.HealthCheck(r.Context()))
	}

	var status docmodel.HealthStatus
	switch {
	case embedOK && rerankOK:
		status = docmodel.StatusHealthy
	case embedOK || rerankOK:
		status = docmodel.StatusDegraded
	default:
		status = docmodel.StatusUnhealthy
	}

	s.writeJSON(w, http.StatusOK, healthCheckResponse{
		Status:     status,
		Components: components,
		Version:    s.version,
	})
}

func componentStatus(ok bool) string {
	if ok {
		return "ok"
	}
	return "unavailable"
}
