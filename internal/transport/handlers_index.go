package transport

import (
	"net/http"

	"github.com/thebtf/ragd/internal/apierr"
	"github.com/thebtf/ragd/pkg/docmodel"
)

type indexDocumentRequest struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Embedding []float32         `json:"embedding,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type indexDocumentsRequest struct {
	Collection string                 `json:"collection"`
	Documents  []indexDocumentRequest `json:"documents"`
	UpdateBM25 bool                   `json:"update_bm25"`
}

type indexDocumentsResponse struct {
	IndexedCount int      `json:"indexed_count"`
	FailedCount  int      `json:"failed_count"`
	FailedIDs    []string `json:"failed_ids"`
}

// handleIndexDocuments embeds any document missing a precomputed vector,
// upserts into the vector store, and optionally refreshes the per-collection
// BM25 index (spec §6 IndexDocuments).
func (s *Server) handleIndexDocuments(w http.ResponseWriter, r *http.Request) {
	var req indexDocumentsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, apierr.Wrap(apierr.InvalidArgument, err, "decode request body"))
		return
	}
	if req.Collection == "" {
		s.writeError(w, apierr.New(apierr.InvalidArgument, "collection is required"))
		return
	}

	docs := make([]docmodel.Document, 0, len(req.Documents))
	failedIDs := make([]string, 0)

	for _, d := range req.Documents {
		embedding := d.Embedding
		if len(embedding) == 0 {
			if s.embedder == nil {
				failedIDs = append(failedIDs, d.ID)
				continue
			}
			vec, err := s.embedder.Embed(d.Content)
			if err != nil {
				s.log.Warn().Err(err).Str("id", d.ID).Msg("index_documents: embed failed")
				failedIDs = append(failedIDs, d.ID)
				continue
			}
			embedding = vec
		}

		meta := d.Metadata
		if meta == nil {
			meta = make(map[string]string, 1)
		}
		meta["content"] = d.Content

		docs = append(docs, docmodel.Document{ID: d.ID, Content: d.Content, Embedding: embedding, Metadata: meta})
	}

	indexedCount := 0
	if len(docs) > 0 && s.vectorStore != nil {
		dim := uint64(len(docs[0].Embedding))
		if err := s.vectorStore.EnsureCollection(r.Context(), req.Collection, dim); err != nil {
			s.writeError(w, apierr.Wrap(apierr.UpstreamUnavailable, err, "ensure collection"))
			return
		}
		n, err := s.vectorStore.Index(r.Context(), req.Collection, docs)
		if err != nil {
			s.writeError(w, apierr.Wrap(apierr.UpstreamUnavailable, err, "index documents"))
			return
		}
		indexedCount = n
	}

	if req.UpdateBM25 {
		idx := s.bm25.GetOrCreate(req.Collection)
		for _, d := range docs {
			idx.Add(d.ID, d.Content)
		}
	}

	s.writeJSON(w, http.StatusOK, indexDocumentsResponse{
		IndexedCount: indexedCount,
		FailedCount:  len(failedIDs),
		FailedIDs:    failedIDs,
	})
}

type clearIndexRequest struct {
	Collection   string `json:"collection"`
	ClearBM25    bool   `json:"clear_bm25"`
	ClearVectors bool   `json:"clear_vectors"`
}

type clearIndexResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleClearIndex(w http.ResponseWriter, r *http.Request) {
	var req clearIndexRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, apierr.Wrap(apierr.InvalidArgument, err, "decode request body"))
		return
	}
	if req.Collection == "" {
		s.writeError(w, apierr.New(apierr.InvalidArgument, "collection is required"))
		return
	}

	if req.ClearBM25 {
		s.bm25.Clear(req.Collection)
	}
	if req.ClearVectors && s.vectorStore != nil {
		if err := s.vectorStore.DeleteCollection(r.Context(), req.Collection); err != nil {
			s.writeError(w, apierr.Wrap(apierr.UpstreamUnavailable, err, "delete collection"))
			return
		}
	}

	s.writeJSON(w, http.StatusOK, clearIndexResponse{Success: true, Message: "index cleared"})
}
