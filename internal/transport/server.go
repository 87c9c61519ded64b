// Package transport exposes the retrieval service's RPC surface (spec §6)
// over HTTP+JSON via chi, translating apierr.Kind into status codes.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/thebtf/ragd/internal/bm25index"
	"github.com/thebtf/ragd/internal/reranking"
	"github.com/thebtf/ragd/internal/search"
	"github.com/thebtf/ragd/internal/skills"
	"github.com/thebtf/ragd/pkg/docmodel"
)

// Embedder is the embedding surface the transport layer depends on.
type Embedder interface {
	Embed(text string) ([]float32, error)
	EmbedBatch(texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}

// Reranker is the cross-encoder surface the transport layer depends on.
type Reranker interface {
	Rerank(query string, docs []reranking.Candidate, topK int) ([]reranking.RankedDocument, error)
	Name() string
}

// Coordinator is the hybrid-search surface the transport layer depends on.
type Coordinator interface {
	Search(ctx context.Context, collection, query string, topK int, mode search.Mode, vectorWeight float64, filters map[string]string) ([]docmodel.SearchResult, error)
}

// VectorIndexer is the vector-store surface needed for document ingestion
// and index lifecycle management.
type VectorIndexer interface {
	EnsureCollection(ctx context.Context, name string, dimensions uint64) error
	Index(ctx context.Context, collection string, docs []docmodel.Document) (int, error)
	DeleteCollection(ctx context.Context, name string) error
	HealthCheck(ctx context.Context) bool
}

// SkillExtractor matches skills.Extractor's surface.
type SkillExtractor interface {
	Extract(text string, includeSoftSkills bool) skills.Extracted
}

// Config configures a new Server.
type Config struct {
	RerankFetchMultiplier int // default 5, spec §6
	Version               string
	Logger                zerolog.Logger
}

// Server holds the RPC handlers' collaborators and builds the chi router.
type Server struct {
	embedder    Embedder
	reranker    Reranker
	coordinator Coordinator
	vectorStore VectorIndexer
	bm25        *bm25index.Store
	extractor   SkillExtractor

	rerankFetchMultiplier int
	version               string
	log                   zerolog.Logger
	startTime             time.Time
}

// NewServer wires a Server from its collaborators. embedder and reranker may
// be nil to model a partially-initialized process (spec §8 scenario 5); the
// other collaborators are required.
func NewServer(embedder Embedder, reranker Reranker, coordinator Coordinator, vectorStore VectorIndexer, bm25 *bm25index.Store, extractor SkillExtractor, cfg Config) *Server {
	mult := cfg.RerankFetchMultiplier
	if mult <= 0 {
		mult = 5
	}
	return &Server{
		embedder:              embedder,
		reranker:              reranker,
		coordinator:           coordinator,
		vectorStore:           vectorStore,
		bm25:                  bm25,
		extractor:             extractor,
		rerankFetchMultiplier: mult,
		version:               cfg.Version,
		log:                   cfg.Logger,
		startTime:             time.Now(),
	}
}

// Router builds the chi router serving the full RPC surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealthCheck)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/embed", s.handleEmbed)
		r.Post("/embed_batch", s.handleEmbedBatch)
		r.Post("/rerank", s.handleRerank)
		r.Post("/search", s.handleSearch)
		r.Post("/extract_skills", s.handleExtractSkills)
		r.Post("/index_documents", s.handleIndexDocuments)
		r.Post("/clear_index", s.handleClearIndex)
		r.Get("/health", s.handleHealthCheck)
	})

	return r
}
