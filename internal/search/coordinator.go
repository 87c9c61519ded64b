// Package search implements the hybrid retrieval coordinator (spec §4.5):
// fan-out to dense-vector and BM25 search, RRF fusion, and mode dispatch.
package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/thebtf/ragd/internal/apierr"
	"github.com/thebtf/ragd/internal/bm25index"
	"github.com/thebtf/ragd/pkg/docmodel"
)

// Mode selects which retrieval branch(es) a Search call uses.
type Mode int

const (
	ModeVector Mode = iota
	ModeBM25
	ModeHybrid
)

// Embedder is the subset of the embedding service the coordinator needs.
type Embedder interface {
	Embed(text string) ([]float32, error)
}

// VectorStore is the subset of the vector-store client the coordinator needs.
type VectorStore interface {
	Search(ctx context.Context, collection string, queryVector []float32, topK int, filter map[string]string) ([]docmodel.SearchResult, error)
}

// Config configures a new Coordinator.
type Config struct {
	RRFK            int // default 60
	FetchMultiplier int // candidates-per-branch multiplier in hybrid mode, default 3
	Logger          zerolog.Logger
}

// Coordinator fans a query out to the embedding service, the vector store,
// and the BM25 indices, then fuses or passes through results per mode.
type Coordinator struct {
	embedder    Embedder
	vectorStore VectorStore
	bm25        *bm25index.Store
	rrfK        int
	fetchMult   int
	log         zerolog.Logger
}

// NewCoordinator wires a Coordinator from its collaborators.
func NewCoordinator(embedder Embedder, vectorStore VectorStore, bm25Store *bm25index.Store, cfg Config) *Coordinator {
	rrfK := cfg.RRFK
	if rrfK <= 0 {
		rrfK = 60
	}
	fetchMult := cfg.FetchMultiplier
	if fetchMult <= 0 {
		fetchMult = 3
	}
	return &Coordinator{
		embedder:    embedder,
		vectorStore: vectorStore,
		bm25:        bm25Store,
		rrfK:        rrfK,
		fetchMult:   fetchMult,
		log:         cfg.Logger,
	}
}

// Search dispatches collection/query/top_k/mode/filters per spec §4.5. In
// Hybrid mode, vector_weight selects the RRF blend ratio; it is ignored in
// the other modes.
func (c *Coordinator) Search(ctx context.Context, collection, query string, topK int, mode Mode, vectorWeight float64, filters map[string]string) ([]docmodel.SearchResult, error) {
	if collection == "" {
		return nil, apierr.New(apierr.InvalidArgument, "collection is required")
	}
	if topK <= 0 {
		topK = 10
	}
	if vectorWeight < 0 || vectorWeight > 1 {
		return nil, apierr.New(apierr.InvalidArgument, "vector_weight must be in [0,1]")
	}

	switch mode {
	case ModeVector:
		return c.searchVector(ctx, collection, query, topK, filters)
	case ModeBM25:
		return c.searchBM25(collection, query, topK)
	case ModeHybrid:
		return c.searchHybrid(ctx, collection, query, topK, vectorWeight, filters)
	default:
		return nil, apierr.New(apierr.InvalidArgument, "unknown search mode")
	}
}

func (c *Coordinator) searchVector(ctx context.Context, collection, query string, topK int, filters map[string]string) ([]docmodel.SearchResult, error) {
	if c.embedder == nil {
		return nil, apierr.New(apierr.NotInitialized, "embedding service not initialized")
	}
	vec, err := c.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results, err := c.vectorStore.Search(ctx, collection, vec, topK, filters)
	if err != nil {
		return nil, apierr.Wrap(apierr.UpstreamUnavailable, err, "vector search")
	}
	return results, nil
}

func (c *Coordinator) searchBM25(collection, query string, topK int) ([]docmodel.SearchResult, error) {
	idx, ok := c.bm25.Get(collection)
	if !ok {
		return nil, apierr.New(apierr.CollectionMissing, fmt.Sprintf("no bm25 index for collection %q", collection))
	}
	return bm25ToSearchResults(idx, idx.Search(query, topK)), nil
}

// bm25ToSearchResults fills Content from the index's stored document so a
// BM25-only hit still carries its text into RRF fusion (spec §4.5/§3).
func bm25ToSearchResults(idx *bm25index.Index, results []bm25index.Result) []docmodel.SearchResult {
	out := make([]docmodel.SearchResult, len(results))
	for i, r := range results {
		content, _ := idx.GetDocument(r.ID)
		out[i] = docmodel.SearchResult{ID: r.ID, Content: content, Score: r.Score, Source: docmodel.SourceBM25}
	}
	return out
}

// searchHybrid fans vector and BM25 branches out concurrently. A single
// branch's failure is downgraded to an empty list (and logged); a failure
// on both branches surfaces the vector branch's error (spec §4.5/§7). If ctx
// is done once both branches return, no fused results are emitted.
func (c *Coordinator) searchHybrid(ctx context.Context, collection, query string, topK int, vectorWeight float64, filters map[string]string) ([]docmodel.SearchResult, error) {
	fetchK := topK * c.fetchMult

	var (
		wg                         sync.WaitGroup
		vectorResults, bm25Results []docmodel.SearchResult
		vectorErr, bm25Err         error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		vectorResults, vectorErr = c.searchVector(ctx, collection, query, fetchK, filters)
	}()
	go func() {
		defer wg.Done()
		bm25Results, bm25Err = c.searchBM25(collection, query, fetchK)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}

	if vectorErr != nil {
		c.log.Warn().Err(vectorErr).Str("collection", collection).Msg("hybrid search: vector branch failed")
		vectorResults = nil
	}
	if bm25Err != nil {
		c.log.Warn().Err(bm25Err).Str("collection", collection).Msg("hybrid search: bm25 branch failed")
		bm25Results = nil
	}
	if vectorErr != nil && bm25Err != nil {
		return nil, vectorErr
	}

	return fuseRRF(vectorResults, bm25Results, vectorWeight, c.rrfK, topK), nil
}
