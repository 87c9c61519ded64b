package search

import (
	"sort"

	"github.com/thebtf/ragd/pkg/docmodel"
)

// rrfEntry accumulates the fused RRF score and best-available payload for
// one document id across the vector and BM25 branches.
type rrfEntry struct {
	score    float64
	content  string
	metadata map[string]string
	hasVec   bool // true once a vector-branch payload has been attached
}

// fuseRRF combines vector and bm25 result lists with weighted Reciprocal
// Rank Fusion (spec §4.5/§8.3): contribution w_X/(k+rank+1) per list,
// summed across lists for ids present in both. Vector payload wins when a
// document appears in both lists. Output is sorted by score descending,
// ties broken by id ascending, truncated to topK.
func fuseRRF(vector, bm25 []docmodel.SearchResult, vectorWeight float64, k int, topK int) []docmodel.SearchResult {
	entries := make(map[string]*rrfEntry)
	order := make([]string, 0, len(vector)+len(bm25))

	addList := func(list []docmodel.SearchResult, weight float64, isVector bool) {
		for rank, r := range list {
			contribution := weight / float64(k+rank+1)
			e, ok := entries[r.ID]
			if !ok {
				e = &rrfEntry{}
				entries[r.ID] = e
				order = append(order, r.ID)
			}
			e.score += contribution
			if isVector {
				e.content = r.Content
				e.metadata = r.Metadata
				e.hasVec = true
			} else if !e.hasVec {
				e.content = r.Content
				e.metadata = r.Metadata
			}
		}
	}

	addList(vector, vectorWeight, true)
	addList(bm25, 1-vectorWeight, false)

	sort.Slice(order, func(i, j int) bool {
		a, b := entries[order[i]], entries[order[j]]
		if a.score != b.score {
			return a.score > b.score
		}
		return order[i] < order[j]
	})

	if topK > 0 && len(order) > topK {
		order = order[:topK]
	}

	out := make([]docmodel.SearchResult, len(order))
	for i, id := range order {
		e := entries[id]
		out[i] = docmodel.SearchResult{
			ID:       id,
			Content:  e.content,
			Score:    float32(e.score),
			Metadata: e.metadata,
			Source:   docmodel.SourceHybrid,
		}
	}
	return out
}
