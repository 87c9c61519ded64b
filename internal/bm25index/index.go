// Package bm25index provides an in-memory, per-collection inverted lexical
// index with Okapi BM25 scoring (spec §4.3).
package bm25index

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"
)

const (
	k1 = 1.5
	b  = 0.75
)

type posting struct {
	content string
	tokens  []string
}

// Index is a single-collection BM25 inverted index. Readers observe a
// snapshot consistent with concurrent Add calls: the joint update of
// (documents, doc_freq, avg_doc_len) happens under one write lock.
type Index struct {
	mu        sync.RWMutex
	documents map[string]posting
	docFreq   map[string]int
	avgDocLen float64
}

// New returns an empty index.
func New() *Index {
	return &Index{
		documents: make(map[string]posting),
		docFreq:   make(map[string]int),
	}
}

// tokenize lowercases, splits on non-alphanumeric runes, and drops empty and
// single-character tokens — applied identically to documents and queries.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Add inserts or replaces the document at id. Re-adding the same id uses
// replace semantics (§9 open question, resolved as (b)): the previous
// posting's df contributions are subtracted before the new one is added, so
// doc_freq and avg_doc_len stay exact. The whole operation is atomic with
// respect to readers.
func (idx *Index) Add(id, content string) {
	tokens := tokenize(content)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if old, ok := idx.documents[id]; ok {
		for term := range uniqueSet(old.tokens) {
			idx.docFreq[term]--
			if idx.docFreq[term] <= 0 {
				delete(idx.docFreq, term)
			}
		}
	}

	for term := range uniqueSet(tokens) {
		idx.docFreq[term]++
	}
	idx.documents[id] = posting{content: content, tokens: tokens}

	idx.recomputeAvgDocLenLocked()
}

func uniqueSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// recomputeAvgDocLenLocked must be called with mu held for writing.
func (idx *Index) recomputeAvgDocLenLocked() {
	if len(idx.documents) == 0 {
		idx.avgDocLen = 0
		return
	}
	total := 0
	for _, p := range idx.documents {
		total += len(p.tokens)
	}
	idx.avgDocLen = float64(total) / float64(len(idx.documents))
}

// Result is one scored document from Search.
type Result struct {
	ID    string
	Score float32
}

// Search scores every stored document against query's tokens using Okapi
// BM25 (k1=1.5, b=0.75) and returns the top_k in descending score order,
// ties broken lexicographically by id. Documents scoring exactly zero are
// omitted.
func (idx *Index) Search(query string, topK int) []Result {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := float64(len(idx.documents))
	if n == 0 {
		return nil
	}
	avgDocLen := idx.avgDocLen

	results := make([]Result, 0, len(idx.documents))
	for id, p := range idx.documents {
		docLen := float64(len(p.tokens))
		termFreq := make(map[string]int, len(p.tokens))
		for _, t := range p.tokens {
			termFreq[t]++
		}

		var score float64
		for _, qt := range queryTokens {
			tf := float64(termFreq[qt])
			df := float64(idx.docFreq[qt])
			if tf <= 0 || df <= 0 {
				continue
			}
			idf := math.Log((n-df+0.5)/(df+0.5) + 1)
			tfNorm := (tf * (k1 + 1)) / (tf + k1*(1-b+b*docLen/avgDocLen))
			score += idf * tfNorm
		}

		if score > 0 {
			results = append(results, Result{ID: id, Score: float32(score)})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}

// GetDocument returns the stored content for id, if present.
func (idx *Index) GetDocument(id string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	p, ok := idx.documents[id]
	if !ok {
		return "", false
	}
	return p.content, true
}

// Clear removes all documents and frequency state.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.documents = make(map[string]posting)
	idx.docFreq = make(map[string]int)
	idx.avgDocLen = 0
}

// Len returns the number of stored documents.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.documents)
}

// IsEmpty reports whether the index has no documents.
func (idx *Index) IsEmpty() bool {
	return idx.Len() == 0
}
