package bm25index

import (
	"sync"
	"testing"
)

func TestTokenize(t *testing.T) {
	got := tokenize("Hello, World! This is a test.")
	want := []string{"hello", "world", "this", "is", "test"}
	if len(got) != len(want) {
		t.Fatalf("tokenize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tokenize()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAddAndSearch_LexicalOrdering(t *testing.T) {
	idx := New()
	idx.Add("1", "The quick brown fox jumps over the lazy dog")
	idx.Add("2", "A quick brown cat sleeps on the couch")
	idx.Add("3", "Python programming is fun")

	results := idx.Search("quick brown", 10)
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	ids := map[string]bool{}
	for _, r := range results {
		ids[r.ID] = true
		if r.Score <= 0 {
			t.Errorf("result %s has non-positive score %v", r.ID, r.Score)
		}
	}
	if !ids["1"] || !ids["2"] {
		t.Errorf("expected ids {1,2}, got %v", ids)
	}
	if ids["3"] {
		t.Error("id 3 should not match 'quick brown'")
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	idx := New()
	idx.Add("1", "some content")
	if got := idx.Search("", 10); got != nil {
		t.Errorf("Search(\"\") = %v, want nil", got)
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	idx := New()
	if got := idx.Search("anything", 10); got != nil {
		t.Errorf("Search on empty index = %v, want nil", got)
	}
}

func TestClear(t *testing.T) {
	idx := New()
	idx.Add("1", "test document")
	if idx.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", idx.Len())
	}

	idx.Clear()
	if !idx.IsEmpty() {
		t.Error("expected empty index after Clear()")
	}
	if got := idx.Search("test", 10); got != nil {
		t.Errorf("Search after Clear() = %v, want nil", got)
	}
}

func TestAdd_ReplaceSemanticsKeepsDocFreqExact(t *testing.T) {
	idx := New()
	idx.Add("1", "alpha beta gamma")
	idx.Add("2", "alpha beta")

	if got := idx.docFreq["alpha"]; got != 2 {
		t.Fatalf("doc_freq[alpha] = %d, want 2", got)
	}

	// Re-add doc 1 with different content; df for "gamma" must drop to 0
	// and be removed, df for "alpha" must stay at 2 (not grow to 3), and df
	// for "beta" must drop to 1 since only doc 2 still contains it.
	idx.Add("1", "alpha only")

	if _, ok := idx.docFreq["gamma"]; ok {
		t.Error("doc_freq[gamma] should be removed after replacing doc 1")
	}
	if got := idx.docFreq["alpha"]; got != 2 {
		t.Errorf("doc_freq[alpha] after replace = %d, want 2 (not doubled)", got)
	}
	if got := idx.docFreq["beta"]; got != 1 {
		t.Errorf("doc_freq[beta] after replace = %d, want 1", got)
	}

	// Invariant check: sum of df over distinct (doc,term) pairs equals
	// sum of distinct-token-set sizes across documents.
	var sumDF int
	for _, c := range idx.docFreq {
		sumDF += c
	}
	var sumDistinct int
	for _, p := range idx.documents {
		sumDistinct += len(uniqueSet(p.tokens))
	}
	if sumDF != sumDistinct {
		t.Errorf("sum(doc_freq) = %d, sum(distinct tokens per doc) = %d, want equal", sumDF, sumDistinct)
	}
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	idx := New()
	idx.Add("seed", "seed document content")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			idx.Add(string(rune('a'+n%26)), "some repeated content words here")
		}(i)
		go func() {
			defer wg.Done()
			_ = idx.Search("content words", 5)
		}()
	}
	wg.Wait()
}

func TestStore_GetOrCreateIsolatesCollections(t *testing.T) {
	s := NewStore()
	a := s.GetOrCreate("a")
	a.Add("1", "hello world")

	b := s.GetOrCreate("b")
	if !b.IsEmpty() {
		t.Error("collection b should be independent of collection a")
	}

	again := s.GetOrCreate("a")
	if again != a {
		t.Error("GetOrCreate should return the same index for the same collection")
	}
}

func TestStore_ClearMissingCollectionIsNoop(t *testing.T) {
	s := NewStore()
	s.Clear("does-not-exist")
}
