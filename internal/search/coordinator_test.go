package search

import (
	"context"
	"errors"
	"testing"

	"github.com/thebtf/ragd/internal/apierr"
	"github.com/thebtf/ragd/internal/bm25index"
	"github.com/thebtf/ragd/pkg/docmodel"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(string) ([]float32, error) { return f.vec, f.err }

type fakeVectorStore struct {
	results []docmodel.SearchResult
	err     error
}

func (f *fakeVectorStore) Search(ctx context.Context, collection string, queryVector []float32, topK int, filter map[string]string) ([]docmodel.SearchResult, error) {
	return f.results, f.err
}

func newBM25WithDocs(t *testing.T, docs map[string]string) *bm25index.Store {
	t.Helper()
	store := bm25index.NewStore()
	idx := store.GetOrCreate("docs")
	for id, content := range docs {
		idx.Add(id, content)
	}
	return store
}

func TestCoordinator_VectorMode(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	vs := &fakeVectorStore{results: []docmodel.SearchResult{{ID: "1", Source: docmodel.SourceVector}}}
	c := NewCoordinator(embedder, vs, bm25index.NewStore(), Config{})

	out, err := c.Search(context.Background(), "docs", "query", 5, ModeVector, 0.5, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(out) != 1 || out[0].ID != "1" {
		t.Errorf("Search() = %v, want vector result", out)
	}
}

func TestCoordinator_BM25Mode_MissingCollection(t *testing.T) {
	c := NewCoordinator(&fakeEmbedder{}, &fakeVectorStore{}, bm25index.NewStore(), Config{})
	_, err := c.Search(context.Background(), "missing", "query", 5, ModeBM25, 0, nil)
	if apierr.KindOf(err) != apierr.CollectionMissing {
		t.Errorf("err kind = %v, want CollectionMissing", apierr.KindOf(err))
	}
}

func TestCoordinator_BM25Mode_PopulatesContentFromIndex(t *testing.T) {
	bm25 := newBM25WithDocs(t, map[string]string{"2": "doc two content words"})
	c := NewCoordinator(&fakeEmbedder{}, &fakeVectorStore{}, bm25, Config{})

	out, err := c.Search(context.Background(), "docs", "doc two", 10, ModeBM25, 0, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(out) != 1 || out[0].Content != "doc two content words" {
		t.Errorf("Search() = %+v, want content = %q", out, "doc two content words")
	}
}

func TestCoordinator_InvalidVectorWeight(t *testing.T) {
	c := NewCoordinator(&fakeEmbedder{}, &fakeVectorStore{}, bm25index.NewStore(), Config{})
	_, err := c.Search(context.Background(), "docs", "query", 5, ModeHybrid, 1.5, nil)
	if apierr.KindOf(err) != apierr.InvalidArgument {
		t.Errorf("err kind = %v, want InvalidArgument", apierr.KindOf(err))
	}
}

func TestCoordinator_HybridMode_FusesBothBranches(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	vs := &fakeVectorStore{results: []docmodel.SearchResult{{ID: "1", Content: "doc one"}}}
	bm25 := newBM25WithDocs(t, map[string]string{"2": "doc two content words"})
	c := NewCoordinator(embedder, vs, bm25, Config{})

	out, err := c.Search(context.Background(), "docs", "doc two", 10, ModeHybrid, 0.5, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	ids := map[string]bool{}
	for _, r := range out {
		ids[r.ID] = true
		if r.Source != docmodel.SourceHybrid {
			t.Errorf("result %s source = %q, want hybrid", r.ID, r.Source)
		}
	}
	if !ids["1"] {
		t.Error("expected vector-branch result id 1 in fused output")
	}
}

func TestCoordinator_HybridMode_SingleBranchFailureDowngradesToEmpty(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	vs := &fakeVectorStore{err: errors.New("connection refused")}
	bm25 := newBM25WithDocs(t, map[string]string{"2": "some searchable content"})
	c := NewCoordinator(embedder, vs, bm25, Config{})

	out, err := c.Search(context.Background(), "docs", "searchable content", 10, ModeHybrid, 0.5, nil)
	if err != nil {
		t.Fatalf("Search() error = %v, want nil (single-branch failure should be downgraded)", err)
	}
	if len(out) == 0 {
		t.Error("expected bm25 branch results to survive a vector-branch failure")
	}
}

func TestCoordinator_HybridMode_BothBranchesFailSurfacesError(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("model not loaded")}
	c := NewCoordinator(embedder, &fakeVectorStore{}, bm25index.NewStore(), Config{})

	_, err := c.Search(context.Background(), "missing", "query", 10, ModeHybrid, 0.5, nil)
	if err == nil {
		t.Fatal("expected an error when both branches fail")
	}
}

func TestCoordinator_TopKZeroResolvesToDefault(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	vs := &fakeVectorStore{results: []docmodel.SearchResult{{ID: "1"}}}
	c := NewCoordinator(embedder, vs, bm25index.NewStore(), Config{})

	out, err := c.Search(context.Background(), "docs", "query", 0, ModeVector, 0, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(out) != 1 {
		t.Errorf("len(out) = %d, want 1", len(out))
	}
}
