package vectorstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/thebtf/ragd/pkg/docmodel"
)

// testClient skips the test unless RAGD_TEST_QDRANT_HOST points at a live
// Qdrant instance. No fake/in-memory Qdrant exists in this environment, so
// these tests exercise the client against the real wire protocol only when
// one is available.
func testClient(t *testing.T) *Client {
	t.Helper()
	host := os.Getenv("RAGD_TEST_QDRANT_HOST")
	if host == "" {
		t.Skip("RAGD_TEST_QDRANT_HOST not set; skipping test requiring a live Qdrant instance")
	}
	c, err := NewClient(Config{Host: host, Port: 6334, CollectionPrefix: "ragd_test"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestPointID_NumericPassesThrough(t *testing.T) {
	id := pointID("42")
	if got := id.GetNum(); got != 42 {
		t.Errorf("pointID(\"42\").GetNum() = %d, want 42", got)
	}
}

func TestPointID_NonNumericIsDeterministicUUID(t *testing.T) {
	a := pointID("doc-abc")
	b := pointID("doc-abc")
	if a.String() != b.String() {
		t.Error("pointID should be deterministic for the same input id")
	}

	c := pointID("doc-xyz")
	if a.String() == c.String() {
		t.Error("pointID should differ for different input ids")
	}
}

func TestCollectionName(t *testing.T) {
	c := &Client{prefix: "ragd"}
	if got := c.collectionName("documents"); got != "ragd_documents" {
		t.Errorf("collectionName() = %q, want %q", got, "ragd_documents")
	}
}

func TestEnsureCollectionAndIndexAndSearch(t *testing.T) {
	c := testClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const collection = "smoke"
	if err := c.EnsureCollection(ctx, collection, 4); err != nil {
		t.Fatalf("EnsureCollection() error = %v", err)
	}
	defer c.DeleteCollection(ctx, collection)

	docs := []docmodel.Document{
		{ID: "1", Content: "hello", Embedding: []float32{1, 0, 0, 0}, Metadata: map[string]string{"kind": "greeting"}},
		{ID: "2", Content: "world", Embedding: []float32{0, 1, 0, 0}, Metadata: map[string]string{"kind": "noun"}},
	}
	n, err := c.Index(ctx, collection, docs)
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Index() indexed = %d, want 2", n)
	}

	results, err := c.Search(ctx, collection, []float32{1, 0, 0, 0}, 5, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Search() returned no results")
	}
	if results[0].ID != "1" {
		t.Errorf("Search() top result id = %q, want %q", results[0].ID, "1")
	}
}

func TestHealthCheck(t *testing.T) {
	c := testClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !c.HealthCheck(ctx) {
		t.Error("HealthCheck() = false, want true against a live instance")
	}
}
