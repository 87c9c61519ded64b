package reranking

import (
	"os"
	"path/filepath"
	"testing"
)

// testConfig skips the test unless a real cross-encoder ONNX model +
// tokenizer are present under RAGD_TEST_MODELS_DIR/<name> (see
// DESIGN.md: go:embed assets dropped in favor of runtime models_dir
// loading).
func testConfig(t *testing.T) Config {
	t.Helper()
	dir := os.Getenv("RAGD_TEST_MODELS_DIR")
	if dir == "" {
		t.Skip("RAGD_TEST_MODELS_DIR not set; skipping test requiring a real cross-encoder model")
	}
	name := "ms-marco-MiniLM-L-6-v2"
	if _, err := os.Stat(filepath.Join(dir, name, "model.onnx")); err != nil {
		t.Skipf("model not found under %s: %v", dir, err)
	}
	return Config{ModelsDir: dir, Name: name}
}

func TestNewService(t *testing.T) {
	svc, err := NewService(testConfig(t))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	defer svc.Close()

	if svc.Name() == "" {
		t.Error("Name() should not be empty")
	}
}

func TestRerank_EmptyInput(t *testing.T) {
	svc, err := NewService(testConfig(t))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	defer svc.Close()

	out, err := svc.Rerank("query", nil, 5)
	if err != nil {
		t.Fatalf("Rerank() error = %v", err)
	}
	if out != nil {
		t.Errorf("Rerank(empty) = %v, want nil", out)
	}
}

func TestRerank_PreservesInputSetAndOrdersByScore(t *testing.T) {
	svc, err := NewService(testConfig(t))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	defer svc.Close()

	docs := []Candidate{
		{ID: "a", Content: "The quick brown fox jumps over the lazy dog."},
		{ID: "b", Content: "Stock markets fell sharply amid inflation fears."},
		{ID: "c", Content: "A fast auburn fox leaps over a sleepy dog."},
	}

	out, err := svc.Rerank("a quick fox jumping", docs, 3)
	if err != nil {
		t.Fatalf("Rerank() error = %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3", len(out))
	}

	seen := map[string]bool{}
	for _, r := range out {
		seen[r.ID] = true
	}
	for _, d := range docs {
		if !seen[d.ID] {
			t.Errorf("reranked output missing input id %q", d.ID)
		}
	}

	for i := 1; i < len(out); i++ {
		if out[i].Score > out[i-1].Score {
			t.Errorf("output not sorted by score descending at index %d", i)
		}
		if out[i].NewRank != i {
			t.Errorf("NewRank[%d] = %d, want %d", i, out[i].NewRank, i)
		}
	}
}

func TestRerank_TruncatesToTopK(t *testing.T) {
	svc, err := NewService(testConfig(t))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	defer svc.Close()

	docs := make([]Candidate, 10)
	for i := range docs {
		docs[i] = Candidate{ID: string(rune('a' + i)), Content: "some document text"}
	}

	out, err := svc.Rerank("query", docs, 3)
	if err != nil {
		t.Fatalf("Rerank() error = %v", err)
	}
	if len(out) != 3 {
		t.Errorf("len(out) = %d, want 3", len(out))
	}
}
