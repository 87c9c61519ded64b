package config

import "testing"

func TestDefaultMatchesSpecKeys(t *testing.T) {
	cfg := Default()

	if cfg.Search.DefaultTopK != 10 {
		t.Errorf("default_top_k = %d, want 10", cfg.Search.DefaultTopK)
	}
	if cfg.Search.VectorWeight != 0.7 {
		t.Errorf("vector_weight = %v, want 0.7", cfg.Search.VectorWeight)
	}
	if cfg.Search.BM25Weight != 0.3 {
		t.Errorf("bm25_weight = %v, want 0.3", cfg.Search.BM25Weight)
	}
	if cfg.Search.RRFK != 60 {
		t.Errorf("rrf_k = %d, want 60", cfg.Search.RRFK)
	}
	if cfg.Search.RerankFetchMultiplier != 5 {
		t.Errorf("rerank_fetch_multiplier = %d, want 5", cfg.Search.RerankFetchMultiplier)
	}
	if cfg.Models.ModelsDir != "./models" {
		t.Errorf("models_dir = %q, want ./models", cfg.Models.ModelsDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate, got %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RAGD_SEARCH__VECTOR_WEIGHT", "0.42")
	t.Setenv("RAGD_VECTORSTORE__COLLECTION_PREFIX", "test_prefix")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Search.VectorWeight != 0.42 {
		t.Errorf("vector_weight = %v, want 0.42", cfg.Search.VectorWeight)
	}
	if cfg.VectorStore.CollectionPrefix != "test_prefix" {
		t.Errorf("collection_prefix = %q, want test_prefix", cfg.VectorStore.CollectionPrefix)
	}
}

func TestValidateRejectsOutOfRangeWeight(t *testing.T) {
	cfg := Default()
	cfg.Search.VectorWeight = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for vector_weight > 1")
	}
}
