// Package config loads hierarchical, environment-overridable configuration
// for the retrieval service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Server holds transport bootstrap settings.
type Server struct {
	Host            string        `mapstructure:"host"`
	RPCPort         int           `mapstructure:"rpc_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// VectorStore holds the external vector database connection settings.
type VectorStore struct {
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	CollectionPrefix string `mapstructure:"collection_prefix"`
}

// Models holds the neural runtime configuration.
type Models struct {
	EmbeddingModel   string `mapstructure:"embedding_model"`
	RerankerModel    string `mapstructure:"reranker_model"`
	ModelsDir        string `mapstructure:"models_dir"`
	OnnxLibraryPath  string `mapstructure:"onnx_library_path"`
	OnnxIntraThreads int    `mapstructure:"onnx_intra_threads"`
}

// Search holds the hybrid-coordinator tuning knobs.
type Search struct {
	DefaultTopK           int     `mapstructure:"default_top_k"`
	VectorWeight          float64 `mapstructure:"vector_weight"`
	BM25Weight            float64 `mapstructure:"bm25_weight"`
	RRFK                  int     `mapstructure:"rrf_k"`
	RerankFetchMultiplier int     `mapstructure:"rerank_fetch_multiplier"`
}

// Log holds logging output settings.
type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Config is the fully resolved process configuration.
type Config struct {
	Server      Server      `mapstructure:"server"`
	VectorStore VectorStore `mapstructure:"vectorstore"`
	Models      Models      `mapstructure:"models"`
	Search      Search      `mapstructure:"search"`
	Log         Log         `mapstructure:"log"`
}

// envPrefix is the environment-variable prefix; keys are joined with "__"
// for nesting, e.g. RAGD_SEARCH__VECTOR_WEIGHT.
const envPrefix = "RAGD"

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.rpc_port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("vectorstore.host", "localhost")
	v.SetDefault("vectorstore.port", 6334)
	v.SetDefault("vectorstore.collection_prefix", "ragd")

	v.SetDefault("models.embedding_model", "all-MiniLM-L6-v2")
	v.SetDefault("models.reranker_model", "ms-marco-MiniLM-L-6-v2")
	v.SetDefault("models.models_dir", "./models")
	v.SetDefault("models.onnx_library_path", "")
	v.SetDefault("models.onnx_intra_threads", 4)

	v.SetDefault("search.default_top_k", 10)
	v.SetDefault("search.vector_weight", 0.7)
	v.SetDefault("search.bm25_weight", 0.3)
	v.SetDefault("search.rrf_k", 60)
	v.SetDefault("search.rerank_fetch_multiplier", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	return v
}

// Load reads configuration from environment variables layered over
// defaults. On a deserialization error it returns Default() alongside the
// error so callers can log and fall back, matching the teacher's
// load-or-default bootstrap idiom.
func Load() (*Config, error) {
	v := newViper()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration with only built-in defaults applied.
func Default() *Config {
	v := newViper()
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks invariants not expressible as simple defaults.
func (c *Config) Validate() error {
	if c.Search.VectorWeight < 0 || c.Search.VectorWeight > 1 {
		return fmt.Errorf("search.vector_weight must be in [0,1], got %v", c.Search.VectorWeight)
	}
	if c.Models.ModelsDir == "" {
		return fmt.Errorf("models.models_dir must not be empty")
	}
	return nil
}
