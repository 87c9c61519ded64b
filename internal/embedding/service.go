// Package embedding provides text embedding generation via a WordPiece
// tokenizer and an ONNX Runtime session loaded from a configured models
// directory (MiniLM-family bi-encoders by default).
package embedding

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// DefaultDim is the embedding dimension D of every Service. NewService does
// not read the dimension from the model's output tensor metadata; a model
// whose hidden size differs from DefaultDim fails at inference time.
const DefaultDim = 384

// maxSeqLen bounds the padded sequence length regardless of tokenizer output.
const maxSeqLen = 512

// Config configures a new embedding Service.
type Config struct {
	ModelsDir string // directory containing <Name>/model.onnx and <Name>/tokenizer.json
	Name      string // model subdirectory name, e.g. "all-MiniLM-L6-v2"
	Threads   int    // intra-op thread count; 0 uses the runtime default
}

// Service provides thread-safe text embedding generation.
type Service struct {
	tk      *tokenizer.Tokenizer
	session *ort.DynamicAdvancedSession
	mu      sync.Mutex
	name    string
	dim     int
}

// NewService loads the tokenizer and ONNX graph for cfg.Name from
// cfg.ModelsDir at runtime (per §6's models_dir contract) and builds a
// session with input/output names matching the mean-pooling algorithm of
// §4.1: "last_hidden_state" with fallback "sentence_embedding".
func NewService(cfg Config) (*Service, error) {
	if cfg.ModelsDir == "" {
		return nil, fmt.Errorf("models dir is required")
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("model name is required")
	}

	modelDir := filepath.Join(cfg.ModelsDir, cfg.Name)
	modelFile := filepath.Join(modelDir, "model.onnx")
	tokenizerFile := filepath.Join(modelDir, "tokenizer.json")

	modelData, err := os.ReadFile(modelFile)
	if err != nil {
		return nil, fmt.Errorf("read embedding model %s: %w", modelFile, err)
	}

	tokenizerFd, err := os.Open(tokenizerFile)
	if err != nil {
		return nil, fmt.Errorf("open embedding tokenizer %s: %w", tokenizerFile, err)
	}
	defer tokenizerFd.Close()

	tk, err := pretrained.FromReader(tokenizerFd)
	if err != nil {
		return nil, fmt.Errorf("load embedding tokenizer: %w", err)
	}

	inputNames := []string{"input_ids", "attention_mask", "token_type_ids"}
	outputNames := []string{"last_hidden_state"}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer opts.Destroy()
	if cfg.Threads > 0 {
		if err := opts.SetIntraOpNumThreads(cfg.Threads); err != nil {
			return nil, fmt.Errorf("set intra-op threads: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSessionWithONNXData(modelData, inputNames, outputNames, opts)
	if err != nil {
		// fallback output name per §4.1
		outputNames = []string{"sentence_embedding"}
		session, err = ort.NewDynamicAdvancedSessionWithONNXData(modelData, inputNames, outputNames, opts)
		if err != nil {
			return nil, fmt.Errorf("create embedding ONNX session: %w", err)
		}
	}

	return &Service{
		tk:      tk,
		session: session,
		name:    cfg.Name,
		dim:     DefaultDim,
	}, nil
}

// Name returns the configured model name.
func (s *Service) Name() string { return s.name }

// Dimensions returns D, the embedding vector length.
func (s *Service) Dimensions() int { return s.dim }

// Embed generates an embedding for a single text. An empty text returns a
// zero vector without invoking the runtime.
func (s *Service) Embed(text string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if text == "" {
		return make([]float32, s.dim), nil
	}

	results, err := s.computeBatch([]string{text})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// EmbedBatch generates embeddings for multiple texts, preserving input
// order. Empty strings are not sent through the runtime; they map to zero
// vectors. An empty slice returns nil without touching the runtime.
func (s *Service) EmbedBatch(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nonEmpty := make([]string, 0, len(texts))
	indices := make([]int, 0, len(texts))
	for i, t := range texts {
		if t != "" {
			nonEmpty = append(nonEmpty, t)
			indices = append(indices, i)
		}
	}

	results := make([][]float32, len(texts))
	for i := range results {
		results[i] = make([]float32, s.dim)
	}

	if len(nonEmpty) == 0 {
		return results, nil
	}

	embeddings, err := s.computeBatch(nonEmpty)
	if err != nil {
		return nil, fmt.Errorf("compute batch embeddings: %w", err)
	}
	for i, idx := range indices {
		results[idx] = embeddings[i]
	}

	return results, nil
}

// computeBatch tokenizes sentences, runs the graph, and mean-pools +
// L2-normalizes + divides by seq_len again (§4.1, §9 non-exact
// normalization preserved). Must be called with s.mu held.
func (s *Service) computeBatch(sentences []string) ([][]float32, error) {
	inputBatch := make([]tokenizer.EncodeInput, len(sentences))
	for i, sent := range sentences {
		inputBatch[i] = tokenizer.NewSingleEncodeInput(tokenizer.NewRawInputSequence(sent))
	}

	encodings, err := s.tk.EncodeBatch(inputBatch, true)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	batchSize := len(encodings)
	maxLen := 0
	for _, e := range encodings {
		if len(e.Ids) > maxLen {
			maxLen = len(e.Ids)
		}
	}
	if maxLen > maxSeqLen {
		maxLen = maxSeqLen
	}

	inputIdsData := make([]int64, batchSize*maxLen)
	attentionMaskData := make([]int64, batchSize*maxLen)
	tokenTypeIdsData := make([]int64, batchSize*maxLen)
	seqLens := make([]int, batchSize)

	for b := 0; b < batchSize; b++ {
		ids := encodings[b].Ids
		n := len(ids)
		if n > maxLen {
			n = maxLen
		}
		seqLens[b] = n
		for i := 0; i < n; i++ {
			inputIdsData[b*maxLen+i] = int64(ids[i])
			attentionMaskData[b*maxLen+i] = int64(encodings[b].AttentionMask[i])
			tokenTypeIdsData[b*maxLen+i] = int64(encodings[b].TypeIds[i])
		}
	}

	inputShape := ort.NewShape(int64(batchSize), int64(maxLen))

	inputIdsTensor, err := ort.NewTensor(inputShape, inputIdsData)
	if err != nil {
		return nil, fmt.Errorf("create input_ids tensor: %w", err)
	}
	defer inputIdsTensor.Destroy()

	attentionMaskTensor, err := ort.NewTensor(inputShape, attentionMaskData)
	if err != nil {
		return nil, fmt.Errorf("create attention_mask tensor: %w", err)
	}
	defer attentionMaskTensor.Destroy()

	tokenTypeIdsTensor, err := ort.NewTensor(inputShape, tokenTypeIdsData)
	if err != nil {
		return nil, fmt.Errorf("create token_type_ids tensor: %w", err)
	}
	defer tokenTypeIdsTensor.Destroy()

	outputShape := ort.NewShape(int64(batchSize), int64(maxLen), int64(s.dim))
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	inputTensors := []ort.Value{inputIdsTensor, attentionMaskTensor, tokenTypeIdsTensor}
	outputTensors := []ort.Value{outputTensor}

	if err := s.session.Run(inputTensors, outputTensors); err != nil {
		return nil, fmt.Errorf("run embedding inference: %w", err)
	}

	tokenEmbeddings := outputTensor.GetData()

	results := make([][]float32, batchSize)
	for i := 0; i < batchSize; i++ {
		seqLen := seqLens[i]
		sum := make([]float64, s.dim)
		base := i * maxLen * s.dim
		for j := 0; j < seqLen; j++ {
			rowBase := base + j*s.dim
			for k := 0; k < s.dim; k++ {
				sum[k] += float64(tokenEmbeddings[rowBase+k])
			}
		}

		var normSq float64
		for _, v := range sum {
			normSq += v * v
		}
		norm := 0.0
		if normSq > 0 {
			norm = math.Sqrt(normSq)
		}

		divisor := float64(seqLen)
		if divisor == 0 {
			divisor = 1
		}

		vec := make([]float32, s.dim)
		for k, v := range sum {
			if norm > 0 {
				v /= norm
			}
			vec[k] = float32(v / divisor)
		}
		results[i] = vec
	}

	return results, nil
}

// Close releases model resources. The shared ONNX Runtime environment is
// owned by internal/mlruntime and is not touched here.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	if err := s.session.Destroy(); err != nil {
		return fmt.Errorf("destroy embedding session: %w", err)
	}
	s.session = nil
	return nil
}
