// Package reranking provides cross-encoder reranking of search results: a
// neural pair-scorer over (query, document) concatenations that yields an
// ordered top-k (spec §4.2).
package reranking

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// MaxSequenceLength is the maximum combined query+document token length.
const MaxSequenceLength = 512

// Candidate is a reranker input document.
type Candidate struct {
	ID       string
	Content  string
	Score    float32
	Metadata map[string]string
}

// RankedDocument is the reranker output: original result plus zero-based
// original and new positions.
type RankedDocument struct {
	ID           string
	Content      string
	Score        float32
	Metadata     map[string]string
	OriginalRank int
	NewRank      int
}

// Config configures a new reranking Service.
type Config struct {
	ModelsDir string // directory containing <Name>/model.onnx and <Name>/tokenizer.json
	Name      string // model subdirectory name, e.g. "ms-marco-MiniLM-L-6-v2"
}

// Service provides cross-encoder reranking.
type Service struct {
	tk      *tokenizer.Tokenizer
	session *ort.DynamicAdvancedSession
	mu      sync.Mutex
	name    string
}

// NewService loads the cross-encoder tokenizer and ONNX graph for
// cfg.Name from cfg.ModelsDir at runtime.
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
		return nil, fmt.Errorf("read reranker model %s: %w", modelFile, err)
	}

	tokenizerFd, err := os.Open(tokenizerFile)
	if err != nil {
		return nil, fmt.Errorf("open reranker tokenizer %s: %w", tokenizerFile, err)
	}
	defer tokenizerFd.Close()

	tk, err := pretrained.FromReader(tokenizerFd)
	if err != nil {
		return nil, fmt.Errorf("load reranker tokenizer: %w", err)
	}
	tk.WithTruncation(&tokenizer.TruncationParams{
		MaxLength: MaxSequenceLength,
		Strategy:  tokenizer.LongestFirst,
		Stride:    0,
	})

	inputNames := []string{"input_ids", "attention_mask", "token_type_ids"}
	outputNames := []string{"logits"}

	session, err := ort.NewDynamicAdvancedSessionWithONNXData(modelData, inputNames, outputNames, nil)
	if err != nil {
		outputNames = []string{"output"}
		session, err = ort.NewDynamicAdvancedSessionWithONNXData(modelData, inputNames, outputNames, nil)
		if err != nil {
			return nil, fmt.Errorf("create cross-encoder ONNX session: %w", err)
		}
	}

	return &Service{tk: tk, session: session, name: cfg.Name}, nil
}

// Name returns the configured model name.
func (s *Service) Name() string { return s.name }

// Rerank scores each (query, doc) pair with the cross-encoder and returns
// the documents sorted by score descending, truncated to top_k. Ties are
// broken by the smaller original_rank. An empty input yields empty output.
func (s *Service) Rerank(query string, docs []Candidate, topK int) ([]RankedDocument, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	if topK <= 0 {
		topK = len(docs)
	}

	s.mu.Lock()
	scores, err := s.scoreAll(query, docs)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	type scored struct {
		idx   int
		score float32
	}
	ranked := make([]scored, len(docs))
	for i := range docs {
		ranked[i] = scored{idx: i, score: scores[i]}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].idx < ranked[j].idx
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	out := make([]RankedDocument, len(ranked))
	for newRank, r := range ranked {
		d := docs[r.idx]
		out[newRank] = RankedDocument{
			ID:           d.ID,
			Content:      d.Content,
			Score:        r.score,
			Metadata:     d.Metadata,
			OriginalRank: r.idx,
			NewRank:      newRank,
		}
	}
	return out, nil
}

// scoreAll builds (query, content) pairs, tokenizes, runs inference, and
// interprets the logits output per §4.2: rank-2 with ≥2 columns uses column
// 1 (positive class), rank-2 with 1 column uses column 0, rank-1 uses the
// element directly. Must be called with s.mu held.
func (s *Service) scoreAll(query string, docs []Candidate) ([]float32, error) {
	batchSize := len(docs)

	pairs := make([]tokenizer.EncodeInput, batchSize)
	for i, d := range docs {
		pairs[i] = tokenizer.NewDualEncodeInput(
			tokenizer.NewRawInputSequence(query),
			tokenizer.NewRawInputSequence(d.Content),
		)
	}

	encodings, err := s.tk.EncodeBatch(pairs, true)
	if err != nil {
		return nil, fmt.Errorf("tokenize pairs: %w", err)
	}

	seqLength := 0
	for _, enc := range encodings {
		if len(enc.Ids) > seqLength {
			seqLength = len(enc.Ids)
		}
	}
	if seqLength > MaxSequenceLength {
		seqLength = MaxSequenceLength
	}

	inputShape := ort.NewShape(int64(batchSize), int64(seqLength))

	inputIdsData := make([]int64, batchSize*seqLength)
	attentionMaskData := make([]int64, batchSize*seqLength)
	tokenTypeIdsData := make([]int64, batchSize*seqLength)

	for b := 0; b < batchSize; b++ {
		n := len(encodings[b].Ids)
		if n > seqLength {
			n = seqLength
		}
		for i := 0; i < n; i++ {
			inputIdsData[b*seqLength+i] = int64(encodings[b].Ids[i])
			attentionMaskData[b*seqLength+i] = int64(encodings[b].AttentionMask[i])
			tokenTypeIdsData[b*seqLength+i] = int64(encodings[b].TypeIds[i])
		}
	}

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

	// Cross-encoder heads of this size emit a single relevance logit per
	// pair ([batch, 1]); the score interpretation below still handles a
	// wider output defensively in case cols ever comes back >1.
	outputShape := ort.NewShape(int64(batchSize), 1)
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	inputTensors := []ort.Value{inputIdsTensor, attentionMaskTensor, tokenTypeIdsTensor}
	outputTensors := []ort.Value{outputTensor}

	if err := s.session.Run(inputTensors, outputTensors); err != nil {
		return nil, fmt.Errorf("run cross-encoder inference: %w", err)
	}

	flat := outputTensor.GetData()
	scores := make([]float32, batchSize)
	cols := len(flat) / batchSize
	for i := 0; i < batchSize; i++ {
		switch {
		case cols >= 2:
			scores[i] = flat[i*cols+1]
		case cols == 1:
			scores[i] = flat[i*cols]
		default:
			scores[i] = flat[i]
		}
	}
	return scores, nil
}

// Close releases model resources.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	if err := s.session.Destroy(); err != nil {
		return fmt.Errorf("destroy cross-encoder session: %w", err)
	}
	s.session = nil
	return nil
}
