// Package main provides the entry point for the hybrid retrieval service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/ragd/internal/bm25index"
	"github.com/thebtf/ragd/internal/config"
	"github.com/thebtf/ragd/internal/embedding"
	"github.com/thebtf/ragd/internal/mlruntime"
	"github.com/thebtf/ragd/internal/reranking"
	"github.com/thebtf/ragd/internal/search"
	"github.com/thebtf/ragd/internal/skills"
	"github.com/thebtf/ragd/internal/transport"
	"github.com/thebtf/ragd/internal/vectorstore"
)

var Version = "dev"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		log.Warn().Err(cfgErr).Msg("failed to load configuration, falling back to defaults")
	}
	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().Str("version", Version).Msg("starting retrieval service")

	if err := mlruntime.Initialize(cfg.Models.OnnxLibraryPath); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize ONNX runtime environment")
	}
	defer func() {
		if err := mlruntime.Shutdown(); err != nil {
			log.Error().Err(err).Msg("error shutting down ONNX runtime environment")
		}
	}()

	embedder, err := embedding.NewService(embedding.Config{
		ModelsDir: cfg.Models.ModelsDir,
		Name:      cfg.Models.EmbeddingModel,
		Threads:   cfg.Models.OnnxIntraThreads,
	})
	if err != nil {
		log.Warn().Err(err).Msg("embedding model unavailable; /v1/embed and vector search will report not_initialized")
	} else {
		defer embedder.Close()
	}

	reranker, err := reranking.NewService(reranking.Config{
		ModelsDir: cfg.Models.ModelsDir,
		Name:      cfg.Models.RerankerModel,
	})
	if err != nil {
		log.Warn().Err(err).Msg("reranker model unavailable; /v1/rerank will report not_initialized and use_reranking searches return unreranked results")
	} else {
		defer reranker.Close()
	}

	vsClient, err := vectorstore.NewClient(vectorstore.Config{
		Host:             cfg.VectorStore.Host,
		Port:             cfg.VectorStore.Port,
		CollectionPrefix: cfg.VectorStore.CollectionPrefix,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to vector store")
	}

	bm25Store := bm25index.NewStore()

	var embedderForCoordinator search.Embedder
	if embedder != nil {
		embedderForCoordinator = embedder
	}

	// FetchMultiplier is the hybrid per-branch fetch_k = 3*top_k constant
	// (spec §4.5), distinct from cfg.Search.RerankFetchMultiplier, which
	// only governs the rerank-chaining fetch in the transport layer.
	coordinator := search.NewCoordinator(embedderForCoordinator, vsClient, bm25Store, search.Config{
		RRFK:   cfg.Search.RRFK,
		Logger: log.Logger,
	})

	extractor := skills.NewExtractor()

	var embedderForServer transport.Embedder
	if embedder != nil {
		embedderForServer = embedder
	}
	var rerankerForServer transport.Reranker
	if reranker != nil {
		rerankerForServer = reranker
	}

	server := transport.NewServer(embedderForServer, rerankerForServer, coordinator, vsClient, bm25Store, extractor, transport.Config{
		RerankFetchMultiplier: cfg.Search.RerankFetchMultiplier,
		Version:               Version,
		Logger:                log.Logger,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.RPCPort),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}

	log.Info().Msg("retrieval service shutdown complete")
}
