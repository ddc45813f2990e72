package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/docrag/internal/chunk"
	"github.com/fyrsmithlabs/docrag/internal/config"
	"github.com/fyrsmithlabs/docrag/internal/document"
	"github.com/fyrsmithlabs/docrag/internal/embeddings"
	"github.com/fyrsmithlabs/docrag/internal/generate"
	"github.com/fyrsmithlabs/docrag/internal/ingest"
	"github.com/fyrsmithlabs/docrag/internal/logging"
	"github.com/fyrsmithlabs/docrag/internal/retrieval"
	"github.com/fyrsmithlabs/docrag/internal/vectorstore"
)

// app holds the wired pipeline components shared by all subcommands.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	provider  *embeddings.OpenAIProvider
	store     vectorstore.Store
	retriever *retrieval.Retriever
}

// newApp loads configuration and wires the embedding provider, vector store
// and retriever. Callers must call close when done.
func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(&logging.Config{Level: cfg.LogLevel, File: "docrag.log"})
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	provider, err := embeddings.NewOpenAIProvider(cfg.Embedding, logger)
	if err != nil {
		logging.Sync(logger)
		return nil, fmt.Errorf("initializing embedding provider: %w", err)
	}

	store, err := vectorstore.NewStore(cfg, provider, logger)
	if err != nil {
		_ = provider.Close()
		logging.Sync(logger)
		return nil, fmt.Errorf("initializing vector store: %w", err)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		provider:  provider,
		store:     store,
		retriever: retrieval.NewRetriever(store, logger),
	}, nil
}

// newOrchestrator builds the ingestion pipeline on top of the app wiring.
func (a *app) newOrchestrator() (*ingest.Orchestrator, error) {
	loader := document.NewLoader(a.cfg.DocsDirectory, a.logger)

	splitter, err := chunk.NewSplitter(a.cfg.Chunking.Size, a.cfg.Chunking.Overlap)
	if err != nil {
		return nil, fmt.Errorf("initializing splitter: %w", err)
	}

	return ingest.NewOrchestrator(loader, splitter, a.provider, a.store, a.logger), nil
}

// newChatModel builds the chat-completion model for generation commands.
func (a *app) newChatModel() (generate.ChatModel, error) {
	return generate.NewChatModel(a.cfg)
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing store", zap.Error(err))
	}
	if err := a.provider.Close(); err != nil {
		a.logger.Warn("closing embedding provider", zap.Error(err))
	}
	logging.Sync(a.logger)
}
