// Package ingest orchestrates the document ingestion pipeline: load,
// deduplicate, chunk, embed, store.
package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/docrag/internal/document"
	"github.com/fyrsmithlabs/docrag/internal/vectorstore"
)

// Loader supplies the documents to ingest.
type Loader interface {
	Load(ctx context.Context) ([]document.Document, error)
}

// Splitter divides a document's text into chunks.
type Splitter interface {
	Split(text string) []string
}

// Embedder batch-embeds chunk texts before they reach the store.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Orchestrator runs the ingestion pipeline end to end. Documents already
// present in the store are skipped before any chunking or embedding work
// happens, so a rerun over an unchanged corpus costs no embedding calls.
type Orchestrator struct {
	loader   Loader
	splitter Splitter
	embedder Embedder
	store    vectorstore.Store
	logger   *zap.Logger
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(loader Loader, splitter Splitter, embedder Embedder, store vectorstore.Store, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		loader:   loader,
		splitter: splitter,
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Ingest loads all documents, skips the ones the store already holds,
// chunks and embeds the rest, and upserts everything in a single batch.
// It returns the number of newly stored chunks.
func (o *Orchestrator) Ingest(ctx context.Context) (int, error) {
	runID := uuid.NewString()
	log := o.logger.With(zap.String("run_id", runID))

	docs, err := o.loader.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading documents: %w", err)
	}
	log.Info("loaded documents", zap.Int("count", len(docs)))

	var fresh []document.Document
	for _, doc := range docs {
		if o.store.DocumentExists(ctx, doc.ID) {
			log.Debug("skipping already ingested document", zap.String("doc_id", doc.ID))
			continue
		}
		fresh = append(fresh, doc)
	}

	if len(fresh) == 0 {
		log.Info("no new documents to ingest")
		return 0, nil
	}

	var ids, texts []string
	for _, doc := range fresh {
		chunks := o.splitter.Split(doc.Text)
		for i, chunk := range chunks {
			ids = append(ids, fmt.Sprintf("%s-%d", doc.ID, i))
			texts = append(texts, chunk)
		}
		log.Debug("chunked document",
			zap.String("doc_id", doc.ID),
			zap.Int("chunks", len(chunks)),
		)
	}

	if len(ids) == 0 {
		log.Warn("new documents produced no chunks", zap.Int("documents", len(fresh)))
		return 0, nil
	}

	embeddings, err := o.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding %d chunks: %w", len(texts), err)
	}

	if err := o.store.Upsert(ctx, ids, texts, embeddings); err != nil {
		return 0, fmt.Errorf("storing %d chunks: %w", len(ids), err)
	}

	log.Info("ingestion complete",
		zap.Int("documents", len(fresh)),
		zap.Int("chunks", len(ids)),
		zap.Int("skipped", len(docs)-len(fresh)),
	)
	return len(ids), nil
}
