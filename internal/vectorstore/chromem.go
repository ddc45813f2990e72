package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// chromemTracer for OpenTelemetry instrumentation.
var chromemTracer = otel.Tracer("docrag.vectorstore.chromem")

// ChromemConfig holds configuration for the chromem-go embedded store.
type ChromemConfig struct {
	// Path is the directory for persistent storage.
	Path string

	// Compress enables gzip compression for stored data.
	Compress bool

	// Collection is the collection name.
	Collection string

	// VectorSize is the expected embedding dimension. Must match the
	// embedding provider's output dimension.
	VectorSize int
}

// Validate validates the configuration.
func (c *ChromemConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("%w: persist directory required", ErrInvalidConfig)
	}
	if c.VectorSize <= 0 {
		return fmt.Errorf("%w: vector size must be positive", ErrInvalidConfig)
	}
	return ValidateCollectionName(c.Collection)
}

// ChromemStore implements Store using chromem-go.
//
// chromem-go is an embeddable pure-Go vector database that persists each
// collection to gob files under the configured directory, so the collection
// survives process restarts. Concurrent access from multiple processes is
// not supported.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	config     ChromemConfig
	embedder   Embedder
	logger     *zap.Logger
}

// NewChromemStore opens (or creates) the persistent collection at the
// configured path.
func NewChromemStore(cfg ChromemConfig, embedder Embedder, logger *zap.Logger) (*ChromemStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	path, err := expandPath(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("expanding path: %w", err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", path, err)
	}

	db, err := chromem.NewPersistentDB(path, cfg.Compress)
	if err != nil {
		return nil, fmt.Errorf("creating chromem DB: %w", err)
	}

	store := &ChromemStore{
		db:       db,
		config:   cfg,
		embedder: embedder,
		logger:   logger,
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, store.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("getting/creating collection %s: %w", cfg.Collection, err)
	}
	store.collection = collection

	logger.Info("chromem store initialized",
		zap.String("path", path),
		zap.String("collection", cfg.Collection),
		zap.Int("vector_size", cfg.VectorSize),
		zap.Int("documents", collection.Count()),
	)

	return store, nil
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// embeddingFunc adapts the store's Embedder to chromem's query-time
// embedding hook.
func (s *ChromemStore) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

// Upsert inserts-or-replaces each (id, text, embedding) triple in the
// collection. Embeddings are precomputed by the caller; chromem performs no
// embedding work here.
func (s *ChromemStore) Upsert(ctx context.Context, ids []string, texts []string, embeddings [][]float32) error {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Upsert")
	defer span.End()

	span.SetAttributes(attribute.Int("batch_size", len(ids)))

	if err := validateBatch(ids, texts, embeddings, s.config.VectorSize); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	docs := make([]chromem.Document, len(ids))
	for i := range ids {
		docs[i] = chromem.Document{
			ID:        ids[i],
			Content:   texts[i],
			Embedding: embeddings[i],
		}
	}

	// Concurrency of 1: embeddings are already present, nothing to parallelize.
	if err := s.collection.AddDocuments(ctx, docs, 1); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upserting %d documents: %w", len(docs), err)
	}

	span.SetStatus(codes.Ok, "success")
	s.logger.Info("upserted documents",
		zap.String("collection", s.config.Collection),
		zap.Int("count", len(docs)),
	)
	return nil
}

// Query returns the k most similar stored texts for each query text, most
// similar first. Query embedding happens inside chromem via the store's own
// embedder.
func (s *ChromemStore) Query(ctx context.Context, queryTexts []string, k int) ([][]string, error) {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.Query")
	defer span.End()

	span.SetAttributes(
		attribute.Int("query_count", len(queryTexts)),
		attribute.Int("k", k),
	)

	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	// chromem requires nResults <= document count.
	limit := k
	if count := s.collection.Count(); count < limit {
		limit = count
	}

	results := make([][]string, len(queryTexts))
	for i, query := range queryTexts {
		if limit == 0 {
			results[i] = []string{}
			continue
		}
		if query == "" {
			return nil, fmt.Errorf("query text cannot be empty")
		}

		matches, err := s.collection.Query(ctx, query, limit, nil, nil)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("querying collection %s: %w", s.config.Collection, err)
		}

		texts := make([]string, len(matches))
		for j, m := range matches {
			texts[j] = m.Content
		}
		results[i] = texts
	}

	span.SetStatus(codes.Ok, "success")
	s.logger.Debug("queried collection",
		zap.String("collection", s.config.Collection),
		zap.Int("queries", len(queryTexts)),
		zap.Int("k", k),
	)
	return results, nil
}

// DocumentExists probes for the document's first chunk. Store errors degrade
// to false so a failed probe re-ingests rather than drops data.
func (s *ChromemStore) DocumentExists(ctx context.Context, docID string) bool {
	ctx, span := chromemTracer.Start(ctx, "ChromemStore.DocumentExists")
	defer span.End()

	id := probeID(docID)
	span.SetAttributes(attribute.String("probe_id", id))

	_, err := s.collection.GetByID(ctx, id)
	if err != nil {
		s.logger.Debug("document probe missed",
			zap.String("doc_id", docID),
			zap.String("probe_id", id),
			zap.Error(err),
		)
		return false
	}
	return true
}

// Close is a no-op: chromem persists on every mutation and holds no
// connections.
func (s *ChromemStore) Close() error {
	return nil
}
