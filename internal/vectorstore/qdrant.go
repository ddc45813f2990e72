package vectorstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// qdrantTracer for OpenTelemetry instrumentation.
var qdrantTracer = otel.Tracer("docrag.vectorstore.qdrant")

// pointNamespace is the UUIDv5 namespace for deriving Qdrant point ids from
// chunk ids. Qdrant only accepts UUID or integer point ids, so the chunk id
// is hashed deterministically; the original id is kept in the payload.
var pointNamespace = uuid.MustParse("8a6e1cb4-6f02-46a9-9e14-54f1b07dd031")

// payload keys for stored points.
const (
	payloadContent = "content"
	payloadChunkID = "chunk_id"
)

// QdrantConfig holds configuration for the Qdrant gRPC backend.
type QdrantConfig struct {
	// Host is the Qdrant server hostname or IP address.
	Host string

	// Port is the Qdrant gRPC port (6334 by default, not the HTTP 6333).
	Port int

	// Collection is the collection name.
	Collection string

	// VectorSize is the embedding dimension. Must match the embedding
	// provider's output dimension.
	VectorSize int

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool
}

// Validate validates the configuration.
func (c *QdrantConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: host required", ErrInvalidConfig)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: invalid port: %d", ErrInvalidConfig, c.Port)
	}
	if c.VectorSize <= 0 {
		return fmt.Errorf("%w: vector size must be positive", ErrInvalidConfig)
	}
	return ValidateCollectionName(c.Collection)
}

// QdrantStore implements Store against an external Qdrant server.
type QdrantStore struct {
	client   *qdrant.Client
	config   QdrantConfig
	embedder Embedder
	logger   *zap.Logger

	mu      sync.Mutex
	ensured bool
}

// NewQdrantStore connects to the configured Qdrant server. The collection is
// created on first use.
func NewQdrantStore(cfg QdrantConfig, embedder Embedder, logger *zap.Logger) (*QdrantStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to Qdrant at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	logger.Info("qdrant store initialized",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("collection", cfg.Collection),
		zap.Int("vector_size", cfg.VectorSize),
	)

	return &QdrantStore{
		client:   client,
		config:   cfg,
		embedder: embedder,
		logger:   logger,
	}, nil
}

// pointID derives the deterministic UUIDv5 point id for a record id.
func pointID(recordID string) *qdrant.PointId {
	return qdrant.NewIDUUID(uuid.NewSHA1(pointNamespace, []byte(recordID)).String())
}

// ensureCollection creates the collection if it does not exist yet.
func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured {
		return nil
	}

	exists, err := s.client.CollectionExists(ctx, s.config.Collection)
	if err != nil {
		return fmt.Errorf("checking collection %s: %w", s.config.Collection, err)
	}
	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.config.Collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(s.config.VectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("creating collection %s: %w", s.config.Collection, err)
		}
		s.logger.Info("created qdrant collection", zap.String("collection", s.config.Collection))
	}

	s.ensured = true
	return nil
}

// Upsert inserts-or-replaces each (id, text, embedding) triple as a point in
// the collection.
func (s *QdrantStore) Upsert(ctx context.Context, ids []string, texts []string, embeddings [][]float32) error {
	ctx, span := qdrantTracer.Start(ctx, "QdrantStore.Upsert")
	defer span.End()

	span.SetAttributes(attribute.Int("batch_size", len(ids)))

	if err := validateBatch(ids, texts, embeddings, s.config.VectorSize); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.ensureCollection(ctx); err != nil {
		span.RecordError(err)
		return err
	}

	points := make([]*qdrant.PointStruct, len(ids))
	for i := range ids {
		payload := map[string]*qdrant.Value{
			payloadContent: {Kind: &qdrant.Value_StringValue{StringValue: texts[i]}},
			payloadChunkID: {Kind: &qdrant.Value_StringValue{StringValue: ids[i]}},
		}
		points[i] = &qdrant.PointStruct{
			Id:      pointID(ids[i]),
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: payload,
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.config.Collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upserting %d points: %w", len(points), err)
	}

	span.SetStatus(codes.Ok, "success")
	s.logger.Info("upserted points",
		zap.String("collection", s.config.Collection),
		zap.Int("count", len(points)),
	)
	return nil
}

// Query returns the k most similar stored texts for each query text. The
// query vector is computed with the store's own embedder.
func (s *QdrantStore) Query(ctx context.Context, queryTexts []string, k int) ([][]string, error) {
	ctx, span := qdrantTracer.Start(ctx, "QdrantStore.Query")
	defer span.End()

	span.SetAttributes(
		attribute.Int("query_count", len(queryTexts)),
		attribute.Int("k", k),
	)

	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	if err := s.ensureCollection(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	results := make([][]string, len(queryTexts))
	for i, query := range queryTexts {
		vector, err := s.embedder.EmbedQuery(ctx, query)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("embedding query: %w", err)
		}

		scored, err := s.client.Query(ctx, &qdrant.QueryPoints{
			CollectionName: s.config.Collection,
			Query:          qdrant.NewQuery(vector...),
			Limit:          qdrant.PtrOf(uint64(k)),
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("querying collection %s: %w", s.config.Collection, err)
		}

		texts := make([]string, 0, len(scored))
		for _, point := range scored {
			if v, ok := point.Payload[payloadContent]; ok {
				texts = append(texts, v.GetStringValue())
			}
		}
		results[i] = texts
	}

	span.SetStatus(codes.Ok, "success")
	return results, nil
}

// DocumentExists probes for the document's first chunk by its derived point
// id. Any error degrades to false.
func (s *QdrantStore) DocumentExists(ctx context.Context, docID string) bool {
	ctx, span := qdrantTracer.Start(ctx, "QdrantStore.DocumentExists")
	defer span.End()

	if err := s.ensureCollection(ctx); err != nil {
		s.logger.Warn("existence probe failed, assuming not present",
			zap.String("doc_id", docID),
			zap.Error(err),
		)
		return false
	}

	points, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.config.Collection,
		Ids:            []*qdrant.PointId{pointID(probeID(docID))},
	})
	if err != nil {
		s.logger.Warn("existence probe failed, assuming not present",
			zap.String("doc_id", docID),
			zap.Error(err),
		)
		return false
	}
	return len(points) > 0
}

// Close closes the gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}
