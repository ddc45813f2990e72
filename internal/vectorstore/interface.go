// Package vectorstore defines the interface for vector storage operations
// and its chromem-go and Qdrant implementations.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Sentinel errors for vector store operations.
var (
	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidCollectionName indicates collection name validation failure.
	ErrInvalidCollectionName = errors.New("invalid collection name")

	// ErrEmptyBatch indicates an empty upsert batch.
	ErrEmptyBatch = errors.New("empty upsert batch")

	// ErrLengthMismatch indicates positionally misaligned upsert slices.
	ErrLengthMismatch = errors.New("ids, texts and embeddings must have equal length")

	// ErrDimensionMismatch indicates an embedding whose dimension does not
	// match the collection's configured vector size.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCollectionNotFound is returned when a collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")
)

// Embedder generates vector embeddings from text.
//
// Each store holds its own Embedder for query-time embedding. This is an
// intentional asymmetry with ingestion, which embeds externally and hands
// the store precomputed vectors.
type Embedder interface {
	// EmbedDocuments generates embeddings for multiple texts.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Store persists (id, text, embedding) triples keyed by id inside a named
// collection and answers nearest-neighbor queries by text.
//
// The store is the single source of truth for "has this chunk been
// ingested". Implementations:
//   - ChromemStore: embedded chromem-go, persistent on disk (default)
//   - QdrantStore: external Qdrant over gRPC
type Store interface {
	// Upsert inserts-or-replaces each (id, text, embedding) triple. The
	// three slices are positionally aligned; mismatched lengths fail with
	// ErrLengthMismatch before any write happens.
	Upsert(ctx context.Context, ids []string, texts []string, embeddings [][]float32) error

	// Query returns, for each query text, the k stored chunk texts most
	// similar to it, most similar first. Query texts are embedded by the
	// store's own embedder.
	Query(ctx context.Context, queryTexts []string, k int) ([][]string, error)

	// DocumentExists reports whether the document's first chunk (record id
	// docID + "-0") is present. A store error degrades to false, biasing
	// toward re-ingestion rather than data loss.
	DocumentExists(ctx context.Context, docID string) bool

	// Close releases resources held by the store.
	Close() error
}

// probeID derives the existence-probe record id for a document.
//
// Only the first chunk is probed: a document is assumed to be either fully
// ingested (chunk 0 present) or not ingested at all. A crash between chunk 0
// and later chunks is not detected by this heuristic.
func probeID(docID string) string {
	return docID + "-0"
}

// collectionNamePattern validates collection names: lowercase letters,
// numbers, underscores, 1-64 characters.
var collectionNamePattern = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

// ValidateCollectionName validates a collection name.
// Rejects uppercase, special characters, path separators and spaces.
func ValidateCollectionName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: collection name cannot be empty", ErrInvalidCollectionName)
	}
	if !collectionNamePattern.MatchString(name) {
		return fmt.Errorf("%w: collection name must match ^[a-z0-9_]{1,64}$, got %q", ErrInvalidCollectionName, name)
	}
	return nil
}

// validateBatch checks the Upsert precondition shared by all stores.
func validateBatch(ids []string, texts []string, embeddings [][]float32, vectorSize int) error {
	if len(ids) == 0 {
		return ErrEmptyBatch
	}
	if len(texts) != len(ids) || len(embeddings) != len(ids) {
		return fmt.Errorf("%w: ids=%d texts=%d embeddings=%d",
			ErrLengthMismatch, len(ids), len(texts), len(embeddings))
	}
	for i, emb := range embeddings {
		if len(emb) != vectorSize {
			return fmt.Errorf("%w: embedding %d has dimension %d, expected %d",
				ErrDimensionMismatch, i, len(emb), vectorSize)
		}
	}
	return nil
}
