// Package retrieval turns user queries into ranked context chunks from the
// vector store.
package retrieval

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/docrag/internal/vectorstore"
)

// ErrInvalidQuery indicates an empty or otherwise unusable query.
var ErrInvalidQuery = errors.New("invalid query")

// Retriever fetches the chunks most relevant to a query. Query embedding
// happens inside the store, so the retriever itself never touches the
// embedding provider.
type Retriever struct {
	store  vectorstore.Store
	logger *zap.Logger
}

// NewRetriever creates a Retriever backed by the given store.
func NewRetriever(store vectorstore.Store, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{store: store, logger: logger}
}

// Retrieve returns up to k chunk texts ranked by similarity to the query,
// most similar first. Fewer than k chunks are returned when the store holds
// fewer matches.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", ErrInvalidQuery)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidQuery, k)
	}

	results, err := r.store.Query(ctx, []string{query}, k)
	if err != nil {
		return nil, fmt.Errorf("querying store: %w", err)
	}

	// One query text in, one result list out. Flatten preserving rank order
	// in case a store ever returns multiple sublists.
	var chunks []string
	for _, sub := range results {
		chunks = append(chunks, sub...)
	}

	r.logger.Debug("retrieved context",
		zap.Int("k", k),
		zap.Int("chunks", len(chunks)),
	)
	return chunks, nil
}
