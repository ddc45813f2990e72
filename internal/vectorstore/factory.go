package vectorstore

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/docrag/internal/config"
)

// NewStore creates a Store from the application configuration.
//
// The provider field selects the backend:
//   - "chromem" (default): embedded persistent store, no external service
//   - "qdrant": external Qdrant server over gRPC
//
// The embedder is used for query-time embedding only; ingestion hands the
// store precomputed vectors.
func NewStore(cfg *config.Config, embedder Embedder, logger *zap.Logger) (Store, error) {
	switch cfg.VectorStore.Provider {
	case "chromem", "":
		return NewChromemStore(ChromemConfig{
			Path:       cfg.PersistDirectory,
			Collection: cfg.CollectionName,
			VectorSize: cfg.VectorStore.VectorSize,
		}, embedder, logger)

	case "qdrant":
		return NewQdrantStore(QdrantConfig{
			Host:       cfg.VectorStore.Qdrant.Host,
			Port:       cfg.VectorStore.Qdrant.Port,
			Collection: cfg.CollectionName,
			VectorSize: cfg.VectorStore.VectorSize,
		}, embedder, logger)

	default:
		return nil, fmt.Errorf("%w: unsupported vectorstore provider %q (supported: chromem, qdrant)",
			ErrInvalidConfig, cfg.VectorStore.Provider)
	}
}
