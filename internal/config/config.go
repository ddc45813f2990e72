// Package config provides configuration loading for docrag.
//
// Configuration is read from a YAML file and overridden by environment
// variables. The embedding credential is never read from the file; it comes
// from the process environment only.
package config

import (
	"errors"
	"fmt"
	"os"
)

// Sentinel errors for configuration handling.
var (
	// ErrMissingKey is returned when a required configuration key is absent.
	ErrMissingKey = errors.New("missing required configuration key")

	// ErrInvalidValue is returned when a configuration value fails validation.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Config holds the complete docrag configuration.
type Config struct {
	// CollectionName identifies the vector store collection.
	CollectionName string `koanf:"collection_name"`

	// PersistDirectory is the on-disk path for the embedded vector store.
	PersistDirectory string `koanf:"persist_directory"`

	// DocsDirectory is the input directory scanned during ingestion.
	DocsDirectory string `koanf:"docs_directory"`

	// LogLevel is the severity threshold for diagnostic output.
	// One of: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	Chunking    ChunkingConfig    `koanf:"chunking"`
	Embedding   EmbeddingConfig   `koanf:"embedding"`
	Generation  GenerationConfig  `koanf:"generation"`
	Retrieval   RetrievalConfig   `koanf:"retrieval"`
	VectorStore VectorStoreConfig `koanf:"vectorstore"`
}

// ChunkingConfig controls how document text is split before embedding.
type ChunkingConfig struct {
	// Size is the chunk window length in bytes.
	Size int `koanf:"size"`

	// Overlap is the number of bytes shared between adjacent chunks.
	// Must be strictly smaller than Size.
	Overlap int `koanf:"overlap"`
}

// EmbeddingConfig holds settings for the external embedding provider.
type EmbeddingConfig struct {
	// BaseURL is the OpenAI-compatible API base URL.
	BaseURL string `koanf:"base_url"`

	// Model is the embedding model identifier.
	Model string `koanf:"model"`

	// APIKey is the provider credential. Populated from OPENAI_API_KEY,
	// never from the config file.
	APIKey Secret `koanf:"-"`
}

// GenerationConfig holds settings for the chat-completion boundary.
type GenerationConfig struct {
	// Model is the chat model identifier.
	Model string `koanf:"model"`
}

// RetrievalConfig controls query-time behavior.
type RetrievalConfig struct {
	// TopK is the number of chunks returned per query.
	TopK int `koanf:"top_k"`
}

// VectorStoreConfig selects and configures the store backend.
type VectorStoreConfig struct {
	// Provider is the store backend: "chromem" (default) or "qdrant".
	Provider string `koanf:"provider"`

	// VectorSize is the expected embedding dimension.
	// Must match the embedding model's output dimension.
	VectorSize int `koanf:"vector_size"`

	Qdrant QdrantConfig `koanf:"qdrant"`
}

// QdrantConfig holds connection settings for the Qdrant backend.
type QdrantConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// applyDefaults fills unset fields with defaults.
func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = 1000
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 20
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = "gpt-3.5-turbo"
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 2
	}
	if cfg.VectorStore.Provider == "" {
		cfg.VectorStore.Provider = "chromem"
	}
	if cfg.VectorStore.VectorSize == 0 {
		cfg.VectorStore.VectorSize = 1536 // text-embedding-3-small
	}
	if cfg.VectorStore.Qdrant.Host == "" {
		cfg.VectorStore.Qdrant.Host = "localhost"
	}
	if cfg.VectorStore.Qdrant.Port == 0 {
		cfg.VectorStore.Qdrant.Port = 6334
	}
	if !cfg.Embedding.APIKey.IsSet() {
		cfg.Embedding.APIKey = Secret(os.Getenv("OPENAI_API_KEY"))
	}
}

// Validate validates the configuration. Missing required keys and malformed
// values are fatal at startup.
func (c *Config) Validate() error {
	if c.CollectionName == "" {
		return fmt.Errorf("%w: collection_name", ErrMissingKey)
	}
	if c.PersistDirectory == "" {
		return fmt.Errorf("%w: persist_directory", ErrMissingKey)
	}
	if c.DocsDirectory == "" {
		return fmt.Errorf("%w: docs_directory", ErrMissingKey)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q (must be debug, info, warn or error)", ErrInvalidValue, c.LogLevel)
	}

	if c.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunking.size must be positive, got %d", ErrInvalidValue, c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("%w: chunking.overlap cannot be negative, got %d", ErrInvalidValue, c.Chunking.Overlap)
	}
	if c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("%w: chunking.overlap %d must be smaller than chunking.size %d",
			ErrInvalidValue, c.Chunking.Overlap, c.Chunking.Size)
	}

	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval.top_k must be positive, got %d", ErrInvalidValue, c.Retrieval.TopK)
	}

	switch c.VectorStore.Provider {
	case "chromem":
	case "qdrant":
		if c.VectorStore.Qdrant.Host == "" {
			return fmt.Errorf("%w: vectorstore.qdrant.host", ErrMissingKey)
		}
		if c.VectorStore.Qdrant.Port <= 0 || c.VectorStore.Qdrant.Port > 65535 {
			return fmt.Errorf("%w: vectorstore.qdrant.port %d", ErrInvalidValue, c.VectorStore.Qdrant.Port)
		}
	default:
		return fmt.Errorf("%w: vectorstore.provider %q (supported: chromem, qdrant)",
			ErrInvalidValue, c.VectorStore.Provider)
	}
	if c.VectorStore.VectorSize <= 0 {
		return fmt.Errorf("%w: vectorstore.vector_size must be positive, got %d",
			ErrInvalidValue, c.VectorStore.VectorSize)
	}

	return nil
}
