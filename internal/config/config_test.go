package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalYAML = `
collection_name: docs
persist_directory: /tmp/docrag
docs_directory: /tmp/docs
`

func TestLoad_MinimalConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, minimalYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "docs", cfg.CollectionName)
	assert.Equal(t, "/tmp/docrag", cfg.PersistDirectory)
	assert.Equal(t, "/tmp/docs", cfg.DocsDirectory)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1000, cfg.Chunking.Size)
	assert.Equal(t, 20, cfg.Chunking.Overlap)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Embedding.BaseURL)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Generation.Model)
	assert.Equal(t, 2, cfg.Retrieval.TopK)
	assert.Equal(t, "chromem", cfg.VectorStore.Provider)
	assert.Equal(t, 1536, cfg.VectorStore.VectorSize)
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_MissingRequiredKeys(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no collection_name", "persist_directory: /tmp/p\ndocs_directory: /tmp/d\n"},
		{"no persist_directory", "collection_name: docs\ndocs_directory: /tmp/d\n"},
		{"no docs_directory", "collection_name: docs\npersist_directory: /tmp/p\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.yaml)
			_, err := Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingKey)
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad log level", minimalYAML + "log_level: verbose\n"},
		{"overlap equals size", minimalYAML + "chunking:\n  size: 100\n  overlap: 100\n"},
		{"overlap exceeds size", minimalYAML + "chunking:\n  size: 100\n  overlap: 200\n"},
		{"negative overlap", minimalYAML + "chunking:\n  size: 100\n  overlap: -1\n"},
		{"negative top_k", minimalYAML + "retrieval:\n  top_k: -3\n"},
		{"unknown provider", minimalYAML + "vectorstore:\n  provider: pinecone\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.yaml)
			_, err := Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, minimalYAML)

	t.Setenv("DOCRAG_COLLECTION_NAME", "override")
	t.Setenv("DOCRAG_LOG_LEVEL", "debug")
	t.Setenv("DOCRAG_CHUNKING_SIZE", "500")
	t.Setenv("DOCRAG_RETRIEVAL_TOP_K", "5")
	t.Setenv("DOCRAG_VECTORSTORE_PROVIDER", "qdrant")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "override", cfg.CollectionName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 500, cfg.Chunking.Size)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, "qdrant", cfg.VectorStore.Provider)
	assert.Equal(t, "localhost", cfg.VectorStore.Qdrant.Host)
	assert.Equal(t, 6334, cfg.VectorStore.Qdrant.Port)
}

func TestLoad_EnvOverridesQdrantSubsection(t *testing.T) {
	path := writeConfigFile(t, minimalYAML)

	t.Setenv("DOCRAG_VECTORSTORE_QDRANT_HOST", "qdrant.internal")
	t.Setenv("DOCRAG_VECTORSTORE_QDRANT_PORT", "7334")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "qdrant.internal", cfg.VectorStore.Qdrant.Host)
	assert.Equal(t, 7334, cfg.VectorStore.Qdrant.Port)
}

func TestLoad_OverlapDefaultsIndependentlyOfSize(t *testing.T) {
	path := writeConfigFile(t, minimalYAML+"\nchunking:\n  size: 500\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Chunking.Size)
	assert.Equal(t, 20, cfg.Chunking.Overlap)
}

func TestLoad_APIKeyFromEnvOnly(t *testing.T) {
	path := writeConfigFile(t, minimalYAML)

	t.Setenv("OPENAI_API_KEY", "sk-test-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test-key", cfg.Embedding.APIKey.Value())
}

func TestTransformEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DOCRAG_COLLECTION_NAME", "collection_name"},
		{"DOCRAG_PERSIST_DIRECTORY", "persist_directory"},
		{"DOCRAG_CHUNKING_OVERLAP", "chunking.overlap"},
		{"DOCRAG_RETRIEVAL_TOP_K", "retrieval.top_k"},
		{"DOCRAG_VECTORSTORE_VECTOR_SIZE", "vectorstore.vector_size"},
		{"DOCRAG_VECTORSTORE_QDRANT_HOST", "vectorstore.qdrant.host"},
		{"DOCRAG_VECTORSTORE_QDRANT_PORT", "vectorstore.qdrant.port"},
		{"DOCRAG_LOG_LEVEL", "log_level"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, transformEnvKey(tt.in), tt.in)
	}
}

func TestSecret_Redaction(t *testing.T) {
	s := Secret("sk-very-secret")

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	assert.Equal(t, "Secret([REDACTED])", fmt.Sprintf("%#v", s))
	assert.Equal(t, "sk-very-secret", s.Value())
	assert.True(t, s.IsSet())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `"[REDACTED]"`, string(data))

	assert.False(t, Secret("").IsSet())
	assert.Equal(t, "", Secret("").String())
}
