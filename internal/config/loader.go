package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultConfigPath is the config file looked up when none is given.
	DefaultConfigPath = "config.yaml"

	// envPrefix namespaces docrag environment overrides.
	envPrefix = "DOCRAG_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// configSections are the nested sections of Config. Environment variables
// whose first underscore-delimited token matches a section are mapped to
// nested keys; everything else maps to a top-level key.
var configSections = map[string]bool{
	"chunking":    true,
	"embedding":   true,
	"generation":  true,
	"retrieval":   true,
	"vectorstore": true,
}

// Load loads configuration from the YAML file at configPath, then overrides
// with DOCRAG_-prefixed environment variables.
//
// Precedence (highest to lowest):
//  1. Environment variables (DOCRAG_COLLECTION_NAME, DOCRAG_RETRIEVAL_TOP_K, ...)
//  2. YAML config file
//  3. Hardcoded defaults
//
// The embedding credential is taken from OPENAI_API_KEY regardless of the
// file contents. A missing or malformed config file is a fatal startup error.
//
// Environment variable mapping:
//
//	DOCRAG_COLLECTION_NAME     -> collection_name
//	DOCRAG_CHUNKING_SIZE       -> chunking.size
//	DOCRAG_VECTORSTORE_PROVIDER -> vectorstore.provider
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		configPath = DefaultConfigPath
	}

	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("opening config file %s: %w", configPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("%w: config file %s exceeds %d bytes", ErrInvalidValue, configPath, maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", transformEnvKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// transformEnvKey maps a DOCRAG_ environment variable to a koanf key.
//
//	DOCRAG_COLLECTION_NAME        -> collection_name
//	DOCRAG_CHUNKING_OVERLAP       -> chunking.overlap
//	DOCRAG_RETRIEVAL_TOP_K        -> retrieval.top_k
//	DOCRAG_VECTORSTORE_QDRANT_HOST -> vectorstore.qdrant.host
func transformEnvKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))

	parts := strings.SplitN(lower, "_", 2)
	if len(parts) != 2 || !configSections[parts[0]] {
		return lower
	}

	rest := parts[1]
	// vectorstore holds the one doubly-nested subsection.
	if parts[0] == "vectorstore" {
		if sub, ok := strings.CutPrefix(rest, "qdrant_"); ok {
			return "vectorstore.qdrant." + sub
		}
	}
	return parts[0] + "." + rest
}
