package embedder

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables consulted by NewFromEnv
const (
	EnvProvider   = "DESIGNCTX_EMBEDDING_PROVIDER"
	EnvDimensions = "DESIGNCTX_EMBEDDING_DIMENSIONS"
	EnvCacheSize  = "DESIGNCTX_EMBEDDING_CACHE_SIZE"
)

// Config holds embedder configuration
type Config struct {
	Provider  string
	APIKey    string
	Host      string
	Model     string
	Dimension int
	CacheSize int
}

// NewFromEnv creates an embedder based on environment variables.
// Priority:
// 1. DESIGNCTX_EMBEDDING_PROVIDER (openai, ollama, local)
// 2. OPENAI_API_KEY present: openai
// 3. Fallback to the local provider
func NewFromEnv() (Embedder, error) {
	cacheSize := 10000
	if raw := os.Getenv(EnvCacheSize); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cacheSize = n
		}
	}

	dimension := 0
	if raw := os.Getenv(EnvDimensions); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			dimension = n
		}
	}

	cache := NewCache(cacheSize)

	if provider := os.Getenv(EnvProvider); provider != "" {
		switch strings.ToLower(provider) {
		case ProviderOpenAI:
			return NewOpenAIProvider("", dimension, cache)
		case ProviderOllama:
			return NewOllamaProvider("", "", cache)
		case ProviderLocal:
			return NewLocalProvider(cache)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
		}
	}

	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return NewOpenAIProvider("", dimension, cache)
	}

	return NewLocalProvider(cache)
}

// New creates an embedder with explicit configuration
func New(cfg Config) (Embedder, error) {
	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Dimension, cache)
	case ProviderOllama:
		return NewOllamaProvider(cfg.Host, cfg.Model, cache)
	case ProviderLocal:
		return NewLocalProvider(cache)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}

// DetectProvider returns the provider NewFromEnv would select
func DetectProvider() string {
	if provider := os.Getenv(EnvProvider); provider != "" {
		return strings.ToLower(provider)
	}
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}
	return ProviderLocal
}
