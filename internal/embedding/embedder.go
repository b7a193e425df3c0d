// Package embedding provides the embedding functions the index is built with.
package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amishk599/reqwiz/internal/config"
)

// Embedder turns texts into fixed-dimension vectors, one per input, in order.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Fitter is implemented by embedders whose vector space depends on the corpus.
// Fit returns a fitted copy and leaves the receiver untouched.
type Fitter interface {
	Fit(corpus []string) (Embedder, error)
}

const (
	defaultOpenAIModel = "text-embedding-3-small"
	defaultOllamaModel = "nomic-embed-text"
	defaultGeminiModel = "text-embedding-004"
	defaultGeminiKey   = "GEMINI_API_KEY"
	defaultOpenAIKey   = "OPENAI_API_KEY"
)

// New maps the embedding section of the config onto an embedder. Remote
// embedders are wrapped in an LRU cache when cfg.CacheSize is positive.
func New(ctx context.Context, cfg config.EmbeddingConfig) (Embedder, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	var e Embedder
	switch cfg.Provider {
	case "tfidf", "":
		return NewTFIDF(), nil
	case "openai":
		key, err := config.ResolveAPIKey("openai embedding", "", orDefault(cfg.APIKeyEnv, defaultOpenAIKey))
		if err != nil {
			return nil, err
		}
		e = NewOpenAI(cfg.BaseURL, key, orDefault(cfg.Model, defaultOpenAIModel), cfg.Dimension, client)
	case "ollama":
		e = NewOllama(cfg.BaseURL, orDefault(cfg.Model, defaultOllamaModel), client)
	case "gemini":
		key, err := config.ResolveAPIKey("gemini embedding", "", orDefault(cfg.APIKeyEnv, defaultGeminiKey))
		if err != nil {
			return nil, err
		}
		g, err := NewGemini(ctx, key, orDefault(cfg.Model, defaultGeminiModel), cfg.Dimension)
		if err != nil {
			return nil, err
		}
		e = g
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}

	if cfg.CacheSize > 0 {
		return NewCached(e, cfg.CacheSize)
	}
	return e, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// checkCount guards against providers returning fewer vectors than inputs.
func checkCount(provider string, got, want int) error {
	if got != want {
		return fmt.Errorf("%s embedding count mismatch: got %d, expected %d", provider, got, want)
	}
	return nil
}
