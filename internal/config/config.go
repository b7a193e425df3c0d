package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for reqwiz.
type Config struct {
	Backend    BackendConfig
	Generation GenerationConfig
	Embedding  EmbeddingConfig
	Corpus     CorpusConfig
	Store      StoreConfig
}

// Backend kinds.
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// BackendConfig selects and configures the generative backend.
type BackendConfig struct {
	Kind   string // "remote" or "local"
	Remote RemoteConfig
	Local  LocalConfig
}

// RemoteConfig configures the hosted chat-completion backend.
type RemoteConfig struct {
	BaseURL   string        // defaults to https://api.openai.com/v1
	Model     string        // e.g. "gpt-3.5-turbo"
	APIKey    string        // explicit key, expanded from env by Load; may be empty
	APIKeyEnv string        // env var consulted when APIKey is empty
	Timeout   time.Duration // per-request timeout
}

// LocalConfig configures the local model backend served by an Ollama daemon.
type LocalConfig struct {
	BaseURL   string
	Model     string
	KeepAlive string // passed through to the daemon; "-1" keeps the model loaded
	Timeout   time.Duration
}

// GenerationConfig holds suggestion generation defaults.
type GenerationConfig struct {
	Temperature    float64
	MaxTokens      int
	Count          int
	ContextDocs    int // reference excerpts added to the prompt when an index is built
	Retries        int // caller-side retries, 0 disables
	RetryBaseDelay time.Duration
}

// EmbeddingConfig selects the embedding function used by the index.
type EmbeddingConfig struct {
	Provider  string // tfidf, openai, ollama, gemini
	Model     string
	BaseURL   string
	APIKeyEnv string
	Dimension int
	CacheSize int // LRU entries in front of remote embedders, 0 disables
	Timeout   time.Duration
}

// CorpusConfig lists where reference documents come from.
type CorpusConfig struct {
	Paths       []string
	Concurrency int
	S3          S3Config
	Greenhouse  []string // board tokens
	Lever       []string // company slugs
}

// S3Config points at an S3-compatible bucket holding reference documents.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether an S3 source is configured.
func (s S3Config) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

// StoreConfig configures where selection sets are persisted.
type StoreConfig struct {
	Driver string // "sqlite" or "pgx"
	DSN    string
}

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultAPIKeyEnv     = "OPENAI_API_KEY"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Backend    rawBackendConfig    `yaml:"backend"`
	Generation rawGenerationConfig `yaml:"generation"`
	Embedding  rawEmbeddingConfig  `yaml:"embedding"`
	Corpus     rawCorpusConfig     `yaml:"corpus"`
	Store      rawStoreConfig      `yaml:"store"`
}

type rawBackendConfig struct {
	Kind   string `yaml:"kind"`
	Remote struct {
		BaseURL   string `yaml:"base_url"`
		Model     string `yaml:"model"`
		APIKey    string `yaml:"api_key"`
		APIKeyEnv string `yaml:"api_key_env"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"remote"`
	Local struct {
		BaseURL   string `yaml:"base_url"`
		Model     string `yaml:"model"`
		KeepAlive string `yaml:"keep_alive"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"local"`
}

type rawGenerationConfig struct {
	Temperature    *float64 `yaml:"temperature"`
	MaxTokens      int      `yaml:"max_tokens"`
	Count          int      `yaml:"count"`
	ContextDocs    *int     `yaml:"context_docs"`
	Retries        int      `yaml:"retries"`
	RetryBaseDelay string   `yaml:"retry_base_delay"`
}

type rawEmbeddingConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Dimension int    `yaml:"dimension"`
	CacheSize *int   `yaml:"cache_size"`
	Timeout   string `yaml:"timeout"`
}

type rawCorpusConfig struct {
	Paths       []string `yaml:"paths"`
	Concurrency int      `yaml:"concurrency"`
	S3          S3Config `yaml:"s3"`
	Greenhouse  []string `yaml:"greenhouse"`
	Lever       []string `yaml:"lever"`
}

type rawStoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		// The empty document always parses.
		panic(err)
	}
	return cfg
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse expands environment variables in data, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	remoteTimeout, err := parseDuration("backend.remote.timeout", raw.Backend.Remote.Timeout, 30*time.Second)
	if err != nil {
		return nil, err
	}
	// Local generation runs on the user's hardware and can be slow.
	localTimeout, err := parseDuration("backend.local.timeout", raw.Backend.Local.Timeout, 5*time.Minute)
	if err != nil {
		return nil, err
	}
	retryDelay, err := parseDuration("generation.retry_base_delay", raw.Generation.RetryBaseDelay, 2*time.Second)
	if err != nil {
		return nil, err
	}
	embedTimeout, err := parseDuration("embedding.timeout", raw.Embedding.Timeout, 30*time.Second)
	if err != nil {
		return nil, err
	}

	temperature := 0.7
	if raw.Generation.Temperature != nil {
		temperature = *raw.Generation.Temperature
	}
	contextDocs := 3
	if raw.Generation.ContextDocs != nil {
		contextDocs = *raw.Generation.ContextDocs
	}
	cacheSize := 1024
	if raw.Embedding.CacheSize != nil {
		cacheSize = *raw.Embedding.CacheSize
	}

	cfg := &Config{
		Backend: BackendConfig{
			Kind: strings.ToLower(orDefault(raw.Backend.Kind, BackendRemote)),
			Remote: RemoteConfig{
				BaseURL:   strings.TrimRight(orDefault(raw.Backend.Remote.BaseURL, defaultOpenAIBaseURL), "/"),
				Model:     orDefault(raw.Backend.Remote.Model, "gpt-3.5-turbo"),
				APIKey:    raw.Backend.Remote.APIKey,
				APIKeyEnv: orDefault(raw.Backend.Remote.APIKeyEnv, defaultAPIKeyEnv),
				Timeout:   remoteTimeout,
			},
			Local: LocalConfig{
				BaseURL:   strings.TrimRight(orDefault(raw.Backend.Local.BaseURL, defaultOllamaBaseURL), "/"),
				Model:     orDefault(raw.Backend.Local.Model, "llama3"),
				KeepAlive: orDefault(raw.Backend.Local.KeepAlive, "-1"),
				Timeout:   localTimeout,
			},
		},
		Generation: GenerationConfig{
			Temperature:    temperature,
			MaxTokens:      orDefaultInt(raw.Generation.MaxTokens, 400),
			Count:          orDefaultInt(raw.Generation.Count, 10),
			ContextDocs:    contextDocs,
			Retries:        raw.Generation.Retries,
			RetryBaseDelay: retryDelay,
		},
		Embedding: EmbeddingConfig{
			Provider:  strings.ToLower(orDefault(raw.Embedding.Provider, "tfidf")),
			Model:     raw.Embedding.Model,
			BaseURL:   strings.TrimRight(raw.Embedding.BaseURL, "/"),
			APIKeyEnv: raw.Embedding.APIKeyEnv,
			Dimension: raw.Embedding.Dimension,
			CacheSize: cacheSize,
			Timeout:   embedTimeout,
		},
		Corpus: CorpusConfig{
			Paths:       raw.Corpus.Paths,
			Concurrency: orDefaultInt(raw.Corpus.Concurrency, 4),
			S3:          raw.Corpus.S3,
			Greenhouse:  raw.Corpus.Greenhouse,
			Lever:       raw.Corpus.Lever,
		},
		Store: StoreConfig{
			Driver: strings.ToLower(orDefault(raw.Store.Driver, "sqlite")),
			DSN:    orDefault(raw.Store.DSN, "reqwiz.db"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Backend.Kind {
	case BackendRemote:
		if cfg.Backend.Remote.Model == "" {
			return fmt.Errorf("backend.remote.model is required")
		}
	case BackendLocal:
		if cfg.Backend.Local.Model == "" {
			return fmt.Errorf("backend.local.model is required")
		}
	default:
		return fmt.Errorf("backend.kind must be %q or %q, got %q", BackendRemote, BackendLocal, cfg.Backend.Kind)
	}

	g := cfg.Generation
	if g.Temperature < 0 || g.Temperature > 1 {
		return fmt.Errorf("generation.temperature must be between 0 and 1, got %v", g.Temperature)
	}
	if g.MaxTokens <= 0 {
		return fmt.Errorf("generation.max_tokens must be positive, got %d", g.MaxTokens)
	}
	if g.Count <= 0 {
		return fmt.Errorf("generation.count must be positive, got %d", g.Count)
	}
	if g.ContextDocs < 0 {
		return fmt.Errorf("generation.context_docs must not be negative, got %d", g.ContextDocs)
	}
	if g.Retries < 0 {
		return fmt.Errorf("generation.retries must not be negative, got %d", g.Retries)
	}

	switch cfg.Embedding.Provider {
	case "tfidf", "openai", "ollama", "gemini":
	default:
		return fmt.Errorf("embedding.provider %q is not supported", cfg.Embedding.Provider)
	}
	if cfg.Embedding.CacheSize < 0 {
		return fmt.Errorf("embedding.cache_size must not be negative, got %d", cfg.Embedding.CacheSize)
	}

	if cfg.Corpus.Concurrency <= 0 {
		return fmt.Errorf("corpus.concurrency must be positive, got %d", cfg.Corpus.Concurrency)
	}
	if s3 := cfg.Corpus.S3; (s3.Endpoint == "") != (s3.Bucket == "") {
		return fmt.Errorf("corpus.s3 needs both endpoint and bucket")
	}

	switch cfg.Store.Driver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("store.driver must be \"sqlite\" or \"pgx\", got %q", cfg.Store.Driver)
	}

	return nil
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", field, d)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
