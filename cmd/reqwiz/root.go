package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/reqwiz/internal/config"
	"github.com/amishk599/reqwiz/internal/corpus"
	"github.com/amishk599/reqwiz/internal/embedding"
	"github.com/amishk599/reqwiz/internal/index"
	"github.com/amishk599/reqwiz/internal/llm"
	"github.com/amishk599/reqwiz/internal/session"
)

const defaultConfigPath = "config.yaml"

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:          "reqwiz",
	Short:        "Draft job requisitions with AI suggestions",
	Long:         "reqwiz suggests tasks, skills and benefits for a job title, grounded in a corpus of past job ads.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: REQWIZ_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > REQWIZ_CONFIG env var > "./config.yaml".
// Only the implicit default may be absent, in which case defaults apply.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("REQWIZ_CONFIG")
	}
	if path == "" {
		cfg, err := config.Load(defaultConfigPath)
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return cfg, err
	}
	return config.Load(path)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	// stdout carries command output.
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// corpusSources returns the configured reference sources plus any extra
// file patterns given on the command line.
func corpusSources(cfg *config.Config, extra []string, httpClient *http.Client) ([]corpus.Source, error) {
	var sources []corpus.Source
	if paths := append(append([]string{}, cfg.Corpus.Paths...), extra...); len(paths) > 0 {
		sources = append(sources, corpus.NewFileSource(paths, cfg.Corpus.Concurrency))
	}
	if cfg.Corpus.S3.Enabled() {
		s3, err := corpus.NewS3Source(cfg.Corpus.S3)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s3)
	}
	for _, token := range cfg.Corpus.Greenhouse {
		sources = append(sources, corpus.NewGreenhouseSource(token, httpClient))
	}
	for _, slug := range cfg.Corpus.Lever {
		sources = append(sources, corpus.NewLeverSource(slug, httpClient))
	}
	return sources, nil
}

// buildIndex creates the reference index and fills it from every corpus
// source. With no sources, or no documents, the index is returned empty.
func buildIndex(ctx context.Context, cfg *config.Config, extra []string, logger *slog.Logger) (*index.Index, error) {
	embedder, err := embedding.New(ctx, cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	ix := index.New(embedder, logger)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	sources, err := corpusSources(cfg, extra, httpClient)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		logger.Debug("no corpus sources configured")
		return ix, nil
	}

	docs, err := corpus.Collect(ctx, logger, sources...)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		logger.Warn("corpus sources returned no documents")
		return ix, nil
	}
	if err := ix.Build(ctx, docs); err != nil {
		return nil, err
	}
	logger.Info("reference index built", "documents", ix.Len(), "embedder", embedder.Name())
	return ix, nil
}

// newSession wires the configured backend and index into a session.
func newSession(ctx context.Context, cfg *config.Config, ix *index.Index, opts session.Options, logger *slog.Logger) (*session.Session, error) {
	backend, err := llm.New(ctx, cfg.Backend, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("backend ready", "backend", backend.Name())

	opts.MaxTokens = cfg.Generation.MaxTokens
	opts.ContextDocs = cfg.Generation.ContextDocs
	opts.Retries = cfg.Generation.Retries
	opts.RetryBaseDelay = cfg.Generation.RetryBaseDelay
	opts.Logger = logger
	return session.New(backend, ix, opts), nil
}
