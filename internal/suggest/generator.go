// Package suggest turns a job title into categorized suggestions and
// implements the protocol by which callers consume them.
package suggest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/amishk599/reqwiz/internal/index"
	"github.com/amishk599/reqwiz/internal/llm"
	"github.com/amishk599/reqwiz/internal/model"
)

const (
	defaultMaxTokens = 400
	maxExcerptRunes  = 600
)

// Retriever finds reference documents similar to a query.
type Retriever interface {
	Query(ctx context.Context, text string, k int) ([]index.Result, error)
}

// Generator builds a category prompt, asks the backend to complete it and
// parses the reply into suggestions.
type Generator struct {
	backend   llm.Backend
	retriever Retriever
	refs      int
	maxTokens int
	logger    *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRetriever adds up to k similar reference documents to every prompt.
func WithRetriever(r Retriever, k int) Option {
	return func(g *Generator) {
		g.retriever = r
		g.refs = k
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

func NewGenerator(backend llm.Backend, logger *slog.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	g := &Generator{backend: backend, maxTokens: defaultMaxTokens, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns up to req.Count distinct, non-empty suggestions in
// generation order. Fewer items than requested is a normal outcome.
//
// An unknown category fails with *model.InvalidCategoryError before anything
// else happens. Failures after validation are wrapped in
// *model.SuggestionGenerationError; nothing is cached or retried.
func (g *Generator) Generate(ctx context.Context, req model.GenerationRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt, err := g.buildPrompt(ctx, req)
	if err != nil {
		return nil, &model.SuggestionGenerationError{Category: req.Category, Err: err}
	}

	raw, err := g.backend.Complete(ctx, llm.CompletionRequest{
		Prompt:        prompt,
		SystemMessage: SystemMessage,
		Temperature:   req.Temperature,
		MaxTokens:     g.maxTokens,
	})
	if err != nil {
		return nil, &model.SuggestionGenerationError{Category: req.Category, Err: err}
	}

	items := ParseSuggestions(raw, req.Count)
	g.logger.Info("suggestions generated",
		"category", req.Category,
		"job_title", req.JobTitle,
		"requested", req.Count,
		"count", len(items),
		"backend", g.backend.Name(),
	)
	return items, nil
}

func (g *Generator) buildPrompt(ctx context.Context, req model.GenerationRequest) (string, error) {
	data := promptData{JobTitle: req.JobTitle, Count: req.Count}

	if g.retriever != nil && g.refs > 0 {
		results, err := g.retriever.Query(ctx, req.JobTitle, g.refs)
		if err != nil {
			return "", fmt.Errorf("retrieve references: %w", err)
		}
		for _, r := range results {
			data.References = append(data.References, excerpt(r.Document.Text))
		}
		g.logger.Debug("references retrieved", "job_title", req.JobTitle, "docs", len(results))
	}

	var buf bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&buf, string(req.Category)+".tmpl", data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// excerpt shortens text to a prompt-friendly size without splitting a rune.
func excerpt(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= maxExcerptRunes {
		return text
	}
	return string([]rune(text)[:maxExcerptRunes]) + "..."
}
