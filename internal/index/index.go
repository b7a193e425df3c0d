// Package index is an in-memory semantic index over a reference corpus.
package index

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/amishk599/reqwiz/internal/embedding"
	"github.com/amishk599/reqwiz/internal/model"
)

// Result is one nearest-neighbor match.
type Result struct {
	Document model.Document
	Score    float32 // cosine similarity in [-1, 1]
	Position int     // position of the document in the corpus passed to Build
}

// snapshot is everything produced by one successful build. It is swapped in
// whole, so a failed build never leaves a partial index behind.
type snapshot struct {
	embedder embedding.Embedder
	docs     []model.Document
	vectors  [][]float32
}

// Index answers top-k cosine similarity queries with brute force over
// normalized vectors.
type Index struct {
	embedder embedding.Embedder
	logger   *slog.Logger

	mu    sync.RWMutex
	state *snapshot
}

// New creates an empty index that embeds with e.
func New(e embedding.Embedder, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Index{embedder: e, logger: logger}
}

// Build replaces the index with the given documents. It returns
// model.ErrEmptyCorpus for an empty corpus and rejects blank documents.
// On any error the previous index, if any, stays in place.
func (ix *Index) Build(ctx context.Context, docs []model.Document) error {
	if len(docs) == 0 {
		return model.ErrEmptyCorpus
	}
	for i, d := range docs {
		if strings.TrimSpace(d.Text) == "" {
			return fmt.Errorf("build index: document %d (%s) is blank", i, d.Origin)
		}
	}

	texts := model.Texts(docs)
	e := ix.embedder
	if f, ok := e.(embedding.Fitter); ok {
		fitted, err := f.Fit(texts)
		if err != nil {
			return fmt.Errorf("build index: %w", err)
		}
		e = fitted
	}

	raw, err := e.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("build index: embed corpus: %w", err)
	}
	if len(raw) != len(docs) {
		return fmt.Errorf("build index: got %d vectors for %d documents", len(raw), len(docs))
	}

	dim := len(raw[0])
	vectors := make([][]float32, len(raw))
	for i, v := range raw {
		if len(v) != dim {
			return fmt.Errorf("build index: vector %d has dimension %d, want %d", i, len(v), dim)
		}
		vectors[i] = normalize(v)
	}

	next := &snapshot{
		embedder: e,
		docs:     slices.Clone(docs),
		vectors:  vectors,
	}

	ix.mu.Lock()
	ix.state = next
	ix.mu.Unlock()

	ix.logger.Debug("index built", "docs", len(docs), "dimension", dim, "embedder", e.Name())
	return nil
}

// Query returns up to min(k, Len()) documents ranked by descending cosine
// similarity to text. Equal scores keep corpus order. It returns
// model.ErrIndexNotBuilt before the first successful Build, and an empty
// result for k <= 0.
func (ix *Index) Query(ctx context.Context, text string, k int) ([]Result, error) {
	ix.mu.RLock()
	state := ix.state
	ix.mu.RUnlock()

	if state == nil {
		return nil, model.ErrIndexNotBuilt
	}
	if k <= 0 {
		return []Result{}, nil
	}

	qv, err := state.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("query index: embed query: %w", err)
	}
	if len(qv) != 1 {
		return nil, fmt.Errorf("query index: got %d query vectors", len(qv))
	}
	if len(qv[0]) != len(state.vectors[0]) {
		return nil, fmt.Errorf("query index: query dimension %d, index dimension %d", len(qv[0]), len(state.vectors[0]))
	}
	q := normalize(qv[0])

	scores := make([]float64, len(state.vectors))
	order := make([]int, len(state.vectors))
	for i, v := range state.vectors {
		scores[i] = dot(q, v)
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})

	k = min(k, len(order))
	results := make([]Result, k)
	for i, pos := range order[:k] {
		results[i] = Result{
			Document: state.docs[pos],
			Score:    float32(scores[pos]),
			Position: pos,
		}
	}
	ix.logger.Debug("index queried", "k", k, "docs", len(state.docs))
	return results, nil
}

// Len is the number of indexed documents, 0 before the first build.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.state == nil {
		return 0
	}
	return len(ix.state.docs)
}

// Built reports whether Query can be served.
func (ix *Index) Built() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.state != nil
}
