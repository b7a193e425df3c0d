// Package session holds the state of one requisition-drafting session: the
// pending suggestion pools and accepted selections per category, the
// reference index and the generative backend they share.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/reqwiz/internal/index"
	"github.com/amishk599/reqwiz/internal/llm"
	"github.com/amishk599/reqwiz/internal/model"
	"github.com/amishk599/reqwiz/internal/retry"
	"github.com/amishk599/reqwiz/internal/suggest"
)

// Recorder persists accepted items. *store.SelectionStore and
// *store.NopStore satisfy it.
type Recorder interface {
	Add(ctx context.Context, sessionID string, category model.Category, item string) (bool, error)
	List(ctx context.Context, sessionID string, category model.Category) ([]string, error)
}

// Options tune how a Session generates suggestions.
type Options struct {
	ID             string // generated when empty
	JobTitle       string
	Temperature    float64
	MaxTokens      int
	ContextDocs    int // references added to each prompt once the index is built
	Retries        int // zero disables retrying
	RetryBaseDelay time.Duration
	Recorder       Recorder
	Logger         *slog.Logger
}

// Session is safe for concurrent use.
type Session struct {
	id      string
	backend llm.Backend
	index   *index.Index
	opts    Options
	logger  *slog.Logger

	mu         sync.Mutex
	jobTitle   string
	pools      map[model.Category]*suggest.Pool
	selections map[model.Category]*suggest.SelectionSet
}

// New creates a session around backend and ix. ix may be empty; retrieval
// is used only after it has been built.
func New(backend llm.Backend, ix *index.Index, opts Options) *Session {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Session{
		id:         opts.ID,
		backend:    backend,
		index:      ix,
		opts:       opts,
		logger:     opts.Logger.With("session", opts.ID),
		jobTitle:   opts.JobTitle,
		pools:      make(map[model.Category]*suggest.Pool),
		selections: make(map[model.Category]*suggest.SelectionSet),
	}
	for _, c := range model.Categories {
		s.pools[c] = suggest.NewPool(c, nil)
		s.selections[c] = suggest.NewSelectionSet()
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) JobTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobTitle
}

// SetJobTitle changes the title used by later Generate calls. Existing
// pools are kept.
func (s *Session) SetJobTitle(title string) {
	s.mu.Lock()
	s.jobTitle = strings.TrimSpace(title)
	s.mu.Unlock()
}

// Restore loads previously recorded selections for every category.
func (s *Session) Restore(ctx context.Context) error {
	if s.opts.Recorder == nil {
		return nil
	}
	for _, c := range model.Categories {
		items, err := s.opts.Recorder.List(ctx, s.id, c)
		if err != nil {
			return fmt.Errorf("restore %s selection: %w", c, err)
		}
		s.mu.Lock()
		for _, item := range items {
			s.selections[c].Add(item)
		}
		s.mu.Unlock()
	}
	return nil
}

// Generate asks the backend for count suggestions in category and replaces
// that category's pool with them. On error the previous pool is kept.
func (s *Session) Generate(ctx context.Context, category model.Category, count int) ([]string, error) {
	req := model.GenerationRequest{
		JobTitle:    s.JobTitle(),
		Category:    category,
		Count:       count,
		Temperature: s.opts.Temperature,
	}

	items, err := s.suggester().Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.pools[category] = suggest.NewPool(category, items)
	s.mu.Unlock()
	return items, nil
}

func (s *Session) suggester() retry.Suggester {
	opts := []suggest.Option{suggest.WithMaxTokens(s.opts.MaxTokens)}
	if s.index != nil && s.index.Built() && s.opts.ContextDocs > 0 {
		opts = append(opts, suggest.WithRetriever(s.index, s.opts.ContextDocs))
	}
	var g retry.Suggester = suggest.NewGenerator(s.backend, s.logger, opts...)
	if s.opts.Retries > 0 {
		g = retry.NewRetryGenerator(g, s.opts.Retries, s.opts.RetryBaseDelay, s.logger)
	}
	return g
}

// Consume moves the pending item at position i of category's pool into its
// selection and records it. It fails without changing anything when i is
// out of range or the recorder rejects the item.
func (s *Session) Consume(ctx context.Context, category model.Category, i int) (string, error) {
	if !category.Valid() {
		return "", &model.InvalidCategoryError{Value: string(category)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pool := s.pools[category]
	items := pool.Items()
	if i < 0 || i >= len(items) {
		return "", fmt.Errorf("consume %s suggestion: index %d out of range [0,%d)", category, i, len(items))
	}
	if err := s.record(ctx, category, items[i]); err != nil {
		return "", err
	}
	item, err := pool.MoveTo(i, s.selections[category])
	if err != nil {
		return "", err
	}
	s.logger.Debug("suggestion consumed", "category", category, "item", item, "remaining", pool.Len())
	return item, nil
}

// AddManual adds a hand-written item to category's selection. It reports
// false for blank or already selected items.
func (s *Session) AddManual(ctx context.Context, category model.Category, item string) (bool, error) {
	if !category.Valid() {
		return false, &model.InvalidCategoryError{Value: string(category)}
	}
	item = strings.TrimSpace(item)
	if item == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selections[category].Has(item) {
		return false, nil
	}
	if err := s.record(ctx, category, item); err != nil {
		return false, err
	}
	return s.selections[category].Add(item), nil
}

// record must be called with s.mu held.
func (s *Session) record(ctx context.Context, category model.Category, item string) error {
	if s.opts.Recorder == nil {
		return nil
	}
	if _, err := s.opts.Recorder.Add(ctx, s.id, category, item); err != nil {
		return fmt.Errorf("record %s selection: %w", category, err)
	}
	return nil
}

// Pool returns the pending suggestions of category.
func (s *Session) Pool(category model.Category) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pools[category]; ok {
		return p.Items()
	}
	return nil
}

// Selection returns the accepted items of category in insertion order.
func (s *Session) Selection(category model.Category) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.selections[category]; ok {
		return set.Items()
	}
	return nil
}

// BuildIndex replaces the reference index with docs.
func (s *Session) BuildIndex(ctx context.Context, docs []model.Document) error {
	if s.index == nil {
		return fmt.Errorf("build index: session has no index")
	}
	return s.index.Build(ctx, docs)
}

// Search returns the k reference documents most similar to text.
func (s *Session) Search(ctx context.Context, text string, k int) ([]index.Result, error) {
	if s.index == nil {
		return nil, model.ErrIndexNotBuilt
	}
	return s.index.Query(ctx, text, k)
}

// Close releases the backend.
func (s *Session) Close() error {
	return s.backend.Close()
}
