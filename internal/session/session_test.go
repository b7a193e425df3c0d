package session

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/reqwiz/internal/embedding"
	"github.com/amishk599/reqwiz/internal/index"
	"github.com/amishk599/reqwiz/internal/llm"
	"github.com/amishk599/reqwiz/internal/model"
	"github.com/amishk599/reqwiz/internal/store"
)

type fakeBackend struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	prompts []string
	closed  bool
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

func (f *fakeBackend) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := len(f.prompts)
	f.prompts = append(f.prompts, req.Prompt)
	if call < len(f.errs) && f.errs[call] != nil {
		return "", f.errs[call]
	}
	if call < len(f.replies) {
		return f.replies[call], nil
	}
	return f.replies[len(f.replies)-1], nil
}

type failingRecorder struct{}

func (failingRecorder) Add(context.Context, string, model.Category, string) (bool, error) {
	return false, errors.New("disk full")
}

func (failingRecorder) List(context.Context, string, model.Category) ([]string, error) {
	return nil, nil
}

func newSession(t *testing.T, backend llm.Backend, opts Options) *Session {
	t.Helper()
	if opts.JobTitle == "" {
		opts.JobTitle = "Backend Engineer"
	}
	return New(backend, index.New(embedding.NewTFIDF(), nil), opts)
}

func TestNew_GeneratesID(t *testing.T) {
	a := newSession(t, &fakeBackend{replies: []string{""}}, Options{})
	b := newSession(t, &fakeBackend{replies: []string{""}}, Options{})
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())

	c := newSession(t, &fakeBackend{replies: []string{""}}, Options{ID: "fixed"})
	assert.Equal(t, "fixed", c.ID())
}

func TestGenerate_ReplacesPool(t *testing.T) {
	backend := &fakeBackend{replies: []string{"- Design APIs\n- Review code\n", "Write docs\n"}}
	s := newSession(t, backend, Options{})
	ctx := context.Background()

	items, err := s.Generate(ctx, model.CategoryTasks, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Design APIs", "Review code"}, items)
	assert.Equal(t, items, s.Pool(model.CategoryTasks))

	_, err = s.Generate(ctx, model.CategoryTasks, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Write docs"}, s.Pool(model.CategoryTasks))
	assert.Empty(t, s.Pool(model.CategorySkills))
}

func TestGenerate_FailureKeepsPreviousPool(t *testing.T) {
	unavailable := &model.BackendUnavailableError{Backend: "fake", Err: errors.New("connection refused")}
	backend := &fakeBackend{replies: []string{"Go\nSQL"}, errs: []error{nil, unavailable}}
	s := newSession(t, backend, Options{})
	ctx := context.Background()

	_, err := s.Generate(ctx, model.CategorySkills, 5)
	require.NoError(t, err)

	_, err = s.Generate(ctx, model.CategorySkills, 5)
	var genErr *model.SuggestionGenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, []string{"Go", "SQL"}, s.Pool(model.CategorySkills))
}

func TestGenerate_InvalidCategory(t *testing.T) {
	backend := &fakeBackend{replies: []string{"x"}}
	s := newSession(t, backend, Options{})

	_, err := s.Generate(context.Background(), model.Category("perks"), 5)
	var invalid *model.InvalidCategoryError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, backend.prompts)
}

func TestGenerate_RetriesTransientFailure(t *testing.T) {
	busy := &model.BackendUnavailableError{
		Backend: "fake",
		Err:     &model.HTTPError{StatusCode: http.StatusServiceUnavailable},
	}
	backend := &fakeBackend{replies: []string{"", "Health insurance"}, errs: []error{busy}}
	s := newSession(t, backend, Options{Retries: 2, RetryBaseDelay: time.Millisecond})

	items, err := s.Generate(context.Background(), model.CategoryBenefits, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Health insurance"}, items)
	assert.Len(t, backend.prompts, 2)
}

func TestGenerate_UsesReferencesOnceIndexBuilt(t *testing.T) {
	backend := &fakeBackend{replies: []string{"Own the payments ledger"}}
	s := newSession(t, backend, Options{ContextDocs: 1, JobTitle: "payments engineer"})
	ctx := context.Background()

	_, err := s.Generate(ctx, model.CategoryTasks, 3)
	require.NoError(t, err)
	assert.NotContains(t, backend.prompts[0], "ledger reconciliation")

	require.NoError(t, s.BuildIndex(ctx, []model.Document{
		{Origin: "a", Text: "payments engineer for ledger reconciliation"},
		{Origin: "b", Text: "frontend designer for marketing pages"},
	}))
	_, err = s.Generate(ctx, model.CategoryTasks, 3)
	require.NoError(t, err)
	assert.Contains(t, backend.prompts[1], "ledger reconciliation")
	assert.NotContains(t, backend.prompts[1], "marketing pages")
}

func TestConsume_MovesItemIntoSelection(t *testing.T) {
	backend := &fakeBackend{replies: []string{"A\nB\nC"}}
	s := newSession(t, backend, Options{})
	ctx := context.Background()

	_, err := s.Generate(ctx, model.CategoryTasks, 3)
	require.NoError(t, err)

	item, err := s.Consume(ctx, model.CategoryTasks, 1)
	require.NoError(t, err)
	assert.Equal(t, "B", item)
	assert.Equal(t, []string{"A", "C"}, s.Pool(model.CategoryTasks))
	assert.Equal(t, []string{"B"}, s.Selection(model.CategoryTasks))

	_, err = s.Consume(ctx, model.CategoryTasks, 5)
	require.Error(t, err)
	assert.Equal(t, []string{"A", "C"}, s.Pool(model.CategoryTasks))
}

func TestConsume_RecorderFailureLeavesStateUnchanged(t *testing.T) {
	backend := &fakeBackend{replies: []string{"A\nB"}}
	s := newSession(t, backend, Options{Recorder: failingRecorder{}})
	ctx := context.Background()

	_, err := s.Generate(ctx, model.CategorySkills, 2)
	require.NoError(t, err)

	_, err = s.Consume(ctx, model.CategorySkills, 0)
	require.Error(t, err)
	assert.Equal(t, []string{"A", "B"}, s.Pool(model.CategorySkills))
	assert.Empty(t, s.Selection(model.CategorySkills))
}

func TestAddManual(t *testing.T) {
	s := newSession(t, &fakeBackend{replies: []string{""}}, Options{})
	ctx := context.Background()

	added, err := s.AddManual(ctx, model.CategoryBenefits, "  Gym stipend ")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddManual(ctx, model.CategoryBenefits, "Gym stipend")
	require.NoError(t, err)
	assert.False(t, added)

	added, err = s.AddManual(ctx, model.CategoryBenefits, "   ")
	require.NoError(t, err)
	assert.False(t, added)

	_, err = s.AddManual(ctx, model.Category("perks"), "x")
	var invalid *model.InvalidCategoryError
	require.ErrorAs(t, err, &invalid)

	assert.Equal(t, []string{"Gym stipend"}, s.Selection(model.CategoryBenefits))
}

func TestRestore_FromSelectionStore(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "reqwiz.db"))
	require.NoError(t, err)
	defer st.Close()

	first := newSession(t, &fakeBackend{replies: []string{"Go\nKubernetes"}}, Options{ID: "s1", Recorder: st})
	_, err = first.Generate(ctx, model.CategorySkills, 2)
	require.NoError(t, err)
	_, err = first.Consume(ctx, model.CategorySkills, 1)
	require.NoError(t, err)
	_, err = first.AddManual(ctx, model.CategorySkills, "Terraform")
	require.NoError(t, err)

	second := newSession(t, &fakeBackend{replies: []string{""}}, Options{ID: "s1", Recorder: st})
	require.NoError(t, second.Restore(ctx))
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, second.Selection(model.CategorySkills))
	assert.Empty(t, second.Selection(model.CategoryTasks))
}

func TestSearch(t *testing.T) {
	s := newSession(t, &fakeBackend{replies: []string{""}}, Options{})
	ctx := context.Background()

	_, err := s.Search(ctx, "anything", 1)
	require.ErrorIs(t, err, model.ErrIndexNotBuilt)

	require.ErrorIs(t, s.BuildIndex(ctx, nil), model.ErrEmptyCorpus)

	require.NoError(t, s.BuildIndex(ctx, []model.Document{
		{Origin: "a", Text: "golang backend services"},
		{Origin: "b", Text: "watercolor illustration"},
	}))
	results, err := s.Search(ctx, "golang backend services", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Document.Origin)
}

func TestClose_ReleasesBackend(t *testing.T) {
	backend := &fakeBackend{replies: []string{""}}
	s := newSession(t, backend, Options{})
	require.NoError(t, s.Close())
	assert.True(t, backend.closed)
}
