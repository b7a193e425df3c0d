package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder maps each text to a one-element vector of its length.
type countingEmbedder struct {
	calls [][]string
	err   error
}

func (c *countingEmbedder) Name() string { return "counting" }

func (c *countingEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	c.calls = append(c.calls, texts)
	if c.err != nil {
		return nil, c.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}

func TestCached_ForwardsOnlyMisses(t *testing.T) {
	inner := &countingEmbedder{}
	c, err := NewCached(inner, 16)
	require.NoError(t, err)

	first, err := c.Embed(context.Background(), []string{"a", "bb", "a"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, {2}, {1}}, first)
	require.Len(t, inner.calls, 1)
	assert.Equal(t, []string{"a", "bb"}, inner.calls[0])

	second, err := c.Embed(context.Background(), []string{"ccc", "bb"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{3}, {2}}, second)
	require.Len(t, inner.calls, 2)
	assert.Equal(t, []string{"ccc"}, inner.calls[1])
	assert.Equal(t, 3, c.Len())

	_, err = c.Embed(context.Background(), []string{"a", "ccc"})
	require.NoError(t, err)
	assert.Len(t, inner.calls, 2, "all hits")
}

func TestCached_Evicts(t *testing.T) {
	inner := &countingEmbedder{}
	c, err := NewCached(inner, 1)
	require.NoError(t, err)

	_, _ = c.Embed(context.Background(), []string{"a"})
	_, _ = c.Embed(context.Background(), []string{"b"})
	_, _ = c.Embed(context.Background(), []string{"a"})
	assert.Len(t, inner.calls, 3)
}

func TestCached_ErrorNotCached(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("down")}
	c, err := NewCached(inner, 4)
	require.NoError(t, err)

	_, err = c.Embed(context.Background(), []string{"a"})
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestCached_RejectsFitter(t *testing.T) {
	_, err := NewCached(NewTFIDF(), 4)
	assert.Error(t, err)
}
