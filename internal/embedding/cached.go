package embedding

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached memoizes vectors of a non-fitting embedder by exact text, so repeated
// queries against a remote provider cost one call.
type Cached struct {
	inner Embedder
	cache *lru.Cache[string, []float32]
}

func NewCached(inner Embedder, size int) (*Cached, error) {
	if _, ok := inner.(Fitter); ok {
		return nil, fmt.Errorf("cannot cache corpus-fitted embedder %s", inner.Name())
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &Cached{inner: inner, cache: cache}, nil
}

func (c *Cached) Name() string { return c.inner.Name() }

// Embed forwards only the cache misses, as one batch, and stitches the
// results back into input order.
func (c *Cached) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missTexts []string
	missAt := make(map[string][]int)
	for i, text := range texts {
		if v, ok := c.cache.Get(text); ok {
			out[i] = v
			continue
		}
		if _, pending := missAt[text]; !pending {
			missTexts = append(missTexts, text)
		}
		missAt[text] = append(missAt[text], i)
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if err := checkCount(c.inner.Name(), len(vecs), len(missTexts)); err != nil {
		return nil, err
	}
	for j, text := range missTexts {
		c.cache.Add(text, vecs[j])
		for _, i := range missAt[text] {
			out[i] = vecs[j]
		}
	}
	return out, nil
}

// Len reports the number of cached vectors.
func (c *Cached) Len() int { return c.cache.Len() }
