package embedding

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrNotFitted is returned when an unfitted TFIDF embedder is asked to embed.
var ErrNotFitted = errors.New("tfidf embedder not fitted")

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// TFIDF is a corpus-fitted bag-of-words embedder. It needs no network and is
// the default embedding function.
type TFIDF struct {
	MaxFeatures int // keep only the most frequent terms, 0 keeps all

	vocabulary map[string]int
	idf        []float32
}

// NewTFIDF returns an unfitted embedder.
func NewTFIDF() *TFIDF {
	return &TFIDF{}
}

func (t *TFIDF) Name() string { return "tfidf" }

// Dimension is the vocabulary size after fitting.
func (t *TFIDF) Dimension() int { return len(t.idf) }

// Fit builds the vocabulary and smoothed IDF weights from corpus.
func (t *TFIDF) Fit(corpus []string) (Embedder, error) {
	if len(corpus) == 0 {
		return nil, errors.New("tfidf fit: empty corpus")
	}

	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, errors.New("tfidf fit: no tokens in corpus")
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if t.MaxFeatures > 0 && len(terms) > t.MaxFeatures {
		sort.SliceStable(terms, func(i, j int) bool { return df[terms[i]] > df[terms[j]] })
		terms = terms[:t.MaxFeatures]
		sort.Strings(terms)
	}

	fitted := &TFIDF{
		MaxFeatures: t.MaxFeatures,
		vocabulary:  make(map[string]int, len(terms)),
		idf:         make([]float32, len(terms)),
	}
	n := float64(len(corpus))
	for i, term := range terms {
		fitted.vocabulary[term] = i
		fitted.idf[i] = float32(math.Log((1+n)/(1+float64(df[term]))) + 1)
	}
	return fitted, nil
}

// Embed returns raw tf-idf weights; normalization is left to the index.
// Texts sharing no term with the vocabulary map to the zero vector.
func (t *TFIDF) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if t.vocabulary == nil {
		return nil, ErrNotFitted
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, len(t.idf))
		tf := make(map[int]int)
		total := 0
		for _, tok := range tokenize(text) {
			if idx, ok := t.vocabulary[tok]; ok {
				tf[idx]++
				total++
			}
		}
		for idx, count := range tf {
			vec[idx] = float32(count) / float32(total) * t.idf[idx]
		}
		out[i] = vec
	}
	return out, nil
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at",
		"by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such",
		"into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off",
		"own", "same", "too", "very", "can", "will", "just", "should", "now", "we", "you", "our", "your",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
