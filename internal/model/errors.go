package model

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrEmptyCorpus is returned when an index build is attempted with no documents.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrIndexNotBuilt is returned when an index is queried before its first successful build.
	ErrIndexNotBuilt = errors.New("index not built")
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ParseRetryAfter parses a Retry-After header in its seconds form ("120").
// It returns zero if the value is absent, negative or an HTTP date.
func ParseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// InvalidCategoryError reports a category outside the closed set.
type InvalidCategoryError struct {
	Value string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid category %q (want one of tasks, skills, benefits)", e.Value)
}

// AuthenticationError means no credential could be resolved for a backend.
// Lookup lists the places that were checked, in order.
type AuthenticationError struct {
	Backend string
	Lookup  []string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s backend: no credential found (checked %v)", e.Backend, e.Lookup)
}

// ModelLoadError means a local model could not be loaded at construction time.
type ModelLoadError struct {
	Model string
	Err   error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %q: %v", e.Model, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// BackendUnavailableError wraps a failed completion call: transport errors,
// timeouts, non-2xx responses and malformed provider replies.
type BackendUnavailableError struct {
	Backend string
	Err     error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("%s backend unavailable: %v", e.Backend, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Err
}

// SuggestionGenerationError wraps any failure that happened after the
// request passed validation.
type SuggestionGenerationError struct {
	Category Category
	Err      error
}

func (e *SuggestionGenerationError) Error() string {
	return fmt.Sprintf("generate %s suggestions: %v", e.Category, e.Err)
}

func (e *SuggestionGenerationError) Unwrap() error {
	return e.Err
}
