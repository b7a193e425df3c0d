// Package retry lets callers opt into retrying suggestion generation.
// Backends themselves never retry.
package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/amishk599/reqwiz/internal/model"
)

// Suggester is anything that generates suggestions for a request.
type Suggester interface {
	Generate(ctx context.Context, req model.GenerationRequest) ([]string, error)
}

// RetryGenerator is a decorator that retries transient backend failures with
// exponential backoff and jitter before giving up.
type RetryGenerator struct {
	inner      Suggester
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryGenerator wraps inner with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewRetryGenerator(inner Suggester, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryGenerator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RetryGenerator{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Generate attempts generation, retrying on transient errors.
func (g *RetryGenerator) Generate(ctx context.Context, req model.GenerationRequest) ([]string, error) {
	items, err := g.inner.Generate(ctx, req)
	if err == nil {
		return items, nil
	}

	if !isRetryable(err) {
		return nil, err
	}

	lastErr := err
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		delay := g.backoffDelay(attempt, lastErr)

		g.logger.Warn("retrying after transient error",
			"category", req.Category,
			"attempt", attempt,
			"max_retries", g.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return nil, errors.Join(lastErr, ctx.Err())
		case <-time.After(delay):
		}

		items, err = g.inner.Generate(ctx, req)
		if err == nil {
			return items, nil
		}

		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration (HTTP 429), that takes precedence.
func (g *RetryGenerator) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay := g.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable returns true only for backend outages: transport errors,
// HTTP 429 and 5xx. Validation, authentication and context errors are final.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var unavailable *model.BackendUnavailableError
	if !errors.As(err, &unavailable) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}

	// Network, DNS, malformed replies.
	return true
}
