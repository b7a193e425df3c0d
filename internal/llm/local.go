package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/amishk599/reqwiz/internal/model"
)

// LocalBackend generates with a model served by a local Ollama daemon.
// The model is loaded once at construction and kept resident until Close.
type LocalBackend struct {
	baseURL    string
	model      string
	keepAlive  any
	httpClient *http.Client
	logger     *slog.Logger
}

type generateRequest struct {
	Model     string           `json:"model"`
	Prompt    string           `json:"prompt,omitempty"`
	Stream    bool             `json:"stream"`
	KeepAlive any              `json:"keep_alive,omitempty"`
	Options   *generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewLocalBackend loads modelName into the daemon at baseURL. Any failure to
// do so is returned as *model.ModelLoadError. keepAlive follows Ollama's
// keep_alive semantics: a number of seconds ("-1" keeps the model loaded
// indefinitely) or a duration such as "30m".
func NewLocalBackend(ctx context.Context, baseURL, modelName, keepAlive string, httpClient *http.Client, logger *slog.Logger) (*LocalBackend, error) {
	b := &LocalBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      modelName,
		keepAlive:  keepAliveValue(keepAlive),
		httpClient: httpClient,
		logger:     orDiscard(logger),
	}

	// A generate call without a prompt only loads the model.
	if _, err := b.generate(ctx, generateRequest{Model: modelName, KeepAlive: b.keepAlive}); err != nil {
		return nil, &model.ModelLoadError{Model: modelName, Err: err}
	}
	b.logger.Info("local model loaded", "model", modelName, "base_url", b.baseURL)
	return b, nil
}

func (b *LocalBackend) Name() string { return "local:" + b.model }

// Complete prepends the system message to the prompt, samples a completion
// and strips the prompt if the model echoed it back.
func (b *LocalBackend) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	prompt := req.Prompt
	if req.SystemMessage != "" {
		prompt = req.SystemMessage + "\n" + req.Prompt
	}

	text, err := b.generate(ctx, generateRequest{
		Model:     b.model,
		Prompt:    prompt,
		KeepAlive: b.keepAlive,
		Options: &generateOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	})
	if err != nil {
		return "", &model.BackendUnavailableError{Backend: b.Name(), Err: err}
	}
	return strings.TrimSpace(strings.TrimPrefix(text, prompt)), nil
}

// Close asks the daemon to unload the model.
func (b *LocalBackend) Close() error {
	_, err := b.generate(context.Background(), generateRequest{Model: b.model, KeepAlive: 0})
	if err != nil {
		return fmt.Errorf("unload model %s: %w", b.model, err)
	}
	return nil
}

func (b *LocalBackend) generate(ctx context.Context, body generateRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generate response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("ollama generate: %s", strings.TrimSpace(string(raw))),
		}
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse generate response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("ollama generate: %s", parsed.Error)
	}
	return parsed.Response, nil
}

// keepAliveValue sends bare integers as numbers, which the daemon reads as
// seconds; anything else goes through as a duration string.
func keepAliveValue(s string) any {
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}
