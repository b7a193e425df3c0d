package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/amishk599/reqwiz/internal/model"
)

// RemoteBackend calls an OpenAI-compatible /chat/completions endpoint.
type RemoteBackend struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRemoteBackend creates a backend targeting baseURL. The API key must
// already be resolved; see config.ResolveAPIKey.
func NewRemoteBackend(baseURL, apiKey, model string, httpClient *http.Client, logger *slog.Logger) *RemoteBackend {
	return &RemoteBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
		logger:     orDiscard(logger),
	}
}

// chatRequest mirrors the OpenAI /v1/chat/completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse mirrors the relevant fields of the OpenAI response.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

func (p *RemoteBackend) Name() string { return "remote:" + p.model }

// Complete sends a system and a user message and returns the first choice's content.
func (p *RemoteBackend) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	text, err := p.complete(ctx, req)
	if err != nil {
		return "", &model.BackendUnavailableError{Backend: p.Name(), Err: err}
	}
	return text, nil
}

func (p *RemoteBackend) complete(ctx context.Context, req CompletionRequest) (string, error) {
	var messages []chatMessage
	if req.SystemMessage != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemMessage})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal llm request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create llm request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	start := time.Now()
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: model.ParseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("llm returned: %s", strings.TrimSpace(string(respBytes))),
		}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", fmt.Errorf("parse llm response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("llm error (%s): %s", chatResp.Error.Type, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}

	p.logger.Debug("completion finished", "backend", p.Name(), "elapsed", time.Since(start))
	return chatResp.Choices[0].Message.Content, nil
}

func (p *RemoteBackend) Close() error { return nil }
