package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/amishk599/reqwiz/internal/model"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// Ollama calls a local Ollama daemon's /api/embed endpoint.
type Ollama struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

func NewOllama(baseURL, model string, httpClient *http.Client) *Ollama {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &Ollama{
		endpoint:   strings.TrimRight(baseURL, "/") + "/api/embed",
		model:      model,
		httpClient: httpClient,
	}
}

func (o *Ollama) Name() string { return "ollama:" + o.model }

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (o *Ollama) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(ollamaEmbedRequest{Model: o.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("ollama embed: %s", strings.TrimSpace(string(raw))),
		}
	}

	var parsed ollamaEmbedResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse embedding response: %w", err)
	}
	if err := checkCount("ollama", len(parsed.Embeddings), len(texts)); err != nil {
		return nil, err
	}
	return parsed.Embeddings, nil
}
