package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const geminiBatchSize = 50

// Gemini embeds texts with the Gemini API.
type Gemini struct {
	client    *genai.Client
	model     string
	dimension int
}

func NewGemini(ctx context.Context, apiKey, model string, dimension int) (*Gemini, error) {
	return newGemini(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model, dimension)
}

func newGemini(ctx context.Context, cc *genai.ClientConfig, model string, dimension int) (*Gemini, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model, dimension: dimension}, nil
}

func (g *Gemini) Name() string { return "gemini:" + g.model }

func (g *Gemini) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var cfg *genai.EmbedContentConfig
	if g.dimension > 0 {
		dim := int32(g.dimension)
		cfg = &genai.EmbedContentConfig{OutputDimensionality: &dim}
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += geminiBatchSize {
		end := min(start+geminiBatchSize, len(texts))
		batch := texts[start:end]

		contents := make([]*genai.Content, 0, len(batch))
		for _, text := range batch {
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		}

		res, err := g.client.Models.EmbedContent(ctx, g.model, contents, cfg)
		if err != nil {
			return nil, fmt.Errorf("gemini embed: %w", err)
		}
		if err := checkCount("gemini", len(res.Embeddings), len(batch)); err != nil {
			return nil, err
		}
		for _, emb := range res.Embeddings {
			out = append(out, emb.Values)
		}
	}
	return out, nil
}
