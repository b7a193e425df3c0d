package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amishk599/reqwiz/internal/extract"
	"github.com/amishk599/reqwiz/internal/model"
)

const (
	greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"
	leverBaseURL      = "https://api.lever.co/v0/postings"
)

type greenhouseJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	Content     string `json:"content"` // entity-escaped HTML
}

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// GreenhouseSource turns every posting on a Greenhouse board into a document.
type GreenhouseSource struct {
	boardToken string
	client     *http.Client
}

// NewGreenhouseSource creates a source for the public board boardToken.
func NewGreenhouseSource(boardToken string, client *http.Client) *GreenhouseSource {
	return &GreenhouseSource{boardToken: boardToken, client: client}
}

func (s *GreenhouseSource) Name() string { return "greenhouse:" + s.boardToken }

func (s *GreenhouseSource) Load(ctx context.Context) ([]model.Document, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", greenhouseBaseURL, s.boardToken)

	var resp greenhouseResponse
	if err := getJSON(ctx, s.client, url, &resp); err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", s.boardToken, err)
	}

	docs := make([]model.Document, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		body, err := extract.HTMLFragmentText(j.Content)
		if err != nil {
			return nil, fmt.Errorf("greenhouse job %d: %w", j.ID, err)
		}
		origin := j.AbsoluteURL
		if origin == "" {
			origin = fmt.Sprintf("greenhouse:%s/%d", s.boardToken, j.ID)
		}
		docs = append(docs, model.Document{Origin: origin, Text: joinNonEmpty(j.Title, body)})
	}
	return docs, nil
}

type leverList struct {
	Text    string `json:"text"`
	Content string `json:"content"` // HTML list items
}

type leverPosting struct {
	ID               string      `json:"id"`
	Text             string      `json:"text"`
	DescriptionPlain string      `json:"descriptionPlain"`
	Lists            []leverList `json:"lists"`
	AdditionalPlain  string      `json:"additionalPlain"`
	HostedURL        string      `json:"hostedUrl"`
}

// LeverSource turns every posting of a Lever company into a document.
type LeverSource struct {
	companySlug string
	client      *http.Client
}

// NewLeverSource creates a source for the public postings of companySlug.
func NewLeverSource(companySlug string, client *http.Client) *LeverSource {
	return &LeverSource{companySlug: companySlug, client: client}
}

func (s *LeverSource) Name() string { return "lever:" + s.companySlug }

func (s *LeverSource) Load(ctx context.Context) ([]model.Document, error) {
	url := fmt.Sprintf("%s/%s?mode=json", leverBaseURL, s.companySlug)

	var postings []leverPosting
	if err := getJSON(ctx, s.client, url, &postings); err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", s.companySlug, err)
	}

	docs := make([]model.Document, 0, len(postings))
	for _, p := range postings {
		parts := []string{p.Text, p.DescriptionPlain}
		for _, l := range p.Lists {
			items, err := extract.HTMLText(strings.NewReader("<ul>" + l.Content + "</ul>"))
			if err != nil {
				return nil, fmt.Errorf("lever posting %s: %w", p.ID, err)
			}
			parts = append(parts, l.Text, items)
		}
		parts = append(parts, p.AdditionalPlain)

		origin := p.HostedURL
		if origin == "" {
			origin = "lever:" + s.companySlug + "/" + p.ID
		}
		docs = append(docs, model.Document{Origin: origin, Text: joinNonEmpty(parts...)})
	}
	return docs, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: model.ParseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
	return json.NewDecoder(resp.Body).Decode(v)
}


func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
