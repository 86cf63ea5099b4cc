package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Yy2z/crypto-hunter/core/config"
	"github.com/Yy2z/crypto-hunter/internal/model"
)

// TavilyClient calls the Tavily REST API. Tavily has no official Go SDK,
// so this is a plain HTTP client against POST /search.
type TavilyClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

func NewTavilyClient(cfg config.SearchConfig) *TavilyClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}
	return &TavilyClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
	}
}

type tavilySearchRequest struct {
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilySearchResponse struct {
	Results []struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) ([]model.EvidenceItem, error) {
	body, err := json.Marshal(tavilySearchRequest{
		Query:         query,
		SearchDepth:   "advanced",
		MaxResults:    maxResults,
		IncludeAnswer: false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Read a little of the body for diagnostics; Tavily returns JSON
		// error details.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tavily search: HTTP %d: %s", resp.StatusCode, detail)
	}

	var payload tavilySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	slog.DebugContext(ctx, "tavily search completed",
		"results", len(payload.Results),
		"duration_ms", time.Since(start).Milliseconds())

	items := make([]model.EvidenceItem, 0, len(payload.Results))
	for _, r := range payload.Results {
		items = append(items, model.EvidenceItem{
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Content,
		})
	}
	return items, nil
}
