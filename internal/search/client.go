package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPDoer abstracts HTTP clients used by the search client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Query is one time-windowed event search, scoped by exact-match fields.
// The window is half-open: [From, To).
type Query struct {
	Index string
	From  time.Time
	To    time.Time
	Match map[string]string
	// Size caps the number of returned events. The reported total is
	// not affected by it.
	Size int
}

// Result is the response envelope of an event search.
type Result struct {
	Meta Meta              `json:"meta"`
	Hits []json.RawMessage `json:"hits"`
}

// Meta carries the total match count of a search, independent of how
// many events the response includes.
type Meta struct {
	Total int `json:"total"`
}

// Client talks to the search index HTTP API.
type Client struct {
	BaseURL string
	Client  HTTPDoer
}

// NewClient constructs a search client with explicit settings.
func NewClient(baseURL string, client HTTPDoer) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("search base URL is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  client,
	}, nil
}

// queryDocument is the wire form of a Query.
type queryDocument struct {
	From  string            `json:"from"`
	To    string            `json:"to"`
	Match map[string]string `json:"match,omitempty"`
	Size  int               `json:"size"`
}

// SearchEvents runs one query against the index named in it.
func (c *Client) SearchEvents(ctx context.Context, query Query) (Result, error) {
	if strings.TrimSpace(query.Index) == "" {
		return Result{}, fmt.Errorf("search index is required")
	}
	payload, err := json.Marshal(queryDocument{
		From:  query.From.UTC().Format(time.RFC3339),
		To:    query.To.UTC().Format(time.RFC3339),
		Match: query.Match,
		Size:  query.Size,
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal query: %w", err)
	}

	endpoint := c.BaseURL + "/" + url.PathEscape(query.Index) + "/_search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("search %s: %w", query.Index, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Result{}, fmt.Errorf("search %s: unexpected status %d: %s", query.Index, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode search response: %w", err)
	}
	return result, nil
}
