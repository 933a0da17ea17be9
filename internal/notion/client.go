// ABOUTME: Minimal Notion REST client for creating and querying database pages
// ABOUTME: Authenticates with a bearer token through oauth2 and bounds every call with a timeout

package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the public Notion API endpoint.
	DefaultBaseURL = "https://api.notion.com/v1"
	// APIVersion is sent as the Notion-Version header.
	APIVersion = "2022-06-28"
	// DefaultTimeout bounds each request.
	DefaultTimeout = 20 * time.Second
	// MaxPageSize is the largest page size the query endpoint accepts.
	MaxPageSize = 100

	maxErrorBody    = 200
	maxResponseSize = 10 * 1024 * 1024
)

// Config holds connection settings.
type Config struct {
	Token      string
	DatabaseID string
	BaseURL    string
	Timeout    time.Duration
}

// Client talks to one Notion database.
type Client struct {
	http       *http.Client
	baseURL    string
	databaseID string
}

// NewClient builds a client whose transport adds the bearer token.
func NewClient(ctx context.Context, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.Token,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = cfg.Timeout

	return &Client{
		http:       httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		databaseID: cfg.DatabaseID,
	}
}

// APIError is a non-2xx response. Body is cut to a short diagnostic.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("error %d: %s", e.Status, e.Body)
}

// Page is the request body for creating a database page.
type Page struct {
	Parent     map[string]string `json:"parent"`
	Properties map[string]any    `json:"properties"`
	Children   []any             `json:"children,omitempty"`
}

// PageObject is one page returned by a database query.
type PageObject struct {
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
}

type queryRequest struct {
	PageSize    int    `json:"page_size"`
	StartCursor string `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []PageObject `json:"results"`
	HasMore    bool         `json:"has_more"`
	NextCursor string       `json:"next_cursor"`
}

// CreatePage creates page in the client's database.
func (c *Client) CreatePage(ctx context.Context, page Page) error {
	page.Parent = map[string]string{"database_id": c.databaseID}
	if _, err := c.post(ctx, "/pages", page); err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	return nil
}

// QueryDatabase returns up to limit pages, following pagination cursors.
func (c *Client) QueryDatabase(ctx context.Context, limit int) ([]PageObject, error) {
	if limit <= 0 {
		return nil, nil
	}

	var (
		pages  []PageObject
		cursor string
	)
	for len(pages) < limit {
		req := queryRequest{PageSize: min(limit-len(pages), MaxPageSize), StartCursor: cursor}
		body, err := c.post(ctx, "/databases/"+c.databaseID+"/query", req)
		if err != nil {
			return nil, fmt.Errorf("query database: %w", err)
		}

		var resp queryResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("decode query response: %w", err)
		}
		pages = append(pages, resp.Results...)

		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	if len(pages) > limit {
		pages = pages[:limit]
	}
	return pages, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
