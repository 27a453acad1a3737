// Package tako is a minimal JSON client for the Tako knowledge and
// visualization API. Every exported method maps to exactly one upstream
// endpoint; there is no caching and no retry policy beyond what http.Client
// provides.
package tako

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Per-operation timeouts. Insight generation runs a model upstream and is
// the slowest endpoint; schema reads are cheap.
const (
	searchTimeout   = 60 * time.Second
	insightsTimeout = 90 * time.Second
	schemaTimeout   = 30 * time.Second
)

// apiKeyHeader carries the API token on every request.
const apiKeyHeader = "X-API-Key"

// StatusError is returned when the API responds with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tako API error (status %d): %s", e.StatusCode, e.Body)
}

// IsStatus reports whether err is a StatusError with the given status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Client is a lightweight Tako API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new Tako API client.
// baseURL must not have a trailing slash; apiKey is required.
func New(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}, nil
}

// KnowledgeSearch searches the knowledge base for charts matching the query.
func (c *Client) KnowledgeSearch(ctx context.Context, req KnowledgeSearchRequest) (*KnowledgeSearchResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	var resp KnowledgeSearchResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/knowledge_search", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("knowledge search failed: %w", err)
	}
	return &resp, nil
}

// ChartImage verifies the preview image exists and returns its URL.
// The image bytes never transit this server; agents fetch the URL directly.
func (c *Client) ChartImage(ctx context.Context, pubID string, darkMode bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	query := url.Values{"dark_mode": []string{fmt.Sprintf("%t", darkMode)}}
	path := "/api/v1/image/" + url.PathEscape(pubID) + "/"
	if err := c.do(ctx, http.MethodGet, path, query, nil, nil); err != nil {
		return "", fmt.Errorf("chart image probe failed: %w", err)
	}

	return fmt.Sprintf("%s%s?dark_mode=%t", c.baseURL, path, darkMode), nil
}

// CardInsights fetches AI-generated insights for a chart.
// effort is "low", "medium", or "high".
func (c *Client) CardInsights(ctx context.Context, pubID, effort string) (*InsightsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, insightsTimeout)
	defer cancel()

	query := url.Values{"effort": []string{effort}}
	path := "/api/v1/internal/chart-configs/" + url.PathEscape(pubID) + "/chart-insights/"

	var resp InsightsResponse
	if err := c.do(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, fmt.Errorf("card insights failed: %w", err)
	}
	return &resp, nil
}

// Explore queries the knowledge graph for entities, metrics, and cohorts.
func (c *Client) Explore(ctx context.Context, req ExploreRequest) (*ExploreResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	var resp ExploreResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/explore/", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("explore failed: %w", err)
	}
	return &resp, nil
}

// ListChartSchemas lists the available ThinViz chart templates.
func (c *Client) ListChartSchemas(ctx context.Context) ([]ChartSchema, error) {
	ctx, cancel := context.WithTimeout(ctx, schemaTimeout)
	defer cancel()

	var schemas []ChartSchema
	if err := c.do(ctx, http.MethodGet, "/api/v1/thin_viz/default_schema/", nil, nil, &schemas); err != nil {
		return nil, fmt.Errorf("list chart schemas failed: %w", err)
	}
	return schemas, nil
}

// GetChartSchema fetches one ThinViz schema with its component details.
func (c *Client) GetChartSchema(ctx context.Context, name string) (*ChartSchema, error) {
	ctx, cancel := context.WithTimeout(ctx, schemaTimeout)
	defer cancel()

	path := "/api/v1/thin_viz/default_schema/" + url.PathEscape(name) + "/"

	var schema ChartSchema
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &schema); err != nil {
		return nil, fmt.Errorf("get chart schema failed: %w", err)
	}
	return &schema, nil
}

// CreateChart renders a new chart from a schema and component data.
func (c *Client) CreateChart(ctx context.Context, schemaName string, req CreateChartRequest) (*CreatedChart, error) {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	path := "/api/v1/thin_viz/default_schema/" + url.PathEscape(schemaName) + "/create/"

	var chart CreatedChart
	if err := c.do(ctx, http.MethodPost, path, nil, req, &chart); err != nil {
		return nil, fmt.Errorf("create chart failed: %w", err)
	}
	return &chart, nil
}

// do is the single request helper all endpoints go through.
// Non-2xx responses become *StatusError so handlers can map known statuses.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
