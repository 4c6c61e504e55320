// Package notion is a minimal client for the Notion content API: request
// execution with retry and rate-limit handling, the block and property model,
// and the builders that turn problem data into page content.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const (
	// APIVersion is sent on every request as the Notion-Version header.
	APIVersion = "2022-06-28"

	defaultBaseURL = "https://api.notion.com/v1"

	// maxAttempts bounds retries for transient (non-429) failures.
	maxAttempts = 3
	// maxRateLimitRetries bounds 429 retries. The rate-limit loop does not
	// consume the transient budget but must not spin forever either.
	maxRateLimitRetries = 8
)

// APIError is a terminal non-2xx response from the Notion API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("notion: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("notion: API error: status %d", e.Status)
}

// RateLimitError is an HTTP 429 carrying the server-requested delay.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("notion: rate limited, retry after %s", e.RetryAfter)
}

// GuidanceFor maps common API failures to the actionable messages shown to
// the user; other errors pass through their raw message.
func GuidanceFor(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized:
			return "Invalid API key. Please check and try again."
		case http.StatusNotFound:
			return "Database not found. Make sure you added Leetion to connections."
		case http.StatusForbidden:
			return "Access denied. Please add Leetion integration to your database."
		}
	}
	return err.Error()
}

// Client executes authenticated requests against the Notion API. It holds no
// mutable state between calls; a single Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     zerolog.Logger

	backoffBase       time.Duration
	retryAfterDefault time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithBackoff overrides the base backoff and the default 429 delay.
func WithBackoff(base, retryAfter time.Duration) Option {
	return func(c *Client) {
		c.backoffBase = base
		c.retryAfterDefault = retryAfter
	}
}

// NewClient creates a client authenticated with the given integration token.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient:        &http.Client{Timeout: 30 * time.Second},
		baseURL:           defaultBaseURL,
		apiKey:            apiKey,
		logger:            zerolog.Nop(),
		backoffBase:       time.Second,
		retryAfterDefault: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request executes one API call, retrying transient failures with exponential
// backoff and honouring Retry-After on 429 responses. It returns the raw JSON
// body of the first successful response.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	var lastErr error
	rateLimited := 0
	for attempt := 1; attempt <= maxAttempts; {
		result, err := c.do(ctx, method, endpoint, payload)
		if err == nil {
			return result, nil
		}

		var rl *RateLimitError
		if errors.As(err, &rl) {
			rateLimited++
			if rateLimited > maxRateLimitRetries {
				return nil, fmt.Errorf("notion: gave up after %d rate-limit retries: %w", maxRateLimitRetries, err)
			}
			c.logger.Debug().
				Str("endpoint", endpoint).
				Dur("retry_after", rl.RetryAfter).
				Int("rate_limited", rateLimited).
				Msg("rate limited, waiting")
			if err := sleep(ctx, rl.RetryAfter); err != nil {
				return nil, err
			}
			continue
		}

		lastErr = err
		if attempt == maxAttempts {
			break
		}
		delay := c.backoffBase << (attempt - 1)
		c.logger.Debug().
			Str("endpoint", endpoint).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Err(err).
			Msg("request failed, retrying")
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
		attempt++
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) (json.RawMessage, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notion: request %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("notion: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{RetryAfter: c.retryAfter(resp)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &body) == nil {
			apiErr.Code = body.Code
			apiErr.Message = body.Message
		}
		return nil, apiErr
	}
	return json.RawMessage(data), nil
}

func (c *Client) retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return c.retryAfterDefault
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Database is the subset of a database object the sync needs.
type Database struct {
	ID         string                    `json:"id"`
	Title      []RichText                `json:"title"`
	Properties map[string]SchemaProperty `json:"properties"`
}

// GetDatabase fetches a database's metadata and column schema.
func (c *Client) GetDatabase(ctx context.Context, databaseID string) (*Database, error) {
	raw, err := c.Request(ctx, http.MethodGet, "databases/"+databaseID, nil)
	if err != nil {
		return nil, err
	}
	var db Database
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("notion: decode database: %w", err)
	}
	return &db, nil
}

// UpdateDatabase adds the given columns to a database in one call.
func (c *Client) UpdateDatabase(ctx context.Context, databaseID string, properties map[string]SchemaProperty) error {
	_, err := c.Request(ctx, http.MethodPatch, "databases/"+databaseID, map[string]any{
		"properties": properties,
	})
	return err
}

// QueryRequest is the body of a database query.
type QueryRequest struct {
	Filter      any    `json:"filter,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
}

// PropertyFilter filters a query on one property.
type PropertyFilter struct {
	Property string        `json:"property"`
	Number   *NumberFilter `json:"number,omitempty"`
	Date     *DateFilter   `json:"date,omitempty"`
}

// NumberFilter matches number properties.
type NumberFilter struct {
	Equals *float64 `json:"equals,omitempty"`
}

// DateFilter matches date properties.
type DateFilter struct {
	OnOrBefore string `json:"on_or_before,omitempty"`
}

type pageList struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// QueryDatabase runs a database query. When req.PageSize is set, a single
// page of results is returned; otherwise all pages are fetched.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, req QueryRequest) ([]Page, error) {
	single := req.PageSize > 0
	var all []Page
	for {
		raw, err := c.Request(ctx, http.MethodPost, "databases/"+databaseID+"/query", req)
		if err != nil {
			return nil, err
		}
		var list pageList
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("notion: decode query result: %w", err)
		}
		all = append(all, list.Results...)
		if single || !list.HasMore || list.NextCursor == "" {
			return all, nil
		}
		req.StartCursor = list.NextCursor
	}
}

type blockList struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

// BlockChildren fetches the complete ordered block sequence of a page,
// following the continuation cursor until exhausted. Later reconciliation
// steps rely on the traversal being complete and in order.
func (c *Client) BlockChildren(ctx context.Context, blockID string) ([]Block, error) {
	var all []Block
	cursor := ""
	for {
		endpoint := "blocks/" + blockID + "/children?page_size=100"
		if cursor != "" {
			endpoint += "&start_cursor=" + url.QueryEscape(cursor)
		}
		raw, err := c.Request(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		var list blockList
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("notion: decode block children: %w", err)
		}
		all = append(all, list.Results...)
		if !list.HasMore || list.NextCursor == "" {
			return all, nil
		}
		cursor = list.NextCursor
	}
}

// AppendBlockLimit is the maximum number of blocks per append or page-create
// call, imposed by the API.
const AppendBlockLimit = 100

// AppendBlockChildren appends up to AppendBlockLimit blocks to a page.
func (c *Client) AppendBlockChildren(ctx context.Context, blockID string, children []Block) error {
	if len(children) > AppendBlockLimit {
		return fmt.Errorf("notion: %d blocks exceeds append limit of %d", len(children), AppendBlockLimit)
	}
	_, err := c.Request(ctx, http.MethodPatch, "blocks/"+blockID+"/children", map[string]any{
		"children": children,
	})
	return err
}

// DeleteBlock removes one block.
func (c *Client) DeleteBlock(ctx context.Context, blockID string) error {
	_, err := c.Request(ctx, http.MethodDelete, "blocks/"+blockID, nil)
	return err
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

// CreatePage creates a database page with up to AppendBlockLimit inline
// children and returns the new page's ID.
func (c *Client) CreatePage(ctx context.Context, databaseID string, properties map[string]Property, children []Block) (string, error) {
	if len(children) > AppendBlockLimit {
		return "", fmt.Errorf("notion: %d inline children exceeds limit of %d", len(children), AppendBlockLimit)
	}
	body := map[string]any{
		"parent":     pageParent{DatabaseID: databaseID},
		"properties": properties,
	}
	if len(children) > 0 {
		body["children"] = children
	}
	raw, err := c.Request(ctx, http.MethodPost, "pages", body)
	if err != nil {
		return "", err
	}
	var page struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return "", fmt.Errorf("notion: decode created page: %w", err)
	}
	return page.ID, nil
}

// UpdatePageProperties patches a page's properties without touching content.
func (c *Client) UpdatePageProperties(ctx context.Context, pageID string, properties map[string]Property) error {
	_, err := c.Request(ctx, http.MethodPatch, "pages/"+pageID, map[string]any{
		"properties": properties,
	})
	return err
}
