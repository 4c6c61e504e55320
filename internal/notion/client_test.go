package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("secret-token",
		WithBaseURL(srv.URL),
		WithBackoff(time.Millisecond, time.Millisecond))
}

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotVersion string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		fmt.Fprint(w, `{}`)
	})

	_, err := c.Request(context.Background(), http.MethodGet, "databases/abc", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, APIVersion, gotVersion)
}

func TestRequestRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.Header().Set("Retry-After", "0.001")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	})

	raw, err := c.Request(context.Background(), http.MethodGet, "databases/abc", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Equal(t, int32(3), calls.Load())
}

func TestRequestGivesUpAfterRateLimitBudget(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0.001")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Request(context.Background(), http.MethodGet, "databases/abc", nil)
	require.Error(t, err)
	// Initial attempt plus the full retry budget.
	assert.Equal(t, int32(maxRateLimitRetries+1), calls.Load())
}

func TestRequestRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"code":"internal_server_error","message":"boom"}`)
	})

	_, err := c.Request(context.Background(), http.MethodGet, "databases/abc", nil)
	require.Error(t, err)
	assert.Equal(t, int32(maxAttempts), calls.Load())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestRequestDoesNotRetryAfterSuccess(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{}`)
	})

	_, err := c.Request(context.Background(), http.MethodPost, "pages", map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGuidanceFor(t *testing.T) {
	testCases := []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, "Invalid API key. Please check and try again."},
		{http.StatusNotFound, "Database not found. Make sure you added Leetion to connections."},
		{http.StatusForbidden, "Access denied. Please add Leetion integration to your database."},
	}
	for _, tc := range testCases {
		err := fmt.Errorf("wrapped: %w", &APIError{Status: tc.status})
		assert.Equal(t, tc.want, GuidanceFor(err))
	}

	plain := fmt.Errorf("connection refused")
	assert.Equal(t, "connection refused", GuidanceFor(plain))
}

func TestBlockChildrenFollowsCursor(t *testing.T) {
	var cursors []string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		cursor := r.URL.Query().Get("start_cursor")
		cursors = append(cursors, cursor)
		switch cursor {
		case "":
			fmt.Fprint(w, `{"results":[{"type":"paragraph","id":"b1"}],"has_more":true,"next_cursor":"c2"}`)
		case "c2":
			fmt.Fprint(w, `{"results":[{"type":"paragraph","id":"b2"},{"type":"paragraph","id":"b3"}],"has_more":false}`)
		default:
			t.Errorf("unexpected cursor %q", cursor)
		}
	})

	blocks, err := c.BlockChildren(context.Background(), "page-1")
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, []string{"", "c2"}, cursors)
	assert.Equal(t, "b1", blocks[0].ID)
	assert.Equal(t, "b3", blocks[2].ID)
}

func TestQueryDatabasePagination(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode query request: %v", err)
		}
		if req.StartCursor == "" {
			fmt.Fprint(w, `{"results":[{"id":"p1"}],"has_more":true,"next_cursor":"c2"}`)
			return
		}
		fmt.Fprint(w, `{"results":[{"id":"p2"}],"has_more":false}`)
	})

	pages, err := c.QueryDatabase(context.Background(), "db", QueryRequest{})
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "p1", pages[0].ID)
	assert.Equal(t, "p2", pages[1].ID)
}

func TestQueryDatabaseSinglePage(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"results":[{"id":"p1"}],"has_more":true,"next_cursor":"c2"}`)
	})

	pages, err := c.QueryDatabase(context.Background(), "db", QueryRequest{PageSize: 1})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, int32(1), calls.Load(), "page size set, no follow-up fetch")
}

func TestAppendBlockChildrenLimit(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("over-limit append must not reach the API")
	})

	blocks := make([]Block, AppendBlockLimit+1)
	for i := range blocks {
		blocks[i] = NewParagraph("x")
	}
	err := c.AppendBlockChildren(context.Background(), "page-1", blocks)
	require.Error(t, err)
}

func TestCreatePage(t *testing.T) {
	var body map[string]json.RawMessage
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode create page body: %v", err)
		}
		fmt.Fprint(w, `{"id":"new-page"}`)
	})

	id, err := c.CreatePage(context.Background(), "db-1",
		map[string]Property{ColQuestion: {Title: []RichText{Text("Two Sum")}}},
		[]Block{NewParagraph("hello")})
	require.NoError(t, err)
	assert.Equal(t, "new-page", id)
	assert.Contains(t, body, "parent")
	assert.Contains(t, body, "properties")
	assert.Contains(t, body, "children")
}
