package listquery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
)

// Fetcher obtains one page of records for a query
type Fetcher[T Record] interface {
	FetchPage(ctx context.Context, q QueryState, pageSize int) (Page[T], error)
}

// Doer performs one mutating request and returns the raw response payload
type Doer interface {
	Do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error)
}

// APIError is a non-2xx response carrying a message meant for the operator.
// Transport failures and 5xx responses are plain errors instead, which makes
// them eligible for the local-dataset fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// TokenSource supplies the bearer token for each request
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource holding a fixed token
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

// Client talks to one resource's REST endpoints. It implements both Fetcher
// and Doer so a single value serves list fetches and mutations.
type Client[T Record] struct {
	// BaseURL is the resource root, e.g. https://host/api/v1/admin/articles
	BaseURL string
	// Resource is the key the list payload nests records under; the generic
	// "data" key is accepted as a fallback.
	Resource string
	Tokens   TokenSource
	HTTP     *http.Client
	// Local, when set, serves pages while the backend is unreachable.
	Local *LocalDataset[T]
}

func (c *Client[T]) FetchPage(ctx context.Context, q QueryState, pageSize int) (Page[T], error) {
	page, err := c.fetchRemote(ctx, q, pageSize)
	if err == nil {
		return page, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return Page[T]{}, err
	}
	if c.Local != nil {
		return c.Local.FetchPage(ctx, q, pageSize)
	}
	return Page[T]{}, err
}

func (c *Client[T]) fetchRemote(ctx context.Context, q QueryState, pageSize int) (Page[T], error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(pageSize))
	if q.SearchText != "" {
		params.Set("search", q.SearchText)
	}
	for name, value := range q.Filters {
		params.Set(name, value)
	}
	if q.SortField != "" {
		params.Set("sort_field", q.SortField)
		params.Set("sort_dir", string(q.SortDir))
	}

	raw, err := c.request(ctx, http.MethodGet, "?"+params.Encode(), nil)
	if err != nil {
		return Page[T]{}, err
	}
	return c.decodePage(raw, pageSize)
}

// decodePage accepts both the enveloped shape
// {"data":{"<resource>":[...],"total":n,"total_pages":m}} and the plain
// {"<resource>":[...]} / {"data":[...]} shapes.
func (c *Client[T]) decodePage(raw json.RawMessage, pageSize int) (Page[T], error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Page[T]{}, fmt.Errorf("failed to decode list response: %w", err)
	}

	// Descend into a "data" envelope when it wraps an object
	if inner, ok := envelope["data"]; ok && len(inner) > 0 && inner[0] == '{' {
		if err := json.Unmarshal(inner, &envelope); err != nil {
			return Page[T]{}, fmt.Errorf("failed to decode list envelope: %w", err)
		}
	}

	var records []T
	if body, ok := envelope[c.Resource]; ok {
		if err := json.Unmarshal(body, &records); err != nil {
			return Page[T]{}, fmt.Errorf("failed to decode records: %w", err)
		}
	} else if body, ok := envelope["data"]; ok {
		if err := json.Unmarshal(body, &records); err != nil {
			return Page[T]{}, fmt.Errorf("failed to decode records: %w", err)
		}
	} else {
		return Page[T]{}, fmt.Errorf("list response missing %q key", c.Resource)
	}

	page := Page[T]{Records: records, TotalCount: len(records)}
	if body, ok := envelope["total"]; ok {
		_ = json.Unmarshal(body, &page.TotalCount)
	}
	if body, ok := envelope["total_pages"]; ok {
		_ = json.Unmarshal(body, &page.TotalPages)
	}
	if page.TotalPages == 0 {
		page.TotalPages = TotalPagesFor(page.TotalCount, pageSize)
	}
	return page, nil
}

// Do performs a mutating request against a path relative to BaseURL
func (c *Client[T]) Do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	return c.request(ctx, method, path, body)
}

func (c *Client[T]) request(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Tokens != nil {
		token, err := c.Tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to load auth token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	return nil, fmt.Errorf("server error %d", resp.StatusCode)
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return "request failed"
}

// LocalDataset computes pages from a fixed in-memory slice. It backs the
// offline fallback and makes the controller usable without any backend.
type LocalDataset[T Record] struct {
	Records []T
	// Match reports whether a record satisfies the search text and filters.
	// A nil Match keeps every record.
	Match func(record T, q QueryState) bool
	// Less orders two records under the given sort field ascending. A nil
	// Less leaves the slice order untouched.
	Less func(a, b T, field string) bool
}

func (d *LocalDataset[T]) FetchPage(ctx context.Context, q QueryState, pageSize int) (Page[T], error) {
	if err := ctx.Err(); err != nil {
		return Page[T]{}, err
	}
	if pageSize <= 0 {
		pageSize = len(d.Records)
	}

	matched := make([]T, 0, len(d.Records))
	for _, r := range d.Records {
		if d.Match == nil || d.Match(r, q) {
			matched = append(matched, r)
		}
	}

	if d.Less != nil && q.SortField != "" {
		field := q.SortField
		sort.SliceStable(matched, func(i, j int) bool {
			if q.SortDir == SortDesc {
				return d.Less(matched[j], matched[i], field)
			}
			return d.Less(matched[i], matched[j], field)
		})
	}

	total := len(matched)
	totalPages := TotalPagesFor(total, pageSize)

	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Records:    append([]T(nil), matched[start:end]...),
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}
