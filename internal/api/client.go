// Package api is a typed client for the taskman HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/taskpeek/pkg/model"
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

// Server-side caps on the limit parameter.
const (
	MaxTaskLimit    = 200
	MaxDepsLimit    = 500
	MaxCatalogLimit = 100
)

// DefaultTimeout applies when no http.Client is supplied.
const DefaultTimeout = 15 * time.Second

// ErrNotFound is returned when the server answers 404.
var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx response other than 404.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client talks to one taskman server. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("GET %s: %w", path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: http.MethodGet, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// filterValues maps list filters to query parameters. The blocked filter is
// applied client-side and never sent.
func filterValues(f route.Filters) url.Values {
	v := url.Values{}
	for _, key := range []route.FilterKey{route.FilterPhase, route.FilterMilestone, route.FilterRole, route.FilterStatus} {
		if val := f.Get(key); val != "" {
			v.Set(string(key), val)
		}
	}
	return v
}

func taskPath(id string, suffix string) string {
	return "/task/" + url.PathEscape(id) + suffix
}

// ListTasks returns one page of tasks matching f.
func (c *Client) ListTasks(ctx context.Context, f route.Filters, limit, page int) ([]model.Task, error) {
	q := filterValues(f)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(page))
	var tasks []model.Task
	if err := c.get(ctx, "/tasks", q, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountTasks returns the number of tasks matching f.
func (c *Client) CountTasks(ctx context.Context, f route.Filters) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.get(ctx, "/tasks/count", filterValues(f), &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// GetTask fetches one task. A missing task yields an error wrapping
// ErrNotFound; a body without an id or with an unknown status is an error too.
func (c *Client) GetTask(ctx context.Context, id string) (model.Task, error) {
	var t model.Task
	path := taskPath(id, "")
	if err := c.get(ctx, path, nil, &t); err != nil {
		return model.Task{}, err
	}
	if err := t.Validate(); err != nil {
		return model.Task{}, fmt.Errorf("GET %s: %w", path, err)
	}
	return t, nil
}

// TaskDeps returns the edges whose TaskID is id.
func (c *Client) TaskDeps(ctx context.Context, id string) ([]model.DependencyEdge, error) {
	var edges []model.DependencyEdge
	if err := c.get(ctx, taskPath(id, "/deps"), nil, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

// TaskNotes returns the notes attached to id.
func (c *Client) TaskNotes(ctx context.Context, id string) ([]model.Note, error) {
	var notes []model.Note
	if err := c.get(ctx, taskPath(id, "/notes"), nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// ListDeps returns up to limit dependency edges across all tasks.
func (c *Client) ListDeps(ctx context.Context, limit int) ([]model.DependencyEdge, error) {
	var edges []model.DependencyEdge
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.get(ctx, "/task_deps", q, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

// ListPhases returns up to limit phases.
func (c *Client) ListPhases(ctx context.Context, limit int) ([]model.Phase, error) {
	var phases []model.Phase
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.get(ctx, "/phases", q, &phases); err != nil {
		return nil, err
	}
	return phases, nil
}

// ListMilestones returns up to limit milestones.
func (c *Client) ListMilestones(ctx context.Context, limit int) ([]model.Milestone, error) {
	var milestones []model.Milestone
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.get(ctx, "/milestones", q, &milestones); err != nil {
		return nil, err
	}
	return milestones, nil
}

// IsNotFound reports whether err came from a 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
