// Package api talks to the remote task store over HTTP.
package api

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

	"protask/internal/todo"
)

// DefaultBaseURL is the collection URL used for local development.
const DefaultBaseURL = "http://localhost:5000/api/todos"

// Store is the set of remote operations the client depends on.
type Store interface {
	// List returns every task in server order.
	List(ctx context.Context) ([]todo.Task, error)

	// Create stores a new task and returns the server's record.
	Create(ctx context.Context, in NewTask) (todo.Task, error)

	// Update applies a partial update and returns the server's record.
	Update(ctx context.Context, id string, patch Patch) (todo.Task, error)

	// Delete removes the task with id.
	Delete(ctx context.Context, id string) error
}

// NewTask is the create request body.
type NewTask struct {
	Title     string        `json:"title"`
	Completed bool          `json:"completed"`
	DueDate   *todo.DueDate `json:"dueDate"`
}

// Patch is a partial update. Only set fields are sent; SetDue sends DueDate
// even when it is nil, which clears the due date.
type Patch struct {
	Title     *string
	Completed *bool
	DueDate   *todo.DueDate
	SetDue    bool
}

// CompletedPatch flips only the completion flag.
func CompletedPatch(done bool) Patch {
	return Patch{Completed: &done}
}

// EditPatch replaces title and due date.
func EditPatch(title string, due *todo.DueDate) Patch {
	return Patch{Title: &title, DueDate: due, SetDue: true}
}

func (p Patch) MarshalJSON() ([]byte, error) {
	body := map[string]any{}
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Completed != nil {
		body["completed"] = *p.Completed
	}
	if p.SetDue {
		if p.DueDate != nil {
			body["dueDate"] = p.DueDate.String()
		} else {
			body["dueDate"] = nil
		}
	}
	return json.Marshal(body)
}

// Client implements Store against a REST collection URL.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero leaves timing to the transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a client for the collection at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base: strings.TrimRight(u.String(), "/"),
		http: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the collection URL.
func (c *Client) BaseURL() string { return c.base }

// List implements Store.
func (c *Client) List(ctx context.Context) ([]todo.Task, error) {
	var tasks []todo.Task
	if err := c.do(ctx, http.MethodGet, c.base, nil, &tasks); err != nil {
		return nil, &RemoteError{Op: "list", Err: err}
	}
	if tasks == nil {
		tasks = []todo.Task{}
	}
	return tasks, nil
}

// Create implements Store.
func (c *Client) Create(ctx context.Context, in NewTask) (todo.Task, error) {
	var out todo.Task
	if err := c.do(ctx, http.MethodPost, c.base, in, &out); err != nil {
		return todo.Task{}, &RemoteError{Op: "create", Err: err}
	}
	return out, nil
}

// Update implements Store.
func (c *Client) Update(ctx context.Context, id string, patch Patch) (todo.Task, error) {
	var out todo.Task
	if err := c.do(ctx, http.MethodPut, c.itemURL(id), patch, &out); err != nil {
		return todo.Task{}, &RemoteError{Op: "update", ID: id, Err: err}
	}
	return out, nil
}

// Delete implements Store. The response body is discarded.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil); err != nil {
		return &RemoteError{Op: "delete", ID: id, Err: err}
	}
	return nil
}

func (c *Client) itemURL(id string) string {
	return c.base + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, target string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: string(data)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
