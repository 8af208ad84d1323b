// Package client is a Go client for the todolist HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"todolist/internal/models"
	"todolist/internal/query"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("todolist api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/login", req, &out); err != nil {
		return err
	}
	c.token = out.AccessToken
	return nil
}

// List fetches one page. A filter that cannot be encoded is reported
// before any request is sent.
func (c *Client) List(ctx context.Context, filter models.TodoFilter) (*models.TodoPage, error) {
	params, err := query.Encode(filter)
	if err != nil {
		return nil, err
	}
	path := "/api/todos"
	if qs := params.String(); qs != "" {
		path += "?" + qs
	}
	var page models.TodoPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*models.Todo, error) {
	return c.todo(ctx, http.MethodGet, fmt.Sprintf("/api/todos/%d", id), nil)
}

func (c *Client) Create(ctx context.Context, input models.TodoInput) (*models.Todo, error) {
	return c.todo(ctx, http.MethodPost, "/api/todos", input)
}

func (c *Client) Update(ctx context.Context, id int64, input models.TodoInput) (*models.Todo, error) {
	return c.todo(ctx, http.MethodPut, fmt.Sprintf("/api/todos/%d", id), input)
}

func (c *Client) MarkDone(ctx context.Context, id int64) (*models.Todo, error) {
	return c.todo(ctx, http.MethodPost, fmt.Sprintf("/api/todos/%d/done", id), nil)
}

func (c *Client) MarkUndone(ctx context.Context, id int64) (*models.Todo, error) {
	return c.todo(ctx, http.MethodPut, fmt.Sprintf("/api/todos/%d/undone", id), nil)
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/todos/%d", id), nil, nil)
}

// Metrics fetches the completion time averages. Undefined averages come
// back with Valid set to false.
func (c *Client) Metrics(ctx context.Context) (models.Metrics, error) {
	var m models.Metrics
	err := c.do(ctx, http.MethodGet, "/api/todos/metrics", nil, &m)
	return m, err
}

func (c *Client) todo(ctx context.Context, method, path string, body interface{}) (*models.Todo, error) {
	var t models.Todo
	if err := c.do(ctx, method, path, body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
