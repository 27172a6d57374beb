// Package client is a Go client for the todo API, speaking the same HTTP
// contract as the browser clients.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/toumakido/my-claude/todoapi/internal/model"
)

var (
	// ErrNotFound is returned when the server responds 404.
	ErrNotFound = errors.New("todo not found")
	// ErrBadRequest is returned when the server responds 400.
	ErrBadRequest = errors.New("bad request")
)

const basePath = "/api/todos"

// StatusError describes an unexpected response status.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client calls a todo API server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns every todo.
func (c *Client) List(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.do(ctx, http.MethodGet, basePath, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// Get returns a single todo. Returns ErrNotFound for an unknown id.
func (c *Client) Get(ctx context.Context, id int) (model.Todo, error) {
	var todo model.Todo
	if err := c.do(ctx, http.MethodGet, itemPath(id), nil, &todo); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

// Create adds a todo. The server does not echo the created item, so the
// caller must List to learn its id.
func (c *Client) Create(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, basePath, model.CreateRequest{Name: name}, nil)
}

// SetCompleted sets the completion flag of a todo.
func (c *Client) SetCompleted(ctx context.Context, id int, isComplete bool) error {
	return c.do(ctx, http.MethodPost, itemPath(id), model.CompletionRequest{IsComplete: isComplete}, nil)
}

// Delete removes a todo.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id int) string {
	return basePath + "/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		bits, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(bits)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%s %s: %w", method, path, ErrBadRequest)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		bits, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(bits))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
