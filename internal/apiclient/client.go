// Package apiclient talks to the leadbook REST API over HTTP.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"winsbygroup.com/leadbook/internal/contact"
	"winsbygroup.com/leadbook/internal/http/api"
)

// APIError is a non-2xx response. Message is the server's "error" field when
// the body carried one, otherwise the HTTP status text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL, e.g. "http://localhost:5000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) List(ctx context.Context) ([]contact.Contact, error) {
	var out []contact.Contact
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create adds one contact and returns the id the server assigned.
func (c *Client) Create(ctx context.Context, ct contact.Contact) (int64, error) {
	var resp api.CreateResponse
	if err := c.do(ctx, http.MethodPost, "/api/users", ct, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *Client) Update(ctx context.Context, id int64, ct contact.Contact) error {
	return c.do(ctx, http.MethodPut, "/api/users/"+strconv.FormatInt(id, 10), ct, nil)
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+strconv.FormatInt(id, 10), nil, nil)
}

// BulkCreate uploads rows in one request and returns how many were inserted.
func (c *Client) BulkCreate(ctx context.Context, rows []contact.Contact) (int64, error) {
	body := struct {
		Users []contact.Contact `json:"users"`
	}{Users: rows}
	var resp api.BulkCreateResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/bulk", body, &resp); err != nil {
		return 0, err
	}
	return resp.Inserted, nil
}

// Export streams the server's xlsx export into w.
func (c *Client) Export(ctx context.Context, w io.Writer) error {
	resp, err := c.send(ctx, http.MethodGet, "/api/users/export", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send issues the request and turns non-2xx responses into *APIError.
func (c *Client) send(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e api.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			apiErr.Message = e.Error
		}
		return nil, apiErr
	}
	return resp, nil
}
