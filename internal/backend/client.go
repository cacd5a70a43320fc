// Package backend talks to the analytics service that computes issue
// activity and forecast images.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ghforecast/internal/domain"
)

// DefaultPath is the analytics route served by the backend
const DefaultPath = "/api/github"

// Failure classes. Every error returned by Fetch wraps exactly one of them.
var (
	ErrTransport = errors.New("backend unreachable")
	ErrStatus    = errors.New("backend returned non-success status")
	ErrDecode    = errors.New("backend returned malformed body")
)

// maxErrorBody bounds how much of a failed response is kept for the log
const maxErrorBody = 512

// Request is the JSON body of POST /api/github
type Request struct {
	Repository     string `json:"repository"`
	StarlistStatus bool   `json:"starlist_status"`
	ForklistStatus bool   `json:"forklist_status"`
}

// RequestFor builds the request body for a catalog entry
func RequestFor(entry domain.RepositorySelection) Request {
	return Request{
		Repository:     entry.Key,
		StarlistStatus: entry.Mode == domain.ModeStars,
		ForklistStatus: entry.Mode == domain.ModeForks,
	}
}

// Fetcher retrieves analytics for one request
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (domain.AnalyticsResult, error)
}

// Client is the HTTP implementation of Fetcher
type Client struct {
	endpoint string
	http     *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client posting to baseURL+path
func NewClient(baseURL, path string, opts ...Option) *Client {
	if path == "" {
		path = DefaultPath
	}
	c := &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/"),
		http:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL requests are posted to
func (c *Client) Endpoint() string { return c.endpoint }

// Fetch posts req and decodes the analytics payload. Absent fields decode as
// empty series and absent image URLs.
func (c *Client) Fetch(ctx context.Context, req Request) (domain.AnalyticsResult, error) {
	var out domain.AnalyticsResult

	body, err := json.Marshal(req)
	if err != nil {
		return out, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return out, fmt.Errorf("%w: http %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.AnalyticsResult{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return out, nil
}
