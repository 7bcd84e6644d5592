package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProjectName is set at build time - used for User-Agent
var ProjectName = "assetsearch"

// Version is set at build time
var Version = "dev"

const (
	// DefaultEndpoint is the plain vector/image search route.
	DefaultEndpoint = "/search"
	// DefaultHybridEndpoint is the route that also accepts hybrid_text_query.
	DefaultHybridEndpoint = "/search_hybrid"

	maxErrorBody = 512
)

// ErrStatus is wrapped by every non-2xx response error.
var ErrStatus = errors.New("unexpected status")

// StatusError reports a non-2xx response from the search service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server error %d", e.Code)
	}
	return fmt.Sprintf("server error %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Client is the HTTP client for the asset search service.
type Client struct {
	BaseURL        string
	Endpoint       string
	HybridEndpoint string
	Username       string
	Password       string
	HTTPClient     *http.Client
	Logger         *slog.Logger
}

// NewClient creates a new API client. timeout is in seconds; 0 disables it.
func NewClient(baseURL string, timeout int) *Client {
	return &Client{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		Endpoint:       DefaultEndpoint,
		HybridEndpoint: DefaultHybridEndpoint,
		HTTPClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

// SetBasicAuth configures static HTTP Basic credentials. An empty username disables auth.
func (c *Client) SetBasicAuth(username, password string) {
	c.Username = username
	c.Password = password
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Search posts req and returns the hits of the response in service order.
// Transport failures, timeouts and non-2xx statuses are returned as errors;
// a response without a recognised hits container yields zero hits.
func (c *Client) Search(ctx context.Context, req *SearchRequest) ([]Hit, error) {
	path := c.Endpoint
	if req.Hybrid {
		path = c.HybridEndpoint
	}

	requestID := uuid.New().String()
	start := time.Now()

	resp, err := c.doRequest(ctx, http.MethodPost, path, requestID, req)
	if err != nil {
		c.logger().Warn("search request failed", "request_id", requestID, "limit", req.Limit, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	hits, err := DecodeHits(body)
	if err != nil {
		return nil, err
	}

	c.logger().Debug("search request",
		"request_id", requestID,
		"path", path,
		"limit", req.Limit,
		"hits", len(hits),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return hits, nil
}

// doRequest performs an HTTP request with a JSON body and checks the status.
func (c *Client) doRequest(ctx context.Context, method, path, requestID string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", fmt.Sprintf("%s-cli/%s", ProjectName, Version))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyData, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(bodyData))}
	}

	return resp, nil
}
