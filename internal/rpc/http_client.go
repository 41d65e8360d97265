package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/thruflo/rota/internal/logging"
)

// EndpointPath is the HTTP path of the call endpoint.
const EndpointPath = "/rpc"

// HTTPClient calls the backend with one POST per call.
type HTTPClient struct {
	procedures

	baseURL    string
	httpClient *http.Client
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// WithLogger sets the logger used for malformed replies.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// NewHTTPClient returns a client for the server at baseURL
// (e.g. "http://localhost:8374").
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	c.procedures = procedures{rt: c, logger: logging.Default()}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the server URL the client talks to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) roundTrip(ctx context.Context, call Call) (Reply, error) {
	body, err := json.Marshal(call)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to encode call: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+EndpointPath, bytes.NewReader(body))
	if err != nil {
		return Reply{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to call %s: %w", call.Procedure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Reply{}, fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return Reply{}, fmt.Errorf("failed to decode reply: %w", err)
	}
	return reply, nil
}

var _ Backend = (*HTTPClient)(nil)
