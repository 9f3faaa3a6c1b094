package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sagarc03/mydropbox"
)

// RequestIDHeader carries the per-call request identifier.
const RequestIDHeader = "X-Request-Id"

// Client performs operations against the storage gateway.
type Client struct {
	config     *Config
	baseURL    string
	httpClient *http.Client
	timeout    *time.Duration
	logger     *slog.Logger
}

var _ mydropbox.Gateway = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. A nil client keeps the default.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout. It applies to a copy of the HTTP
// client, so a client passed to WithHTTPClient is not modified.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = &timeout
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new client: %w", err)
	}

	c := &Client{
		config:  cfg,
		baseURL: cfg.BaseURL(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if c.timeout != nil {
		httpClient := *c.httpClient
		httpClient.Timeout = *c.timeout
		c.httpClient = &httpClient
	}

	return c, nil
}

// BaseURL returns the address routes are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call sends one request to route with body encoded as JSON and returns the
// parsed result. A nil body sends no payload; the JSON content type is set
// either way.
//
// Transport failures, non-2xx statuses and bodies that are not valid JSON
// all return a nil Result and an error. Non-2xx statuses are *APIError.
func (c *Client) Call(ctx context.Context, method, route string, body any) (*Result, error) {
	requestID := uuid.NewString()
	logger := c.logger.With("method", method, "route", route, "request_id", requestID)

	var reqBody io.Reader = http.NoBody
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+route, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	logger.DebugContext(ctx, "gateway request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WarnContext(ctx, "gateway request failed", "err", err)
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WarnContext(ctx, "gateway response unreadable", "status", resp.StatusCode, "err", err)
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.WarnContext(ctx, "gateway request rejected", "status", resp.StatusCode)
		return nil, parseServerError(resp.StatusCode, payload)
	}

	if !json.Valid(payload) {
		logger.WarnContext(ctx, "gateway response is not JSON", "status", resp.StatusCode)
		return nil, fmt.Errorf("%s %s: %w", method, route, ErrInvalidResponse)
	}

	logger.DebugContext(ctx, "gateway response", "status", resp.StatusCode)

	return &Result{
		StatusCode: resp.StatusCode,
		Payload:    payload,
		RequestID:  requestID,
	}, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, cred mydropbox.Credential) error {
	_, err := c.callOK(ctx, http.MethodPost, RouteRegister, cred)
	return err
}

// Login checks credentials with the gateway.
func (c *Client) Login(ctx context.Context, cred mydropbox.Credential) error {
	_, err := c.callOK(ctx, http.MethodPost, RouteLogin, cred)
	return err
}

// Logout ends the server-side session. No body is sent.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.callOK(ctx, http.MethodPost, RouteLogout, nil)
	return err
}

// ListFiles returns the files visible to owner.
func (c *Client) ListFiles(ctx context.Context, owner string) ([]mydropbox.FileRecord, error) {
	result, err := c.callOK(ctx, http.MethodGet, RouteView, viewRequest{Owner: owner})
	if err != nil {
		return nil, err
	}

	var resp viewResponse
	if err := result.Decode(&resp); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return resp.Files, nil
}

// PutFile uploads an encoded file.
func (c *Client) PutFile(ctx context.Context, req mydropbox.PutFileRequest) error {
	_, err := c.callOK(ctx, http.MethodPut, RoutePut, req)
	return err
}

// FileURL asks the gateway where owner's fileName can be retrieved from.
// It returns "" when the response carries no file_url.
func (c *Client) FileURL(ctx context.Context, owner, fileName string) (string, error) {
	result, err := c.callOK(ctx, http.MethodGet, RouteGet, getRequest{Owner: owner, FileName: fileName})
	if err != nil {
		return "", err
	}

	var resp getResponse
	if err := result.Decode(&resp); err != nil {
		return "", fmt.Errorf("file url: %w", err)
	}
	return resp.FileURL, nil
}

// ShareFile grants another user access to a file.
func (c *Client) ShareFile(ctx context.Context, req mydropbox.ShareRequest) error {
	_, err := c.callOK(ctx, http.MethodPost, RouteShare, req)
	return err
}

// Fetch downloads the content behind a retrieval location returned by FileURL.
// The request carries no gateway headers. The caller must close the reader.
func (c *Client) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "fetch failed", "err", err)
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		c.logger.WarnContext(ctx, "fetch rejected", "status", resp.StatusCode)
		return nil, parseServerError(resp.StatusCode, body)
	}

	return resp.Body, nil
}

// callOK is Call restricted to HTTP 200.
func (c *Client) callOK(ctx context.Context, method, route string, body any) (*Result, error) {
	result, err := c.Call(ctx, method, route, body)
	if err != nil {
		return nil, err
	}
	if result.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s %s: %w %d", method, route, mydropbox.ErrUnexpectedStatus, result.StatusCode)
	}
	return result, nil
}

// parseServerError extracts error message from server response.
func parseServerError(statusCode int, body []byte) error {
	return &APIError{
		StatusCode: statusCode,
		Body:       string(bytes.TrimSpace(body)),
	}
}
