// Package client is the device-side SDK for the TasQuest API. AuthClient
// speaks to the authentication endpoints and DataClient to the AppData
// endpoints; both share one HTTP client and one persisted session token.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	dErrors "tasquest/pkg/domain-errors"
	"tasquest/pkg/platform/httputil"
)

const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 10 * time.Second
)

// Config holds the client settings read from the environment.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// ConfigFromEnv reads TASQUEST_API_URL and TASQUEST_CLIENT_TIMEOUT.
func ConfigFromEnv() Config {
	cfg := Config{BaseURL: DefaultBaseURL, Timeout: DefaultTimeout}
	if v := os.Getenv("TASQUEST_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v, err := time.ParseDuration(os.Getenv("TASQUEST_CLIENT_TIMEOUT")); err == nil && v > 0 {
		cfg.Timeout = v
	}
	return cfg
}

// Client is the shared transport behind AuthClient and DataClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithTokenStore(store TokenStore) Option {
	return func(c *Client) {
		if store != nil {
			c.tokens = store
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a client for baseURL. Without WithTokenStore the session lives
// only in memory.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		tokens:     NewMemoryTokenStore(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Auth returns the authentication client.
func (c *Client) Auth() *AuthClient {
	return &AuthClient{c: c}
}

// Data returns the AppData client.
func (c *Client) Data() *DataClient {
	return &DataClient{c: c}
}

// do sends one request. Transport failures are wrapped with unavailable;
// non-2xx responses are decoded from the error envelope into domain errors.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any, unavailable dErrors.Code) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "encode request")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dErrors.Wrap(err, unavailable, "service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp, unavailable)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dErrors.Wrap(err, unavailable, "malformed response")
	}
	return nil
}

func decodeError(resp *http.Response, unavailable dErrors.Code) error {
	var body httputil.ErrorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		return dErrors.New(codeForStatus(resp.StatusCode, unavailable), fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}
	msg := body.ErrorDescription
	if msg == "" {
		msg = strings.ReplaceAll(body.Error, "_", " ")
	}
	return dErrors.New(dErrors.Code(body.Error), msg)
}

// codeForStatus is the fallback when a response carries no envelope, as
// with a proxy in front of the API. Gateway failures take the caller's
// unavailable code.
func codeForStatus(status int, unavailable dErrors.Code) dErrors.Code {
	switch status {
	case http.StatusBadRequest:
		return dErrors.CodeBadRequest
	case http.StatusUnauthorized:
		return dErrors.CodeUnauthorized
	case http.StatusForbidden:
		return dErrors.CodeForbidden
	case http.StatusNotFound:
		return dErrors.CodeNotFound
	case http.StatusConflict:
		return dErrors.CodeConflict
	case http.StatusTooManyRequests:
		return dErrors.CodeTooManyRequests
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return unavailable
	default:
		return dErrors.CodeInternal
	}
}

// currentSession loads the persisted session, treating an expired token as
// no session.
func (c *Client) currentSession() (*Session, error) {
	sess, err := c.tokens.Load()
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Token == "" {
		return nil, nil
	}
	if !sess.ExpiresAt.IsZero() && !time.Now().Before(sess.ExpiresAt) {
		if err := c.tokens.Clear(); err != nil {
			c.logger.Warn("failed to clear expired session", "error", err)
		}
		return nil, nil
	}
	return sess, nil
}

var errNoSession = dErrors.New(dErrors.CodeUnauthorized, "not signed in")
