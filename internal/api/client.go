// Package api is the HTTP client for the diabeGuide server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rorical/diabeguide/pkg/logger"
)

// ClientConfig holds configuration options for the client.
type ClientConfig struct {
	BaseURL       string
	SessionCookie string
	CookieName    string
	Timeout       time.Duration
}

// Client talks to the diabeGuide JSON API. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if cfg.SessionCookie != "" {
		jar.SetCookies(base, []*http.Cookie{{Name: cfg.CookieName, Value: cfg.SessionCookie}})
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type requestIDKey struct{}

// WithRequestID tags ctx so the request carries an X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// do sends a JSON request and returns the status code and raw body.
// Non-2xx statuses are not treated as errors here; callers decide.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	log := logger.WithFields(logrus.Fields{"method": method, "path": path, "request_id": requestID(ctx)})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return 0, nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, transportError(ctx, err)
	}
	// A response that lands after the caller gave up is still a cancellation.
	if ctx.Err() != nil {
		return resp.StatusCode, nil, transportError(ctx, ctx.Err())
	}

	log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(start)}).Debug("request done")
	return resp.StatusCode, data, nil
}

// getJSON fetches path and decodes it into out, failing on non-2xx statuses.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	status, data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if !isOK(status) {
		return &ClientError{Type: ErrTypeStatus, Status: status, Message: "GET " + path + " failed"}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Status: status, Message: "malformed response body", Cause: err}
	}
	return nil
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}

type successResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// expectSuccess sends body and expects {"success": true}.
func (c *Client) expectSuccess(ctx context.Context, method, path string, body interface{}) error {
	status, data, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}

	var result successResponse
	if jsonErr := json.Unmarshal(data, &result); jsonErr != nil {
		if !isOK(status) {
			return &ClientError{Type: ErrTypeStatus, Status: status, Message: method + " " + path + " failed"}
		}
		return &ClientError{Type: ErrTypeInvalidResponse, Status: status, Message: "malformed response body", Cause: jsonErr}
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = method + " " + path + " was not successful"
		}
		return &ClientError{Type: ErrTypeStatus, Status: status, Message: msg}
	}
	return nil
}
