package restclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"expctl/internal/config"
	"expctl/internal/logging"
)

// RequestIDHeader carries the per-invocation request id.
const RequestIDHeader = "X-Request-ID"

const maxBodyBytes = 16 << 20

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Text returns the body as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// Client issues requests against experiment REST servers.
type Client struct {
	baseURL      string
	apiRoot      string
	checkTimeout time.Duration
	requestID    string
	http         *http.Client
	logger       *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRequestID pins the request id instead of generating one.
func WithRequestID(id string) Option {
	return func(c *Client) {
		if strings.TrimSpace(id) != "" {
			c.requestID = strings.TrimSpace(id)
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a client from the [rest] config section.
func New(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		baseURL:      cfg.REST.BaseURL,
		apiRoot:      cfg.REST.APIRoot,
		checkTimeout: cfg.CheckTimeout(),
		requestID:    uuid.NewString(),
		http:         &http.Client{},
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logging.String(logging.FieldComponent, "restclient"), logging.String(logging.FieldRequestID, c.requestID))
	return c
}

// RequestID reports the id sent with every request.
func (c *Client) RequestID() string {
	return c.requestID
}

// Get issues a GET bounded by timeout.
func (c *Client) Get(ctx context.Context, url string, timeout time.Duration) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, timeout)
}

// Delete issues a DELETE bounded by timeout.
func (c *Client) Delete(ctx context.Context, url string, timeout time.Duration) (*Response, error) {
	return c.do(ctx, http.MethodDelete, url, timeout)
}

// CheckServerQuick reports whether the server on port answers its status
// endpoint within the configured check timeout.
func (c *Client) CheckServerQuick(ctx context.Context, port int) (bool, *Response) {
	resp, err := c.Get(ctx, c.CheckStatusURL(port), c.checkTimeout)
	if err != nil {
		return false, nil
	}
	return IsResponseOK(resp), resp
}

// IsResponseOK reports whether resp is a 200 response.
func IsResponseOK(resp *Response) bool {
	return resp != nil && resp.StatusCode == http.StatusOK
}

func (c *Client) do(ctx context.Context, method, url string, timeout time.Duration) (*Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, c.requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("rest request failed",
			logging.String("method", method),
			logging.String("url", url),
			logging.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, url, err)
	}
	c.logger.Debug("rest request",
		logging.String("method", method),
		logging.String("url", url),
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(start)),
	)
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *Client) root(port int) string {
	return c.baseURL + ":" + strconv.Itoa(port) + c.apiRoot
}

// ExperimentURL is the experiment resource on port.
func (c *Client) ExperimentURL(port int) string {
	return c.root(port) + "/experiment"
}

// TrialJobsURL is the trial job collection on port.
func (c *Client) TrialJobsURL(port int) string {
	return c.root(port) + "/trial-jobs"
}

// TrialJobURL is a single trial job on port.
func (c *Client) TrialJobURL(port int, id string) string {
	return c.TrialJobsURL(port) + "/" + url.PathEscape(id)
}

// CheckStatusURL is the health endpoint on port.
func (c *Client) CheckStatusURL(port int) string {
	return c.root(port) + "/check-status"
}
