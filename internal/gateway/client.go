package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"incordes-client/internal/metrics"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTransport = errors.New("gateway unreachable")
	ErrMalformed = errors.New("malformed gateway response")
)

// RejectedError is returned when the gateway answered with an error-bearing
// body or a non-2xx status.
type RejectedError struct {
	Status int
	Reason string
}

func (e *RejectedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("gateway rejected request with status %d", e.Status)
	}
	return fmt.Sprintf("gateway rejected request with status %d: %s", e.Status, e.Reason)
}

// TokenSource supplies the bearer token for authenticated calls. An empty
// token sends no Authorization header.
type TokenSource interface {
	Token() string
}

type Endpoints struct {
	Auth     string
	Servers  string
	Messages string
}

type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
	tokens     TokenSource
	sugar      *zap.SugaredLogger
	metrics    *metrics.Metrics
}

// NewClient creates a gateway client. A zero timeout leaves the transport
// defaults in place.
func NewClient(endpoints Endpoints, timeout time.Duration, sugar *zap.SugaredLogger, m *metrics.Metrics) *Client {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Client{
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: timeout},
		sugar:      sugar,
		metrics:    m,
	}
}

func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

type call struct {
	endpoint string // label used in logs and metrics
	action   string
	method   string
	url      string
	query    url.Values
	body     any
	auth     bool
}

// do sends the request and decodes the JSON body into out regardless of the
// status code, since the gateway reports failures in the body.
func (c *Client) do(ctx context.Context, cl call, out any) (int, error) {
	c.metrics.GatewayRequests.WithLabelValues(cl.endpoint, cl.action).Inc()

	status, err := c.send(ctx, cl, out)
	if err != nil {
		kind := "rejected"
		switch {
		case errors.Is(err, ErrTransport):
			kind = "transport"
		case errors.Is(err, ErrMalformed):
			kind = "malformed"
		}
		c.metrics.GatewayFailures.WithLabelValues(cl.endpoint, cl.action, kind).Inc()
		c.sugar.Debugf("Gateway %s %s failed: %v", cl.endpoint, cl.action, err)
	}
	return status, err
}

func (c *Client) send(ctx context.Context, cl call, out any) (int, error) {
	target, err := url.Parse(cl.url)
	if err != nil {
		return 0, fmt.Errorf("invalid %s endpoint: %w", cl.endpoint, err)
	}
	if len(cl.query) > 0 {
		q := target.Query()
		for key, values := range cl.query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target.String(), body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if requestID, err := uuid.NewV7(); err == nil {
		req.Header.Set("X-Request-ID", requestID.String())
	}
	if cl.auth {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.sugar.Debugf("Gateway %s %s %s", cl.method, cl.endpoint, cl.action)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return resp.StatusCode, &RejectedError{Status: resp.StatusCode}
		}
		return resp.StatusCode, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return resp.StatusCode, nil
}

// failure carries the error fields every endpoint may answer with.
type failure struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (f failure) reason() string {
	if f.Error != "" {
		return f.Error
	}
	return f.Message
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}
