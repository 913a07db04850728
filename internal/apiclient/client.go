package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"hobbyhub-client/internal/logging"
	"hobbyhub-client/internal/models"
)

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Client is the authenticated connection to the project API. It is built
// once and shared read-only, so screens never race on the credential.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *logrus.Logger
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) {
		c.tokens = StaticToken(token)
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithCircuitBreaker routes every round trip through cb. Only transport
// failures count against it; HTTP error statuses do not.
func WithCircuitBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) {
		c.breaker = cb
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends one request and decodes the envelope. There is no retry.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (*models.Envelope, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get auth token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.roundTrip(req)
	entry := c.log.WithFields(logrus.Fields{
		"http_method": method,
		"path":        path,
		"latency_ms":  time.Since(start).Milliseconds(),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			entry.WithError(ctxErr).Debug("request cancelled")
			return nil, ctxErr
		}
		entry.WithError(err).Warn("request failed before a response")
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	entry = entry.WithField("status_code", resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		entry.WithError(err).Warn("failed to read response body")
		return nil, &NetworkError{Err: err}
	}

	var env models.Envelope
	decodeErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		entry.Debug("request completed with error status")
		if decodeErr != nil {
			return nil, newAPIError(resp.StatusCode, nil)
		}
		return nil, newAPIError(resp.StatusCode, &env)
	}
	if decodeErr != nil {
		entry.WithError(decodeErr).Warn("undecodable response body")
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	entry.Debug("request completed")
	return &env, nil
}

func (c *Client) roundTrip(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.httpClient.Do(req)
	}
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.log.WithField("breaker", c.breaker.Name()).Warn("circuit open, request not sent")
		}
		return nil, err
	}
	return out.(*http.Response), nil
}

// NewCircuitBreaker builds a breaker that opens after the given number of
// consecutive transport failures and logs its state changes. Cancelled and
// timed-out contexts are not counted as failures.
func NewCircuitBreaker(name string, maxFailures int, log *logrus.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		// Cancelled and timed-out calls are not failures.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("circuit breaker state changed")
		},
	})
}

func pathID(id string) string {
	return url.PathEscape(id)
}
