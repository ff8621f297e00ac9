// Package transport is the request pipeline: every outbound call to the
// backend passes through one configured Client. It is the only place that
// knows the authorization header format and the refresh protocol.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/kdmobility/go-fleet-client/internal/envelope"
)

const maxBodyBytes = 16 << 20

// SessionStore is the slice of the session manager the pipeline needs: the
// current access token, a silent refresh, and a full clear on session expiry.
type SessionStore interface {
	AccessToken() string
	Refresh(ctx context.Context) (string, error)
	Clear()
}

// Client issues authenticated requests against the backend. On a 401 it
// refreshes the session and replays the request exactly once; concurrent
// refresh attempts are coalesced into a single in-flight call.
type Client struct {
	httpc            *http.Client
	baseURL          string
	session          SessionStore
	refreshes        singleflight.Group
	limiter          *rate.Limiter
	onSessionExpired func()
	log              zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) { c.httpc = httpc }
}

// WithTimeout sets the per-request timeout (default 30s).
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpc.Timeout = d }
}

// WithRateLimit throttles outbound requests client-side.
func WithRateLimit(limiter *rate.Limiter) ClientOption {
	return func(c *Client) { c.limiter = limiter }
}

// WithSessionExpiredHook registers the callback invoked after a failed
// refresh has cleared the session (the login-redirect seam).
func WithSessionExpiredHook(hook func()) ClientOption {
	return func(c *Client) { c.onSessionExpired = hook }
}

// WithLogger sets the pipeline's logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// NewClient initializes the pipeline for the backend at baseURL (the "/api"
// prefix is appended here).
func NewClient(baseURL string, session SessionStore, options ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}
	if session == nil {
		return nil, errors.New("[NewClient] session store is required")
	}

	c := &Client{
		httpc:   &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		session: session,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Do sends one logical request and returns the unwrapped payload. Authorization
// failures trigger at most one refresh-and-replay; all other failures
// propagate immediately.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	var bodyBytes []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "[Client.Do] marshal body")
		}
		bodyBytes = b
	}

	token := c.session.AccessToken()
	retried := false
	for {
		status, payload, message, err := c.send(ctx, method, path, query, bodyBytes, token)
		if err != nil {
			return nil, errors.Wrapf(err, "[Client.Do] %s %s", method, path)
		}

		if status >= 200 && status <= 299 {
			return payload, nil
		}

		apiErr := &APIError{Status: status, Message: message}
		if status != http.StatusUnauthorized || retried {
			return nil, apiErr
		}

		newToken, err := c.refresh(ctx)
		if err != nil {
			c.log.Warn().Err(err).Msg("silent refresh failed, clearing session")
			c.session.Clear()
			if c.onSessionExpired != nil {
				c.onSessionExpired()
			}
			return nil, errors.Wrapf(SessionExpiredErr, "%v", apiErr)
		}

		retried = true
		token = newToken
	}
}

// refresh coalesces concurrent refresh attempts into one in-flight call;
// late arrivals wait for and share its result.
func (c *Client) refresh(ctx context.Context) (string, error) {
	v, err, _ := c.refreshes.Do("refresh", func() (any, error) {
		return c.session.Refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte, token string) (int, json.RawMessage, string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, "", err
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, nil, "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, "", err
	}

	payload, message := envelope.Unwrap(raw)
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("request")
	return resp.StatusCode, payload, message, nil
}
