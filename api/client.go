// Package api provides the HTTP client used for every request the CMS
// dashboard makes. The client is bound to a fixed base URL, keeps a cookie
// jar so the http-only refresh cookie travels with credentialed calls, and
// attaches the current bearer token at dispatch time by reading a live
// token source. It carries no retry policy and no interceptor chain;
// failures propagate to the caller unchanged.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	querystring "github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

// Client issues JSON requests against the CMS REST API.
type Client struct {
	baseURL *url.URL
	httpc   *http.Client
	log     zerolog.Logger

	mu     sync.RWMutex
	tokens oauth2.TokenSource
}

// Option configures optional Client behaviour.
type Option func(*Client)

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithHTTPClient replaces the underlying http.Client. The replacement should
// carry a cookie jar, otherwise the refresh cookie is lost between calls.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithTimeout sets the per-request timeout on the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpc.Timeout = timeout
	}
}

// WithTokenSource sets the token source consulted on every request.
func WithTokenSource(tokens oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// New creates a Client bound to baseURL. The returned client is safe for
// concurrent use and is intended to be constructed once per application.
func New(baseURL string, options ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[api.New] invalid base URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("[api.New] base URL %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "[api.New] cookiejar.New")
	}

	c := &Client{
		baseURL: u,
		httpc:   &http.Client{Jar: jar, Timeout: defaultTimeout},
		log:     zerolog.Nop(),
	}

	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

// SetTokenSource binds the token source after construction. The session
// store needs the client for its login call, so the two are wired in this
// order: client first, then store, then SetTokenSource.
func (c *Client) SetTokenSource(tokens oauth2.TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = tokens
}

func (c *Client) tokenSource() oauth2.TokenSource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

// Get issues a GET to path. params, when non-nil, is encoded into the query
// string via its url struct tags.
func (c *Client) Get(ctx context.Context, path string, params any, out any) error {
	if params != nil {
		values, err := querystring.Values(params)
		if err != nil {
			return errors.Wrap(err, "[Client.Get] encoding query params")
		}
		if encoded := values.Encode(); encoded != "" {
			path = path + "?" + encoded
		}
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with body marshalled as JSON.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH with body marshalled as JSON.
func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE. The target resource is identified by the path
// alone; delete requests never carry a body.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	target, err := c.resolve(path)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[Client.do] marshalling %s body", method)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrap(err, "[Client.do] building request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// The bearer token is read from the live source at dispatch time so a
	// silently refreshed token is picked up without reconstructing anything.
	if tokens := c.tokenSource(); tokens != nil {
		tok, err := tokens.Token()
		if err != nil {
			return errors.Wrap(err, "[Client.do] reading token source")
		}
		if tok != nil && tok.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
		}
	}

	started := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[Client.do] %s %s", method, path)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "[Client.do] reading %s %s response", method, path)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("api request")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrapf(err, "[Client.do] decoding %s %s response", method, path)
		}
	}

	return nil
}

// resolve joins path onto the base URL, keeping any query string and any
// percent-encoded octets intact. An escaped slash inside a path segment (an
// id containing "/") must not become a path separator.
func (c *Client) resolve(path string) (string, error) {
	rel, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", errors.Wrapf(err, "[Client.resolve] invalid path %q", path)
	}

	joined := strings.TrimSuffix(c.baseURL.EscapedPath(), "/") + "/" + rel.EscapedPath()
	unescaped, err := url.PathUnescape(joined)
	if err != nil {
		return "", errors.Wrapf(err, "[Client.resolve] invalid path %q", path)
	}

	base := *c.baseURL
	base.Path = unescaped
	base.RawPath = ""
	if unescaped != joined {
		base.RawPath = joined
	}
	base.RawQuery = rel.RawQuery
	return base.String(), nil
}
