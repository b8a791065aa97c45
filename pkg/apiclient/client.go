package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samvad-hq/coursegraph-client/pkg/httpclient"
)

const (
	// DefaultBaseURL is the Course Graph backend every path is resolved against.
	DefaultBaseURL = "http://52.83.171.185:7477"
	// TokenKey is the storage key the authorization token lives under.
	TokenKey = "token"

	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	ContentTypeJSON     = "application/json"
)

// TokenSource is the read side of the local key-value storage.
type TokenSource interface {
	GetItem(key string) (string, bool, error)
}

// Client forwards HTTP verbs to the backend, attaching the stored token.
// Every call is independent; Client holds no per-request state.
type Client struct {
	http    httpclient.Client
	storage TokenSource
	baseURL string
	log     Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = ensureLogger(log) }
}

// New builds a Client from its two collaborators.
func New(httpClient httpclient.Client, storage TokenSource, opts ...Option) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client must not be nil")
	}
	if storage == nil {
		return nil, fmt.Errorf("token storage must not be nil")
	}

	c := &Client{
		http:    httpClient,
		storage: storage,
		baseURL: DefaultBaseURL,
		log:     noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the prefix applied to every path.
func (c *Client) BaseURL() string { return c.baseURL }

// Get prepares a GET request for path.
func (c *Client) Get(path string) *Deferred {
	return c.prepare(http.MethodGet, path, nil)
}

// Post prepares a POST request for path carrying body.
func (c *Client) Post(path string, body any) *Deferred {
	return c.prepare(http.MethodPost, path, body)
}

// Put prepares a PUT request for path carrying body.
func (c *Client) Put(path string, body any) *Deferred {
	return c.prepare(http.MethodPut, path, body)
}

// Delete prepares a DELETE request for path.
func (c *Client) Delete(path string) *Deferred {
	return c.prepare(http.MethodDelete, path, nil)
}

// Patch prepares a PATCH request for path carrying body.
func (c *Client) Patch(path string, body any) *Deferred {
	return c.prepare(http.MethodPatch, path, body)
}

// Head prepares a HEAD request for path.
func (c *Client) Head(path string) *Deferred {
	return c.prepare(http.MethodHead, path, nil)
}

// Do prepares a request for any of the six supported methods.
func (c *Client) Do(method, path string, body any) (*Deferred, error) {
	switch method {
	case http.MethodGet:
		return c.Get(path), nil
	case http.MethodDelete:
		return c.Delete(path), nil
	case http.MethodHead:
		return c.Head(path), nil
	case http.MethodPost:
		return c.Post(path, body), nil
	case http.MethodPut:
		return c.Put(path, body), nil
	case http.MethodPatch:
		return c.Patch(path, body), nil
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}
}

// prepare resolves the URL and headers now and defers the network call until
// the result is observed.
func (c *Client) prepare(method, path string, body any) *Deferred {
	d := &Deferred{
		method: method,
		url:    c.baseURL + path,
		body:   body,
	}

	headers, err := c.mergeToken()
	if err != nil {
		d.err = err
		return d
	}
	d.headers = headers
	d.send = c.sender(method, d.url, body, headers)
	return d
}

// mergeToken builds a fresh header set for one request.
func (c *Client) mergeToken() (map[string]string, error) {
	headers := map[string]string{HeaderContentType: ContentTypeJSON}

	token, ok, err := c.storage.GetItem(TokenKey)
	if err != nil {
		return nil, fmt.Errorf("read %s from storage: %w", TokenKey, err)
	}
	if ok && token != "" {
		c.log.DebugObj("authorization token attached", "auth", map[string]any{
			"token": maskToken(token),
		})
		headers[HeaderAuthorization] = token
	}
	return headers, nil
}

func (c *Client) sender(method, url string, body any, headers map[string]string) func(context.Context) (httpclient.Response, error) {
	switch method {
	case http.MethodPost:
		return func(ctx context.Context) (httpclient.Response, error) { return c.http.Post(ctx, url, body, headers) }
	case http.MethodPut:
		return func(ctx context.Context) (httpclient.Response, error) { return c.http.Put(ctx, url, body, headers) }
	case http.MethodPatch:
		return func(ctx context.Context) (httpclient.Response, error) { return c.http.Patch(ctx, url, body, headers) }
	case http.MethodDelete:
		return func(ctx context.Context) (httpclient.Response, error) { return c.http.Delete(ctx, url, headers) }
	case http.MethodHead:
		return func(ctx context.Context) (httpclient.Response, error) { return c.http.Head(ctx, url, headers) }
	default:
		return func(ctx context.Context) (httpclient.Response, error) { return c.http.Get(ctx, url, headers) }
	}
}

// maskToken keeps only the first four characters of token.
func maskToken(token string) string {
	const visible = 4
	if len(token) <= visible {
		return "****"
	}
	return token[:visible] + "****"
}
