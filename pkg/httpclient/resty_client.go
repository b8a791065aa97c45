package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout)}
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return r.execute(ctx, http.MethodGet, url, nil, headers)
}

// Post performs an HTTP POST request carrying body.
func (r *RestyClient) Post(ctx context.Context, url string, body any, headers map[string]string) (Response, error) {
	return r.execute(ctx, http.MethodPost, url, body, headers)
}

// Put performs an HTTP PUT request carrying body.
func (r *RestyClient) Put(ctx context.Context, url string, body any, headers map[string]string) (Response, error) {
	return r.execute(ctx, http.MethodPut, url, body, headers)
}

// Delete performs an HTTP DELETE request.
func (r *RestyClient) Delete(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return r.execute(ctx, http.MethodDelete, url, nil, headers)
}

// Patch performs an HTTP PATCH request carrying body.
func (r *RestyClient) Patch(ctx context.Context, url string, body any, headers map[string]string) (Response, error) {
	return r.execute(ctx, http.MethodPatch, url, body, headers)
}

// Head performs an HTTP HEAD request.
func (r *RestyClient) Head(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return r.execute(ctx, http.MethodHead, url, nil, headers)
}

// execute sends the request and reports non-2xx responses as *StatusError
// alongside the response itself.
func (r *RestyClient) execute(ctx context.Context, method, url string, body any, headers map[string]string) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, err
	}

	out := &restyResponseAdapter{resp: resp}
	if !resp.IsSuccess() {
		return out, &StatusError{Method: method, URL: url, Response: out}
	}
	return out, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Status() string      { return r.resp.Status() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }
