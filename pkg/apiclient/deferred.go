package apiclient

import (
	"context"
	"sync/atomic"

	"github.com/samvad-hq/coursegraph-client/pkg/httpclient"
)

// Deferred is a prepared request that has not been sent yet. Nothing goes on
// the wire until Await or Subscribe is called, and every observation sends
// its own request.
type Deferred struct {
	method  string
	url     string
	body    any
	headers map[string]string
	send    func(context.Context) (httpclient.Response, error)
	err     error
}

// Method returns the HTTP method of the prepared request.
func (d *Deferred) Method() string { return d.method }

// URL returns the absolute request URL.
func (d *Deferred) URL() string { return d.url }

// Body returns the request body as supplied by the caller.
func (d *Deferred) Body() any { return d.body }

// Header returns a copy of the request headers.
func (d *Deferred) Header() map[string]string {
	out := make(map[string]string, len(d.headers))
	for k, v := range d.headers {
		out[k] = v
	}
	return out
}

// Await sends the request and blocks until the response or the error arrives.
// Errors from the underlying client are returned unchanged.
func (d *Deferred) Await(ctx context.Context) (httpclient.Response, error) {
	if d.err != nil {
		return nil, d.err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return d.send(ctx)
}

// Subscribe sends the request on its own goroutine and delivers exactly one
// of onNext or onError. The returned function stops delivery and cancels the
// request; it is safe to call more than once.
func (d *Deferred) Subscribe(ctx context.Context, onNext func(httpclient.Response), onError func(error)) (unsubscribe func()) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	var stopped atomic.Bool
	go func() {
		defer cancel()
		resp, err := d.Await(ctx)
		if stopped.Load() {
			return
		}
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onNext != nil {
			onNext(resp)
		}
	}()

	return func() {
		stopped.Store(true)
		cancel()
	}
}
