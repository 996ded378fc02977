package transport

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/databricks/databricks-sdk-go/httpclient"
)

const DefaultTimeout = 60 * time.Second

// Request describes a single outbound call. Body is JSON encoded when non-nil.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    any
}

// Response carries the raw, still encoded, body.
type Response struct {
	Body            []byte
	ContentEncoding string
}

// Transport performs timed HTTP requests.
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Ensure HTTPTransport implements Transport at compile time.
var _ Transport = (*HTTPTransport)(nil)

// HTTPTransport sends requests through the Databricks SDK API client.
// Error responses are never retried; the SDK's own IO-error retries are
// bounded by the request timeout. Non-2xx responses are returned as errors.
type HTTPTransport struct {
	client *httpclient.ApiClient
}

func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPTransport{
		client: httpclient.NewApiClient(httpclient.ClientConfig{
			HTTPTimeout:    timeout,
			RetryTimeout:   timeout,
			ErrorRetriable: neverRetry,
		}),
	}
}

func neverRetry(ctx context.Context, err error) bool {
	return false
}

func (t *HTTPTransport) Do(ctx context.Context, req Request) (*Response, error) {
	var body bytes.Buffer
	var encoding string

	opts := []httpclient.DoOption{
		httpclient.WithRequestHeaders(req.Headers),
		httpclient.WithResponseHeader("Content-Encoding", &encoding),
		httpclient.WithResponseUnmarshal(&body),
	}
	if req.Body != nil {
		opts = append(opts, httpclient.WithRequestData(req.Body))
	}

	if err := t.client.Do(ctx, req.Method, req.URL, opts...); err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}

	return &Response{
		Body:            body.Bytes(),
		ContentEncoding: encoding,
	}, nil
}
