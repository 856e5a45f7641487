package iocensus

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/seafront/seafront/pkg/census"
)

type httpGetter struct {
	baseURL string
	client  *http.Client
}

// HTTPOption configures the HTTP census client.
type HTTPOption func(*httpGetter)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(g *httpGetter) {
		g.client = c
	}
}

// NewHTTP creates a client for a census mirror served over HTTP, object
// keys are appended to baseURL.
func NewHTTP(baseURL, version string, opts ...HTTPOption) census.Client {
	g := &httpGetter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(g)
	}
	return &client{
		layout: census.Layout{Version: version},
		g:      g,
	}
}

func (g *httpGetter) get(ctx context.Context, key string, w io.Writer) (int64, error) {
	u, err := url.JoinPath(g.baseURL, key)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, RemoteError(u, resp.Status)
	}
	return io.Copy(w, resp.Body)
}
