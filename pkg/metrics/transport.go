package metrics

import (
	"net/http"
	"strings"
	"time"
)

// Transport wraps an http.RoundTripper and records per-resource request
// metrics. The resource label is the first path segment after the API prefix
// so that ids do not explode label cardinality.
type Transport struct {
	Next    http.RoundTripper
	Metrics *Metrics
	Prefix  string
}

// NewTransport instruments next (http.DefaultTransport when nil).
func NewTransport(m *Metrics, prefix string, next http.RoundTripper) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{Next: next, Metrics: m, Prefix: prefix}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Metrics == nil {
		return t.Next.RoundTrip(req)
	}

	resource := t.resourceLabel(req.URL.Path)
	start := time.Now()
	resp, err := t.Next.RoundTrip(req)
	if err != nil {
		t.Metrics.ObserveRequestError(req.Method, resource)
		return nil, err
	}
	t.Metrics.ObserveRequest(req.Method, resource, resp.StatusCode, time.Since(start))
	return resp, nil
}

func (t *Transport) resourceLabel(path string) string {
	trimmed := strings.TrimPrefix(path, t.Prefix)
	trimmed = strings.Trim(trimmed, "/")
	if trimmed == "" {
		return "root"
	}
	if idx := strings.IndexByte(trimmed, '/'); idx > 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}
