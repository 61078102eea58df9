// Package testutil holds test doubles shared across packages.
package testutil

import (
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockHTTPClient is a test double for HTTP clients.
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.DoFunc(req)
}

// MockResponse creates an http.Response with given status and body.
func MockResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// Ptr returns a pointer to the value (useful for optional fields in tests).
func Ptr[T any](v T) *T {
	return &v
}

// Request is what a PingRecorder saw for one request.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

// PingRecorder is an http.Handler that records requests and answers with
// scripted status codes, then 200 once the script runs out.
type PingRecorder struct {
	mu       sync.Mutex
	Statuses []int
	requests []Request
}

func (p *PingRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	p.mu.Lock()
	p.requests = append(p.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	status := http.StatusOK
	if len(p.Statuses) > 0 {
		status = p.Statuses[0]
		p.Statuses = p.Statuses[1:]
	}
	p.mu.Unlock()

	w.WriteHeader(status)
	_, _ = io.WriteString(w, http.StatusText(status))
}

// Requests returns the recorded requests in arrival order.
func (p *PingRecorder) Requests() []Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Request(nil), p.requests...)
}

// Paths returns the path of every recorded request.
func (p *PingRecorder) Paths() []string {
	var paths []string
	for _, r := range p.Requests() {
		paths = append(paths, r.Path)
	}
	return paths
}
