// Package healthcheck sends start, finish and fail pings to a
// healthchecks.io compatible endpoint.
package healthcheck

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vertti/hcp/pkg/output"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second
	// DefaultRetryDelay is the pause before the single retry.
	DefaultRetryDelay = 2 * time.Second
)

// HTTPClient abstracts HTTP requests for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RealHTTPClient uses the real net/http package.
type RealHTTPClient struct {
	Timeout         time.Duration
	FollowRedirects bool
}

// Do executes an HTTP request.
func (c *RealHTTPClient) Do(req *http.Request) (*http.Response, error) {
	client := &http.Client{Timeout: c.Timeout}

	if !c.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return client.Do(req)
}

// Client reports one run to the ping endpoint for ID.
type Client struct {
	BaseURL    string        // e.g. https://hc-ping.com
	ID         string        // healthcheck identifier
	RunID      string        // sent as ?rid= so start and finish pair up
	UserAgent  string        // optional User-Agent header
	Timeout    time.Duration // per request (default: 30s)
	RetryDelay time.Duration // pause before retry (default: 2s)
	HTTP       HTTPClient    // injected for testing
	Out        *output.Printer

	sleep func(time.Duration)
}

// New returns a Client with a fresh run id and the default transport.
func New(baseURL, id, userAgent string) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		ID:        id,
		RunID:     uuid.NewString(),
		UserAgent: userAgent,
		Timeout:   DefaultTimeout,
		HTTP:      &RealHTTPClient{Timeout: DefaultTimeout, FollowRedirects: true},
	}
}

// Start signals that the job has started. It sends no body.
func (c *Client) Start() error {
	return c.send(CallStart, c.url("/start"), "")
}

// Finish signals success with the captured output as body.
func (c *Client) Finish(body string) error {
	return c.send(CallFinish, c.url(""), body)
}

// Fail signals failure. When code is non-nil it is appended to the path.
func (c *Client) Fail(body string, code *int) error {
	suffix := "/fail"
	if code != nil {
		suffix += "/" + strconv.Itoa(*code)
	}
	return c.send(CallFail, c.url(suffix), body)
}

func (c *Client) url(suffix string) string {
	u := strings.TrimRight(c.BaseURL, "/") + "/" + url.PathEscape(c.ID) + suffix
	if c.RunID != "" {
		u += "?rid=" + url.QueryEscape(c.RunID)
	}
	return u
}

// attempt identifies where a call is in its retry sequence.
type attempt int

const (
	firstAttempt attempt = iota + 1
	retryAttempt
)

// send performs one call: a first attempt and, after a transient failure,
// exactly one retry.
func (c *Client) send(call Call, target, body string) error {
	state := firstAttempt
	for {
		out := c.do(call, target, body)
		if out.err == nil {
			return nil
		}
		if state == firstAttempt && out.transient {
			delay := c.retryDelay()
			c.Out.Warnf("healthcheck %s failed, retrying in %s: %v", call, delay, out.err)
			c.wait(delay)
			state = retryAttempt
			continue
		}
		return &ReportError{Call: call, Attempts: int(state), Status: out.status, Err: out.err}
	}
}

// outcome is the result of a single request.
type outcome struct {
	status    int
	transient bool
	err       error
}

func (c *Client) do(call Call, target, body string) outcome {
	var bodyReader io.Reader = http.NoBody
	if body != "" {
		bodyReader = strings.NewReader(body)
	}
	req, err := http.NewRequest(http.MethodPost, target, bodyReader)
	if err != nil {
		return outcome{err: fmt.Errorf("failed to create request: %w", err)}
	}
	if call != CallStart {
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return outcome{transient: true, err: err}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return outcome{status: resp.StatusCode}
	case resp.StatusCode >= 500:
		return outcome{status: resp.StatusCode, transient: true, err: fmt.Errorf("status %d", resp.StatusCode)}
	default:
		return outcome{status: resp.StatusCode, err: fmt.Errorf("status %d", resp.StatusCode)}
	}
}

func (c *Client) client() HTTPClient {
	if c.HTTP != nil {
		return c.HTTP
	}
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &RealHTTPClient{Timeout: timeout, FollowRedirects: true}
}

func (c *Client) retryDelay() time.Duration {
	if c.RetryDelay == 0 {
		return DefaultRetryDelay
	}
	return c.RetryDelay
}

func (c *Client) wait(d time.Duration) {
	if c.sleep != nil {
		c.sleep(d)
		return
	}
	time.Sleep(d)
}
