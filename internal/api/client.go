package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/Rahulsaha30/projectmanagement/internal/ids"
	"github.com/Rahulsaha30/projectmanagement/internal/obs"
)

const (
	defaultTimeout = 10 * time.Second
	authHeader     = "Authorization"
	bearer         = "Bearer "
)

// Credentials supplies the current access token and knows how to renew it.
// The session store satisfies this interface.
type Credentials interface {
	AccessToken() string
	Refresh(ctx context.Context) error
}

// RequestHook runs before a request is sent. Hooks form an explicit
// middleware chain; bearer injection and request ids are installed by New.
type RequestHook func(*http.Request) error

// Client issues authenticated requests against the management API.
// A 401 response triggers at most one token refresh and one replay.
type Client struct {
	baseURL string
	http    *http.Client
	creds   Credentials
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	pre     []RequestHook
}

// Option configures Client behavior.
type Option func(*Client)

// WithHTTPClient overrides the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout on the transport client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests at perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithRequestHook appends a pre-request hook to the middleware chain.
func WithRequestHook(h RequestHook) Option {
	return func(c *Client) {
		if h != nil {
			c.pre = append(c.pre, h)
		}
	}
}

// New constructs a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(20), 40),
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "pm-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	c.pre = append(c.pre, c.injectBearer, injectRequestID)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetCredentials binds the token source after construction; the session
// store and the client reference each other, so binding is late.
func (c *Client) SetCredentials(creds Credentials) {
	c.creds = creds
}

func (c *Client) injectBearer(req *http.Request) error {
	if c.creds == nil {
		return nil
	}
	if token := c.creds.AccessToken(); token != "" {
		req.Header.Set(authHeader, bearer+token)
	}
	return nil
}

func injectRequestID(req *http.Request) error {
	req.Header.Set("X-Request-ID", ids.New())
	return nil
}

// call describes one logical API request.
type call struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	// Auth endpoints must not recurse into the refresh path.
	noRetry bool
}

// do dispatches a call, decodes a 2xx JSON body into out (when non-nil)
// and normalizes every failure into *Error.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	for attempt := 0; ; attempt++ {
		status, body, err := c.roundTrip(ctx, cl)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized && attempt == 0 && !cl.noRetry && c.creds != nil {
			if rerr := c.creds.Refresh(ctx); rerr == nil {
				continue
			}
		}
		if status >= 400 {
			apiErr := errorFromResponse(status, body)
			obs.Logger().WithField("status", status).WithField("path", cl.path).
				Warn(apiErr.Message)
			return apiErr
		}
		if out == nil || len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return &Error{Kind: KindServer, Status: status, Message: fmt.Sprintf("decode response: %v", err)}
		}
		return nil
	}
}

// roundTrip builds the request from buffered bytes (so a replay reuses
// the same payload), runs the hook chain and executes the transport call
// behind the rate limiter and circuit breaker.
func (c *Client) roundTrip(ctx context.Context, cl call) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, errorFromTransport(err)
		}
	}

	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}
	var reader io.Reader
	if cl.body != nil {
		reader = bytes.NewReader(cl.body)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u, reader)
	if err != nil {
		return 0, nil, errorFromTransport(err)
	}
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	for _, hook := range c.pre {
		if err := hook(req); err != nil {
			return 0, nil, errorFromTransport(err)
		}
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (any, error) {
		return c.http.Do(req)
	})
	if err != nil {
		obs.ObserveRequest(cl.method, cl.path, 0, time.Since(start))
		return 0, nil, errorFromTransport(err)
	}
	resp := result.(*http.Response)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	obs.ObserveRequest(cl.method, cl.path, resp.StatusCode, time.Since(start))
	if err != nil {
		return 0, nil, errorFromTransport(err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, call{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, call{
		method:      http.MethodPost,
		path:        path,
		body:        mustJSON(in),
		contentType: "application/json",
	}, out)
}

func (c *Client) putJSON(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, call{
		method:      http.MethodPut,
		path:        path,
		body:        mustJSON(in),
		contentType: "application/json",
	}, out)
}

// mustJSON marshals request payloads. The wire types contain only
// primitives and pointers to primitives, so encoding cannot fail.
func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: path}, nil)
}
