package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Likhith-Bhargav/talent-link/internal/observability/metrics"
)

const (
	apiPrefix       = "/api"
	csrfCookieName  = "csrftoken"
	csrfHeaderName  = "X-CSRFToken"
	csrfPath        = "/auth/csrf/"
	authScheme      = "Token"
	defaultTimeout  = 15 * time.Second
	requestIDHeader = "X-Request-ID"
)

// Client is the single chokepoint for all backend calls. It owns the auth
// token and CSRF token, normalizes every response, and classifies failures
// into the toolkit's error taxonomy.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.Logger
	metrics *metrics.AppMetrics

	mu    sync.RWMutex
	token string
	csrf  string

	sf singleflight.Group
}

// New builds a client for the given backend origin. The origin must not
// include the /api prefix.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base URL %q must be absolute", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "cookie jar")
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout, Jar: jar},
		logger:  logger,
		metrics: metrics.Get(),
	}, nil
}

// SetToken stores the auth token attached to subsequent requests. An empty
// token clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// resolve maps an endpoint to an absolute URL the way the legacy front end
// did: absolute URLs pass through, /api/ paths attach to the origin, other
// paths land under the /api prefix.
func (c *Client) resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	base := strings.TrimSuffix(c.baseURL.String(), "/")
	if strings.HasPrefix(endpoint, apiPrefix+"/") {
		return base + endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return base + apiPrefix + endpoint
}

// csrfFromJar returns the CSRF cookie value if the backend has set one.
func (c *Client) csrfFromJar() string {
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == csrfCookieName {
			return ck.Value
		}
	}
	return ""
}

// CSRFToken returns the cached CSRF token, reading it from the cookie jar
// or fetching it from the token-issuing endpoint when missing. Concurrent
// callers share one in-flight fetch.
func (c *Client) CSRFToken(ctx context.Context) (string, error) {
	c.mu.RLock()
	cached := c.csrf
	c.mu.RUnlock()
	if cached != "" {
		return cached, nil
	}
	if v := c.csrfFromJar(); v != "" {
		c.mu.Lock()
		c.csrf = v
		c.mu.Unlock()
		return v, nil
	}

	v, err, _ := c.sf.Do("csrf", func() (any, error) {
		var payload struct {
			CSRFToken string `json:"csrfToken"`
		}
		if _, err := c.do(ctx, http.MethodGet, csrfPath, nil, "", &payload, false); err != nil {
			return "", err
		}
		token := payload.CSRFToken
		if token == "" {
			token = c.csrfFromJar()
		}
		if token == "" {
			return "", errors.New("csrf token missing from response and cookies")
		}
		c.mu.Lock()
		c.csrf = token
		c.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// InvalidateCSRF drops the cached CSRF token so the next mutating call
// refreshes it.
func (c *Client) InvalidateCSRF() {
	c.mu.Lock()
	c.csrf = ""
	c.mu.Unlock()
}

// Get issues a GET with the given query values. Empty values are stripped
// before the request is sent.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if q := cleanQuery(query); len(q) > 0 {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + q.Encode()
	}
	_, err := c.do(ctx, http.MethodGet, endpoint, nil, "", out, false)
	return err
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	_, err := c.doJSON(ctx, http.MethodPost, endpoint, body, out)
	return err
}

// PostWithHeaders is Post for the rare caller that also needs the response
// headers (the login endpoint may carry the token in Authorization).
func (c *Client) PostWithHeaders(ctx context.Context, endpoint string, body, out any) (http.Header, error) {
	return c.doJSON(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	_, err := c.doJSON(ctx, http.MethodPut, endpoint, body, out)
	return err
}

func (c *Client) Patch(ctx context.Context, endpoint string, body, out any) error {
	_, err := c.doJSON(ctx, http.MethodPatch, endpoint, body, out)
	return err
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	_, err := c.do(ctx, http.MethodDelete, endpoint, nil, "", out, true)
	return err
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out any) (http.Header, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.do(ctx, method, endpoint, reader, contentType, out, true)
}

// Download fetches an endpoint and hands back the raw body for non-JSON
// payloads (resume and logo downloads). The caller owns the ReadCloser.
func (c *Client) Download(ctx context.Context, endpoint string) (io.ReadCloser, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return nil, "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", classifyTransport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		return nil, "", newError(resp.StatusCode, body)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(endpoint), body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", authScheme+" "+token)
	}
	return req, nil
}

// do sends one request and normalizes the response. mutating controls CSRF
// header attachment; csrf acquisition failures are logged and skipped, the
// backend may still accept the call on session auth alone.
func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string, out any, mutating bool) (http.Header, error) {
	req, err := c.newRequest(ctx, method, endpoint, body, contentType)
	if err != nil {
		return nil, err
	}
	if mutating {
		if csrf, err := c.CSRFToken(ctx); err != nil {
			c.logger.Warn("proceeding without CSRF token",
				zap.String("endpoint", endpoint), zap.Error(err))
		} else {
			req.Header.Set(csrfHeaderName, csrf)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, "transport_error", start)
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	c.observe(method, fmt.Sprintf("%dxx", resp.StatusCode/100), start)
	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	return resp.Header, decodeResponse(resp, out)
}

func (c *Client) observe(method, outcome string, start time.Time) {
	c.metrics.APIRequestsTotal.WithLabelValues(method, outcome).Inc()
	c.metrics.APIRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// decodeResponse applies the normalization rules: 204 and empty bodies
// yield nothing, JSON is decoded, error statuses become *Error.
func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp.StatusCode, body)
	}
	if len(body) == 0 || out == nil {
		return nil
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "" && mediaType != "application/json" {
		// Non-JSON success where the caller expected a value; callers
		// needing raw bodies use Download.
		return &DecodeError{Err: errors.Errorf("unexpected content type %q", mediaType)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// classifyTransport splits transport failures into timeouts and
// connectivity errors.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Err: err}
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return &TimeoutError{Err: err}
	}
	return &NetworkError{Err: err}
}

func cleanQuery(query url.Values) url.Values {
	if query == nil {
		return nil
	}
	cleaned := url.Values{}
	for key, values := range query {
		for _, v := range values {
			if v != "" {
				cleaned.Add(key, v)
			}
		}
	}
	return cleaned
}
