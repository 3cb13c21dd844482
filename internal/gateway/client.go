// Package gateway is the single chokepoint for calls to the job board API.
//
// Every call attaches the bearer token when the session is logged in and the
// URL belongs to the API origin, classifies the response status and triggers
// the matching side effect (logout, navigation, user message) before rejecting.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/jobit-client/internal/messages"
	"github.com/spec-kit/jobit-client/internal/navigation"
)

// HeaderRequestID carries the per-call id.
const HeaderRequestID = "X-Request-ID"

// Session is the slice of session state the gateway consults.
type Session interface {
	// AccessToken returns the token only while the session is logged in.
	AccessToken(ctx context.Context) (string, bool)
	Logout(ctx context.Context) error
}

// Navigator performs navigation side effects.
type Navigator interface {
	Push(ctx context.Context, target string) (string, error)
}

// Notifier shows a user-facing message.
type Notifier interface {
	Error(message string)
}

// Progress is a loading indicator. Every Start is followed by exactly one Finish or Error.
type Progress interface {
	Start()
	Finish()
	Error()
}

// Recorder receives call metrics.
type Recorder interface {
	RecordCall(method string, status int, duration time.Duration)
	RecordFailure(method, kind string)
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithNavigator sets the navigator used for forbidden, not-found and server-error views.
func WithNavigator(nav Navigator) Option {
	return func(c *Client) { c.navigator = nav }
}

// WithNotifier sets the message provider for bad request messages.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithProgress sets the loading indicator.
func WithProgress(p Progress) Option {
	return func(c *Client) { c.progress = p }
}

// WithRecorder adds a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorders = append(c.recorders, r) }
}

// WithMessages sets the error-code message table.
func WithMessages(t *messages.Table) Option {
	return func(c *Client) { c.messages = t }
}

// Client is the HTTP gateway.
type Client struct {
	httpClient *http.Client
	origin     *url.URL
	session    Session
	navigator  Navigator
	notifier   Notifier
	progress   Progress
	recorders  []Recorder
	messages   *messages.Table
	logger     *zap.Logger
}

// New builds a gateway anchored to origin. session may be nil for anonymous use.
func New(origin string, session Session, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(origin, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse API origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API origin %q must be absolute", origin)
	}
	c := &Client{
		httpClient: &http.Client{},
		origin:     u,
		session:    session,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.messages == nil {
		c.messages = messages.MustLoad("es")
	}
	return c, nil
}

// Origin returns the API origin.
func (c *Client) Origin() string {
	return c.origin.String()
}

// Get sends a GET request and decodes the payload into out.
func (c *Client) Get(ctx context.Context, rawURL string, out any) error {
	_, err := c.Send(ctx, &Request{Method: http.MethodGet, URL: rawURL, Out: out})
	return err
}

// Post sends body as JSON and decodes the payload into out.
func (c *Client) Post(ctx context.Context, rawURL string, body, out any) error {
	_, err := c.Send(ctx, &Request{Method: http.MethodPost, URL: rawURL, Body: body, Out: out})
	return err
}

// Put sends body as JSON and decodes the payload into out.
func (c *Client) Put(ctx context.Context, rawURL string, body, out any) error {
	_, err := c.Send(ctx, &Request{Method: http.MethodPut, URL: rawURL, Body: body, Out: out})
	return err
}

// Delete sends a DELETE request and decodes the payload into out.
func (c *Client) Delete(ctx context.Context, rawURL string, out any) error {
	_, err := c.Send(ctx, &Request{Method: http.MethodDelete, URL: rawURL, Out: out})
	return err
}

// PostForm sends form as application/x-www-form-urlencoded, as the token endpoint requires.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values, out any) error {
	if form == nil {
		form = url.Values{}
	}
	_, err := c.Send(ctx, &Request{Method: http.MethodPost, URL: rawURL, Form: form, Out: out})
	return err
}

// Send performs one call. Non-2xx responses are returned as *Error after their side effect;
// transport and decode failures are returned wrapped and unclassified.
func (c *Client) Send(ctx context.Context, req *Request) (resp *Response, err error) {
	c.progressStart()
	defer func() {
		if r := recover(); r != nil {
			c.progressError()
			panic(r)
		}
		if err != nil {
			c.progressError()
			return
		}
		c.progressFinish()
	}()

	target, err := c.Resolve(req.URL)
	if err != nil {
		c.recordFailure(req.Method, "request")
		return nil, err
	}

	httpReq, requestID, err := c.buildRequest(ctx, req, target)
	if err != nil {
		c.recordFailure(req.Method, "request")
		return nil, err
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.recordFailure(req.Method, "transport")
		c.logger.Warn("api call failed", zap.String("method", req.Method), zap.String("url", target.String()),
			zap.String("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("send %s %s: %w", req.Method, target.Redacted(), err)
	}
	defer httpResp.Body.Close()

	payload, readErr := readPayload(httpResp)
	duration := time.Since(start)
	c.recordCall(req.Method, httpResp.StatusCode, duration)
	c.logger.Debug("api call",
		zap.String("method", req.Method),
		zap.String("url", target.String()),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("duration", duration),
		zap.String("request_id", requestID),
	)

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		if readErr != nil {
			payload = nil
		}
		apiErr := c.reject(ctx, httpResp.StatusCode, payload, requestID)
		c.recordFailure(req.Method, string(apiErr.Kind))
		return nil, apiErr
	}

	if readErr != nil {
		c.recordFailure(req.Method, "decode")
		return nil, fmt.Errorf("decode %s %s response: %w", req.Method, target.Redacted(), readErr)
	}
	if req.Out != nil && payload != nil {
		if err := json.Unmarshal(payload, req.Out); err != nil {
			c.recordFailure(req.Method, "decode")
			return nil, fmt.Errorf("decode %s %s response: %w", req.Method, target.Redacted(), err)
		}
	}
	return &Response{Status: httpResp.StatusCode, RequestID: requestID, Payload: payload}, nil
}

// Resolve anchors relative paths to the API origin. Absolute URLs are kept as given.
func (c *Client) Resolve(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if u.IsAbs() {
		return u, nil
	}
	return url.Parse(c.origin.String() + "/" + strings.TrimLeft(rawURL, "/"))
}

// IsAPIURL reports whether u belongs to the API origin: same scheme and host, and
// a path under the origin path.
func (c *Client) IsAPIURL(u *url.URL) bool {
	if !strings.EqualFold(u.Scheme, c.origin.Scheme) || !strings.EqualFold(u.Hostname(), c.origin.Hostname()) {
		return false
	}
	if effectivePort(u) != effectivePort(c.origin) {
		return false
	}
	base := strings.TrimRight(c.origin.Path, "/")
	if base == "" {
		return true
	}
	return u.Path == base || strings.HasPrefix(u.Path, base+"/")
}

// effectivePort returns the explicit port of u or the default port of its scheme.
func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		return "80"
	case "https":
		return "443"
	}
	return ""
}

func (c *Client) buildRequest(ctx context.Context, req *Request, target *url.URL) (*http.Request, string, error) {
	var (
		bodyReader  io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		bodyReader = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		jsonBody, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), bodyReader)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	httpReq.Header.Set(HeaderRequestID, requestID)

	if c.session != nil && c.IsAPIURL(target) {
		if token, ok := c.session.AccessToken(ctx); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return httpReq, requestID, nil
}

// readPayload returns the JSON body, or nil when the response carries none.
func readPayload(resp *http.Response) (json.RawMessage, error) {
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil, nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, nil
	}
	if !json.Valid(b) {
		return nil, errors.New("invalid JSON body")
	}
	return json.RawMessage(b), nil
}

// reject classifies a non-2xx response and performs its side effect exactly once.
func (c *Client) reject(ctx context.Context, status int, payload json.RawMessage, requestID string) *Error {
	code, bodyMessage := parseErrorBody(payload)
	apiErr := &Error{
		Kind:      kindForStatus(status),
		Status:    status,
		Code:      code,
		Message:   bodyMessage,
		RequestID: requestID,
	}
	if apiErr.Message == "" {
		apiErr.Message = strconv.Itoa(status)
	}

	switch apiErr.Kind {
	case KindBadRequest:
		apiErr.Message = c.messages.Resolve(code)
		if c.notifier != nil {
			c.notifier.Error(apiErr.Message)
		}
	case KindUnauthorized:
		if c.session != nil {
			if err := c.session.Logout(ctx); err != nil {
				c.logger.Error("logout after 401 failed", zap.Error(err))
			}
		}
	case KindForbidden:
		c.navigate(ctx, navigation.ForbiddenRoute)
	case KindNotFound:
		c.navigate(ctx, navigation.NotFoundRoute)
	case KindServerError:
		c.navigate(ctx, navigation.ServerErrorRoute)
	}

	c.logger.Info("api call rejected",
		zap.Int("status", status),
		zap.String("kind", string(apiErr.Kind)),
		zap.String("error_code", code),
		zap.String("request_id", requestID),
	)
	return apiErr
}

func (c *Client) navigate(ctx context.Context, target string) {
	if c.navigator == nil {
		return
	}
	if _, err := c.navigator.Push(ctx, target); err != nil {
		c.logger.Warn("navigation side effect failed", zap.String("target", target), zap.Error(err))
	}
}

func (c *Client) progressStart() {
	if c.progress != nil {
		c.progress.Start()
	}
}

func (c *Client) progressFinish() {
	if c.progress != nil {
		c.progress.Finish()
	}
}

func (c *Client) progressError() {
	if c.progress != nil {
		c.progress.Error()
	}
}

func (c *Client) recordCall(method string, status int, d time.Duration) {
	for _, r := range c.recorders {
		r.RecordCall(method, status, d)
	}
}

func (c *Client) recordFailure(method, kind string) {
	for _, r := range c.recorders {
		r.RecordFailure(method, kind)
	}
}
