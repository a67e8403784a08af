package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/stkali/httpstack/errors"
	"github.com/stkali/httpstack/log"
)

// Client is an asynchronous HTTP client with a replaceable method table and
// request/response interceptor chains.
type Client struct {
	defaults *Config
	http     *retryablehttp.Client
	logger   log.Logger

	Interceptors struct {
		// Request interceptors run in reverse registration order before the
		// request is sent.
		Request InterceptorManager[*Config]
		// Response interceptors run in registration order on the outcome.
		Response InterceptorManager[*Response]
	}

	mu       sync.RWMutex
	handlers map[Method]Handler
}

var _ MethodTable = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used by the client and its transport.
func WithLogger(l log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithRetry enables retries of failed exchanges using retryablehttp's default
// policy: connection errors and 5xx responses other than 501.
func WithRetry(max int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		if max < 0 {
			max = 0
		}
		c.http.RetryMax = max
		if waitMin > 0 {
			c.http.RetryWaitMin = waitMin
		}
		if waitMax > 0 {
			c.http.RetryWaitMax = waitMax
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http.HTTPClient = hc
		}
	}
}

// New returns a Client whose requests are merged onto defaults.
func New(defaults *Config, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.RetryMax = 0
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		defaults: defaults.Clone(),
		http:     rc,
		logger:   log.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	rc.Logger = leveledLogger{c.logger}

	c.handlers = map[Method]Handler{
		MethodRequest: &ConfigHandler{Do: c.dispatch},
	}
	for _, m := range Methods {
		switch m.Shape() {
		case ShapeURL:
			c.handlers[m] = c.urlHandler(m)
		case ShapeURLData:
			c.handlers[m] = c.dataHandler(m)
		}
	}
	return c
}

// Defaults returns a copy of the client defaults.
func (c *Client) Defaults() *Config {
	return c.defaults.Clone()
}

// ResponseInterceptors returns the shared response interceptor chain.
func (c *Client) ResponseInterceptors() *InterceptorManager[*Response] {
	return &c.Interceptors.Response
}

// Handler implements MethodTable.
func (c *Client) Handler(m Method) (Handler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handlers[m]
	return h, ok
}

// SetHandler implements MethodTable.
func (c *Client) SetHandler(m Method, h Handler) error {
	if err := checkHandler(m, h); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if isNilHandler(h) {
		delete(c.handlers, m)
		return nil
	}
	c.handlers[m] = h
	return nil
}

// Request issues the request described by cfg.
func (c *Client) Request(cfg *Config) *Future {
	h, ok := c.Handler(MethodRequest)
	if !ok {
		return Reject(errors.Newf("%s: %s", ErrMethodUnavailable, string(MethodRequest)))
	}
	return h.(*ConfigHandler).Do(cfg)
}

func (c *Client) Get(url string, cfg *Config) *Future {
	return c.callURL(MethodGet, url, cfg)
}

func (c *Client) Delete(url string, cfg *Config) *Future {
	return c.callURL(MethodDelete, url, cfg)
}

func (c *Client) Head(url string, cfg *Config) *Future {
	return c.callURL(MethodHead, url, cfg)
}

func (c *Client) Options(url string, cfg *Config) *Future {
	return c.callURL(MethodOptions, url, cfg)
}

func (c *Client) Post(url string, data any, cfg *Config) *Future {
	return c.callData(MethodPost, url, data, cfg)
}

func (c *Client) Put(url string, data any, cfg *Config) *Future {
	return c.callData(MethodPut, url, data, cfg)
}

func (c *Client) Patch(url string, data any, cfg *Config) *Future {
	return c.callData(MethodPatch, url, data, cfg)
}

func (c *Client) callURL(m Method, url string, cfg *Config) *Future {
	h, ok := c.Handler(m)
	if !ok {
		return Reject(errors.Newf("%s: %s", ErrMethodUnavailable, string(m)))
	}
	return h.(*URLHandler).Do(url, cfg)
}

func (c *Client) callData(m Method, url string, data any, cfg *Config) *Future {
	h, ok := c.Handler(m)
	if !ok {
		return Reject(errors.Newf("%s: %s", ErrMethodUnavailable, string(m)))
	}
	return h.(*DataHandler).Do(url, data, cfg)
}

// urlHandler and dataHandler dispatch directly rather than through the
// request entry of the table, so a replaced request handler does not run
// twice for one call.
func (c *Client) urlHandler(m Method) *URLHandler {
	verb := m.Verb()
	return &URLHandler{Do: func(url string, cfg *Config) *Future {
		r := cfg.Clone()
		r.Method = verb
		r.URL = url
		return c.dispatch(r)
	}}
}

func (c *Client) dataHandler(m Method) *DataHandler {
	verb := m.Verb()
	return &DataHandler{Do: func(url string, data any, cfg *Config) *Future {
		r := cfg.Clone()
		r.Method = verb
		r.URL = url
		r.Data = data
		return c.dispatch(r)
	}}
}

// dispatch starts the exchange on its own goroutine and chains the response
// interceptors registered at this moment.
func (c *Client) dispatch(cfg *Config) *Future {
	merged := mergeConfig(c.defaults, cfg)
	sent := newFuture()
	go c.send(merged, sent)

	f := sent
	for _, h := range c.Interceptors.Response.snapshot() {
		f = f.Then(h.Fulfilled, h.Rejected)
	}
	return f
}

func (c *Client) send(cfg *Config, f *Future) {
	requestID := uuid.NewString()

	cfg, err := c.runRequestInterceptors(cfg)
	if err != nil {
		f.settle(nil, err)
		return
	}

	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, cfg)
	if err != nil {
		f.settle(nil, createError(err.Error(), ErrInvalidURL, cfg, nil, requestID, err))
		return
	}

	c.logger.Debugf("[%s] %s %s", requestID, req.Method, req.URL)
	res, err := c.http.Do(req)
	if err != nil {
		f.settle(nil, c.transportError(ctx, cfg, requestID, err))
		return
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		f.settle(nil, c.transportError(ctx, cfg, requestID, err))
		return
	}
	resp := &Response{
		Status:     res.StatusCode,
		StatusText: http.StatusText(res.StatusCode),
		Headers:    res.Header,
		Data:       body,
		Config:     cfg,
		RequestID:  requestID,
	}
	c.logger.Debugf("[%s] %d %s", requestID, resp.Status, resp.StatusText)

	validate := cfg.ValidateStatus
	if validate == nil {
		validate = defaultValidateStatus
	}
	if !validate(resp.Status) {
		code := ErrBadResponse
		if resp.Status >= 400 && resp.Status < 500 {
			code = ErrBadRequest
		}
		f.settle(nil, createError(fmt.Sprintf("Request failed with status code %d", resp.Status), code, cfg, resp, requestID, nil))
		return
	}
	f.settle(resp, nil)
}

func (c *Client) runRequestInterceptors(cfg *Config) (*Config, error) {
	chain := c.Interceptors.Request.snapshot()
	var err error
	for i := len(chain) - 1; i >= 0; i-- {
		h := chain[i]
		if err == nil {
			if h.Fulfilled != nil {
				cfg, err = h.Fulfilled(cfg)
			}
		} else if h.Rejected != nil {
			cfg, err = h.Rejected(err)
		}
	}
	if err == nil && cfg == nil {
		err = errors.New("httpclient: request interceptor returned no config")
	}
	return cfg, err
}

func (c *Client) transportError(ctx context.Context, cfg *Config, requestID string, err error) *RequestError {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return createError(fmt.Sprintf("timeout of %dms exceeded", cfg.Timeout.Milliseconds()), ErrTimeout, cfg, nil, requestID, err)
	case context.Canceled:
		return createError("canceled", ErrCanceled, cfg, nil, requestID, err)
	}
	c.logger.Warnf("[%s] network error: %s", requestID, err)
	return createError("Network Error", ErrNetwork, cfg, nil, requestID, err)
}

func (c *Client) newRequest(ctx context.Context, cfg *Config) (*retryablehttp.Request, error) {
	target, err := cfg.fullURL()
	if err != nil {
		return nil, err
	}
	body, contentType, err := encodeBody(cfg.Data)
	if err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, cfg.Method, target, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range cfg.Headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func encodeBody(data any) (body interface{}, contentType string, err error) {
	switch v := data.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return v, "", nil
	case string:
		return strings.NewReader(v), "text/plain; charset=utf-8", nil
	case io.Reader:
		return v, "", nil
	case url.Values:
		return strings.NewReader(v.Encode()), "application/x-www-form-urlencoded", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(b), "application/json", nil
	}
}
