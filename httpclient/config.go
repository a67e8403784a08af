package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stkali/httpstack/errors"
)

// Config describes one request. The same value, merged with the client
// defaults, is reachable from the eventual Response or RequestError.
type Config struct {
	// Method is the HTTP verb; GET when empty.
	Method string
	// URL is resolved against BaseURL unless it is absolute.
	URL     string
	BaseURL string
	Headers http.Header
	Params  url.Values
	// Data is the request body: []byte, string, io.Reader, url.Values, or
	// anything else which is encoded as JSON.
	Data    any
	Timeout time.Duration
	// ValidateStatus decides which statuses resolve the Future. 2xx when nil.
	ValidateStatus func(status int) bool
	Context        context.Context
	// Meta carries caller-defined values through to the response untouched.
	Meta map[string]any

	// TopmostError is the call-site error attached by package stacktrace for
	// the duration of one request. It is cleared before the caller sees the
	// response.
	TopmostError errors.StackError
}

// Clone returns a copy of c whose maps may be modified independently.
// Cloning a nil Config returns an empty one.
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}
	out := *c
	if c.Headers != nil {
		out.Headers = c.Headers.Clone()
	}
	if c.Params != nil {
		out.Params = make(url.Values, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = append([]string(nil), v...)
		}
	}
	if c.Meta != nil {
		out.Meta = make(map[string]any, len(c.Meta))
		for k, v := range c.Meta {
			out.Meta[k] = v
		}
	}
	return &out
}

// mergeConfig returns a new Config holding defaults overridden by the
// non-zero fields of cfg.
func mergeConfig(defaults, cfg *Config) *Config {
	out := defaults.Clone()
	if cfg == nil {
		return out
	}
	if cfg.Method != "" {
		out.Method = cfg.Method
	}
	if cfg.URL != "" {
		out.URL = cfg.URL
	}
	if cfg.BaseURL != "" {
		out.BaseURL = cfg.BaseURL
	}
	for k, v := range cfg.Headers {
		if out.Headers == nil {
			out.Headers = make(http.Header)
		}
		out.Headers[k] = append([]string(nil), v...)
	}
	for k, v := range cfg.Params {
		if out.Params == nil {
			out.Params = make(url.Values)
		}
		out.Params[k] = append([]string(nil), v...)
	}
	if cfg.Data != nil {
		out.Data = cfg.Data
	}
	if cfg.Timeout != 0 {
		out.Timeout = cfg.Timeout
	}
	if cfg.ValidateStatus != nil {
		out.ValidateStatus = cfg.ValidateStatus
	}
	if cfg.Context != nil {
		out.Context = cfg.Context
	}
	for k, v := range cfg.Meta {
		if out.Meta == nil {
			out.Meta = make(map[string]any)
		}
		out.Meta[k] = v
	}
	out.TopmostError = cfg.TopmostError
	if out.Method == "" {
		out.Method = http.MethodGet
	}
	out.Method = strings.ToUpper(out.Method)
	return out
}

// fullURL resolves the request URL and appends Params.
func (c *Config) fullURL() (string, error) {
	raw := c.URL
	if c.BaseURL != "" && !isAbsoluteURL(raw) {
		raw = combineURLs(c.BaseURL, raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if len(c.Params) > 0 {
		q := u.Query()
		for k, vs := range c.Params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func isAbsoluteURL(u string) bool {
	parsed, err := url.Parse(u)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

func combineURLs(base, rel string) string {
	if rel == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(rel, "/")
}

func defaultValidateStatus(status int) bool {
	return status >= 200 && status < 300
}
