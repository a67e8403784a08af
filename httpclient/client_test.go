package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stkali/httpstack/errors"
	"github.com/stkali/httpstack/log"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"method":       r.Method,
			"query":        r.URL.RawQuery,
			"body":         string(body),
			"content-type": r.Header.Get("Content-Type"),
			"x-tenant":     r.Header.Get("X-Tenant"),
		})
	})
	mux.HandleFunc("/test-endpoint", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return New(&Config{BaseURL: srv.URL}, WithLogger(log.Discard()))
}

type echo struct {
	Method      string `json:"method"`
	Query       string `json:"query"`
	Body        string `json:"body"`
	ContentType string `json:"content-type"`
	Tenant      string `json:"x-tenant"`
}

func TestClientMethods(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(srv)
	ctx := context.Background()

	cases := []struct {
		name   string
		future func() *Future
		method string
		body   string
	}{
		{"request", func() *Future { return c.Request(&Config{Method: "put", URL: "/echo"}) }, http.MethodPut, ""},
		{"request default verb", func() *Future { return c.Request(&Config{URL: "/echo"}) }, http.MethodGet, ""},
		{"get", func() *Future { return c.Get("/echo", nil) }, http.MethodGet, ""},
		{"delete", func() *Future { return c.Delete("/echo", nil) }, http.MethodDelete, ""},
		{"options", func() *Future { return c.Options("/echo", nil) }, http.MethodOptions, ""},
		{"post", func() *Future { return c.Post("/echo", map[string]int{"n": 1}, nil) }, http.MethodPost, `{"n":1}`},
		{"put", func() *Future { return c.Put("/echo", "plain", nil) }, http.MethodPut, "plain"},
		{"patch", func() *Future { return c.Patch("/echo", []byte("raw"), nil) }, http.MethodPatch, "raw"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := tc.future().Await(ctx)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.Status)
			require.NotEmpty(t, resp.RequestID)

			var got echo
			require.NoError(t, resp.JSON(&got))
			require.Equal(t, tc.method, got.Method)
			require.Equal(t, tc.body, got.Body)
		})
	}

	resp, err := c.Head("/echo", nil).Await(ctx)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status)
}

func TestClientConfigReachesResponse(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(srv)

	cfg := &Config{
		Timeout: 5 * time.Second,
		Meta:    map[string]any{"trace": "abc"},
		Headers: http.Header{"X-Tenant": {"acme"}},
	}
	resp, err := c.Post("/echo", map[string]string{"a": "b"}, cfg).Wait()
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, resp.Config.Timeout)
	require.Equal(t, "abc", resp.Config.Meta["trace"])
	require.Equal(t, http.MethodPost, resp.Config.Method)

	var got echo
	require.NoError(t, resp.JSON(&got))
	require.Equal(t, "acme", got.Tenant)
	require.Equal(t, "application/json", got.ContentType)

	require.Empty(t, cfg.Method)
	require.Empty(t, cfg.URL)
}

func TestClientStatusError(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(srv)

	_, err := c.Patch("/test-endpoint", nil, nil).Wait()
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, "Request failed with status code 500", reqErr.Error())
	require.Equal(t, ErrBadResponse, reqErr.Code)
	require.Equal(t, http.StatusInternalServerError, reqErr.Status())
	require.NotNil(t, reqErr.RequestConfig())
	require.Equal(t, reqErr.RequestID, reqErr.Response.RequestID)

	stack := reqErr.Stack()
	require.Contains(t, stack, "Error: Request failed with status code 500")
	require.Contains(t, stack, "httpclient.createError")
	require.NotContains(t, stack, "TestClientStatusError")
	require.Empty(t, reqErr.OriginalStack())

	_, err = c.Get("/missing", nil).Wait()
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, ErrBadRequest, reqErr.Code)
}

func TestClientValidateStatus(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(srv)
	resp, err := c.Get("/missing", &Config{ValidateStatus: func(int) bool { return true }}).Wait()
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.Status)
}

func TestClientTimeout(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(srv)
	_, err := c.Get("/slow", &Config{Timeout: 20 * time.Millisecond}).Wait()
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, ErrTimeout, reqErr.Code)
	require.Equal(t, "timeout of 20ms exceeded", reqErr.Error())
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(&Config{BaseURL: base}, WithLogger(log.Discard()))
	_, err := c.Get("/", nil).Wait()
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, ErrNetwork, reqErr.Code)
	require.NotNil(t, reqErr.Unwrap())
}

func TestClientInterceptors(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(srv)

	c.Interceptors.Request.Use(func(cfg *Config) (*Config, error) {
		cfg.Headers = http.Header{"X-Tenant": {"intercepted"}}
		return cfg, nil
	}, nil)
	recovered := c.ResponseInterceptors().Use(nil, func(err error) (*Response, error) {
		return &Response{Status: http.StatusTeapot}, nil
	})

	resp, err := c.Get("/echo", nil).Wait()
	require.NoError(t, err)
	var got echo
	require.NoError(t, resp.JSON(&got))
	require.Equal(t, "intercepted", got.Tenant)

	resp, err = c.Get("/test-endpoint", nil).Wait()
	require.NoError(t, err)
	require.Equal(t, http.StatusTeapot, resp.Status)

	c.ResponseInterceptors().Eject(recovered)
	_, err = c.Get("/test-endpoint", nil).Wait()
	require.Error(t, err)
}

func TestClientRequestInterceptorError(t *testing.T) {
	c := New(nil, WithLogger(log.Discard()))
	denied := errors.New("denied")
	c.Interceptors.Request.Use(func(*Config) (*Config, error) { return nil, denied }, nil)
	_, err := c.Get("http://localhost:1/", nil).Wait()
	require.True(t, err == denied)
}

func TestClientRetry(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(&Config{BaseURL: srv.URL}, WithLogger(log.Discard()), WithRetry(3, time.Millisecond, 2*time.Millisecond))
	resp, err := c.Get("/", nil).Wait()
	require.NoError(t, err)
	require.Equal(t, "ok", string(resp.Data))
	require.Equal(t, int32(3), attempts.Load())
}

func TestLeveledLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	l := log.New(buf, "", log.DEBUG)
	l.SetFlags(0)
	leveledLogger{l}.Debug("performing request", "method", "GET", "url")
	require.Equal(t, "[DEBUG] performing request method=GET url=<missing>\n", buf.String())
}
