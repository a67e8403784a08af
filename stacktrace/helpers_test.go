package stacktrace

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stkali/httpstack/errors"
	"github.com/stkali/httpstack/httpclient"
	"github.com/stkali/httpstack/log"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/test-endpoint", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	})
	mux.HandleFunc("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	})
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(w, r.Body)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server) *httpclient.Client {
	return httpclient.New(&httpclient.Config{BaseURL: srv.URL}, httpclient.WithLogger(log.Discard()))
}

func handlersOf(t httpclient.MethodTable) map[httpclient.Method]httpclient.Handler {
	out := make(map[httpclient.Method]httpclient.Handler)
	for _, m := range httpclient.Methods {
		if h, ok := t.Handler(m); ok {
			out[m] = h
		}
	}
	return out
}

func requestError(t *testing.T, err error) *httpclient.RequestError {
	t.Helper()
	var reqErr *httpclient.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("want *httpclient.RequestError, got %T: %v", err, err)
	}
	return reqErr
}

// fakeTable is a MethodTable without an interceptor chain. Every handler
// settles with the configured outcome.
type fakeTable struct {
	handlers map[httpclient.Method]httpclient.Handler
	failOn   httpclient.Method
	failures int
	lastCfg  *httpclient.Config
}

func newFakeTable(outcome func() *httpclient.Future, methods ...httpclient.Method) *fakeTable {
	f := &fakeTable{handlers: make(map[httpclient.Method]httpclient.Handler)}
	for _, m := range methods {
		switch m.Shape() {
		case httpclient.ShapeConfig:
			f.handlers[m] = &httpclient.ConfigHandler{Do: func(cfg *httpclient.Config) *httpclient.Future {
				f.lastCfg = cfg
				return outcome()
			}}
		case httpclient.ShapeURL:
			f.handlers[m] = &httpclient.URLHandler{Do: func(url string, cfg *httpclient.Config) *httpclient.Future {
				f.lastCfg = cfg
				return outcome()
			}}
		case httpclient.ShapeURLData:
			f.handlers[m] = &httpclient.DataHandler{Do: func(url string, data any, cfg *httpclient.Config) *httpclient.Future {
				f.lastCfg = cfg
				return outcome()
			}}
		}
	}
	return f
}

func (f *fakeTable) Handler(m httpclient.Method) (httpclient.Handler, bool) {
	h, ok := f.handlers[m]
	return h, ok
}

func (f *fakeTable) SetHandler(m httpclient.Method, h httpclient.Handler) error {
	if m == f.failOn && f.failures == 0 {
		f.failures++
		return errors.Newf("refusing to replace %s", string(m))
	}
	f.handlers[m] = h
	return nil
}

func (f *fakeTable) get(url string) *httpclient.Future {
	return f.handlers[httpclient.MethodGet].(*httpclient.URLHandler).Do(url, nil)
}

// valueTable cannot be used as a map key.
type valueTable struct {
	handlers map[httpclient.Method]httpclient.Handler
}

func (v valueTable) Handler(m httpclient.Method) (httpclient.Handler, bool) {
	h, ok := v.handlers[m]
	return h, ok
}

func (v valueTable) SetHandler(m httpclient.Method, h httpclient.Handler) error {
	v.handlers[m] = h
	return nil
}

func errorsNewStack(msg string) errors.StackError {
	return errors.NewSkip(0, msg)
}
