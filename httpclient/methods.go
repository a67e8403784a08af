package httpclient

import (
	"net/http"

	"github.com/stkali/httpstack/errors"
)

// Method names a request-issuing method of a client.
type Method string

const (
	MethodRequest Method = "request"
	MethodGet     Method = "get"
	MethodDelete  Method = "delete"
	MethodHead    Method = "head"
	MethodOptions Method = "options"
	MethodPost    Method = "post"
	MethodPut     Method = "put"
	MethodPatch   Method = "patch"
)

// Methods is the fixed set of request-issuing methods, in table order.
var Methods = []Method{
	MethodRequest,
	MethodGet,
	MethodDelete,
	MethodHead,
	MethodOptions,
	MethodPost,
	MethodPut,
	MethodPatch,
}

// Shape is the call signature of a request-issuing method.
type Shape int

const (
	// ShapeInvalid is returned for names outside Methods.
	ShapeInvalid Shape = iota
	// ShapeConfig is request(config).
	ShapeConfig
	// ShapeURL is get/delete/head/options(url, config).
	ShapeURL
	// ShapeURLData is post/put/patch(url, data, config).
	ShapeURLData
)

func (s Shape) String() string {
	switch s {
	case ShapeConfig:
		return "config"
	case ShapeURL:
		return "url"
	case ShapeURLData:
		return "url+data"
	default:
		return "invalid"
	}
}

// Shape reports the call signature of m.
func (m Method) Shape() Shape {
	switch m {
	case MethodRequest:
		return ShapeConfig
	case MethodGet, MethodDelete, MethodHead, MethodOptions:
		return ShapeURL
	case MethodPost, MethodPut, MethodPatch:
		return ShapeURLData
	default:
		return ShapeInvalid
	}
}

// Verb returns the HTTP verb m issues. It is empty for MethodRequest, whose
// verb comes from the configuration.
func (m Method) Verb() string {
	switch m {
	case MethodGet:
		return http.MethodGet
	case MethodDelete:
		return http.MethodDelete
	case MethodHead:
		return http.MethodHead
	case MethodOptions:
		return http.MethodOptions
	case MethodPost:
		return http.MethodPost
	case MethodPut:
		return http.MethodPut
	case MethodPatch:
		return http.MethodPatch
	default:
		return ""
	}
}

// Handler is the implementation behind one method. It is one of
// *ConfigHandler, *URLHandler or *DataHandler. Handlers are compared by
// pointer identity.
type Handler interface {
	Shape() Shape
}

// ConfigHandler implements request(config).
type ConfigHandler struct {
	Do func(cfg *Config) *Future
}

// URLHandler implements get, delete, head and options.
type URLHandler struct {
	Do func(url string, cfg *Config) *Future
}

// DataHandler implements post, put and patch.
type DataHandler struct {
	Do func(url string, data any, cfg *Config) *Future
}

func (*ConfigHandler) Shape() Shape { return ShapeConfig }
func (*URLHandler) Shape() Shape    { return ShapeURL }
func (*DataHandler) Shape() Shape   { return ShapeURLData }

// MethodTable is implemented by clients whose request-issuing methods can be
// read and replaced at runtime.
type MethodTable interface {
	// Handler returns the handler installed for m, if any.
	Handler(m Method) (Handler, bool)
	// SetHandler installs h for m. A nil h removes the method. It fails when
	// m is unknown or h has the wrong shape.
	SetHandler(m Method, h Handler) error
}

const (
	ErrUnknownMethod     = errors.Error("httpclient: unknown method")
	ErrShapeMismatch     = errors.Error("httpclient: handler shape does not match method")
	ErrMethodUnavailable = errors.Error("httpclient: method not available")
)

func checkHandler(m Method, h Handler) error {
	if m.Shape() == ShapeInvalid {
		return errors.Newf("%s: %q", ErrUnknownMethod, string(m))
	}
	if isNilHandler(h) {
		return nil
	}
	switch h.(type) {
	case *ConfigHandler, *URLHandler, *DataHandler:
	default:
		return errors.Newf("%s: unsupported handler %T", ErrShapeMismatch, h)
	}
	if h.Shape() != m.Shape() {
		return errors.Newf("%s: %s wants %s, got %s", ErrShapeMismatch, string(m), m.Shape(), h.Shape())
	}
	return nil
}

func isNilHandler(h Handler) bool {
	switch v := h.(type) {
	case nil:
		return true
	case *ConfigHandler:
		return v == nil || v.Do == nil
	case *URLHandler:
		return v == nil || v.Do == nil
	case *DataHandler:
		return v == nil || v.Do == nil
	default:
		return false
	}
}
