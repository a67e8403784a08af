package httpclient

import (
	"fmt"
	"io"
	"runtime"

	"github.com/stkali/httpstack/errors"
)

// Code classifies a RequestError.
type Code string

const (
	ErrBadRequest  Code = "ERR_BAD_REQUEST"
	ErrBadResponse Code = "ERR_BAD_RESPONSE"
	ErrNetwork     Code = "ERR_NETWORK"
	ErrTimeout     Code = "ETIMEDOUT"
	ErrCanceled    Code = "ERR_CANCELED"
	ErrInvalidURL  Code = "ERR_INVALID_URL"
)

// RequestError is the error a Future rejects with when a request fails.
// Its stack is rendered from the dispatch goroutine that built it.
type RequestError struct {
	message string
	cause   error

	Code      Code
	Config    *Config
	Response  *Response
	RequestID string
	*errors.Traceback
}

var _ errors.StackError = (*RequestError)(nil)
var _ fmt.Formatter = (*RequestError)(nil)

// createError builds a RequestError whose trace starts at createError.
func createError(message string, code Code, cfg *Config, resp *Response, requestID string, cause error) *RequestError {
	return &RequestError{
		message:   message,
		cause:     cause,
		Code:      code,
		Config:    cfg,
		Response:  resp,
		RequestID: requestID,
		Traceback: errors.NewTraceback(message, errors.GetTrace(2)),
	}
}

func (e *RequestError) Error() string {
	return e.message
}

func (e *RequestError) Unwrap() error {
	return e.cause
}

// RequestConfig returns the configuration of the failed request.
func (e *RequestError) RequestConfig() *Config {
	return e.Config
}

// Status returns the response status, or 0 when no response was received.
func (e *RequestError) Status() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.Status
}

// Format prints the rendered stack for %v, like errors created by the errors package.
func (e *RequestError) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		_, _ = io.WriteString(f, e.Stack())
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", e.Error())
	default:
		_, _ = io.WriteString(f, e.Error())
	}
}

// PanicError wraps a value recovered from a panicking Future handler together
// with the goroutine stack at the point of the panic.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n\n%s", e.Value, e.Stack)
}

func newPanicError(v any) *PanicError {
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &PanicError{
		Value: v,
		Stack: string(buf[:n]),
	}
}
