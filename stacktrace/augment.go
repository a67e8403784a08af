package stacktrace

import (
	"github.com/stkali/httpstack/errors"
	"github.com/stkali/httpstack/httpclient"
)

// configCarrier is implemented by errors that know the configuration of the
// request they failed, such as *httpclient.RequestError.
type configCarrier interface {
	RequestConfig() *httpclient.Config
}

// augment appends topmost's stack to the stack of err in place and records
// the previous stack as the original. Errors without a rendered stack, and
// calls without a topmost error, are left untouched and reported as false.
func augment(err error, topmost errors.StackError) bool {
	if err == nil || topmost == nil {
		return false
	}
	var se errors.StackError
	if !errors.As(err, &se) {
		return false
	}
	stack := se.Stack()
	se.SetOriginalStack(stack)
	se.SetStack(stack + "\n" + topmost.Stack())
	return true
}

// configOf returns the request configuration carried by err, if any.
func configOf(err error) *httpclient.Config {
	var cc configCarrier
	if errors.As(err, &cc) {
		return cc.RequestConfig()
	}
	return nil
}

// TopmostErrorOf returns the topmost error attached to the configuration
// carried by err. It is nil unless the topmost error is exposed via config
// and has not been stripped yet; see the package documentation on ordering.
func TopmostErrorOf(err error) errors.StackError {
	if cfg := configOf(err); cfg != nil {
		return cfg.TopmostError
	}
	return nil
}

type augmenter struct {
	retain bool
}

// fulfilled strips the topmost error from a successful response.
func (a augmenter) fulfilled(resp *httpclient.Response) (*httpclient.Response, error) {
	if resp != nil && resp.Config != nil {
		resp.Config.TopmostError = nil
	}
	return resp, nil
}

// rejectedWith augments with the topmost error captured by one call.
func (a augmenter) rejectedWith(topmost errors.StackError) httpclient.RejectedFunc {
	return func(err error) (*httpclient.Response, error) {
		if augment(err, topmost) {
			a.strip(err)
		}
		return nil, err
	}
}

// rejected augments with the topmost error found in the failed request's config.
func (a augmenter) rejected(err error) (*httpclient.Response, error) {
	cfg := configOf(err)
	if cfg == nil {
		return nil, err
	}
	if augment(err, cfg.TopmostError) {
		a.strip(err)
	}
	return nil, err
}

func (a augmenter) strip(err error) {
	if a.retain {
		return
	}
	if cfg := configOf(err); cfg != nil {
		cfg.TopmostError = nil
	}
}
