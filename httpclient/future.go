package httpclient

import (
	"context"
	"sync"
)

// FulfilledFunc continues a Future that resolved.
type FulfilledFunc func(resp *Response) (*Response, error)

// RejectedFunc continues a Future that rejected. Returning a nil error turns
// the failure into a success.
type RejectedFunc func(err error) (*Response, error)

// Future holds the eventual outcome of a request.
type Future struct {
	done chan struct{}
	once sync.Once
	resp *Response
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolve returns a Future already resolved with resp.
func Resolve(resp *Response) *Future {
	f := newFuture()
	f.settle(resp, nil)
	return f
}

// Reject returns a Future already rejected with err.
func Reject(err error) *Future {
	f := newFuture()
	f.settle(nil, err)
	return f
}

// settle records the outcome. Only the first call has an effect.
func (f *Future) settle(resp *Response, err error) {
	f.once.Do(func() {
		f.resp, f.err = resp, err
		close(f.done)
	})
}

// Done returns a channel that is closed once the Future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the Future settles.
func (f *Future) Wait() (*Response, error) {
	<-f.done
	return f.resp, f.err
}

// Await is Wait bounded by ctx. Giving up does not cancel the request; use
// Config.Context for that.
func (f *Future) Await(ctx context.Context) (*Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Then returns a Future settled by onFulfilled or onRejected once f settles.
// A nil handler passes the outcome through. Handlers run on their own
// goroutine; a panicking handler rejects the returned Future with *PanicError.
func (f *Future) Then(onFulfilled FulfilledFunc, onRejected RejectedFunc) *Future {
	next := newFuture()
	go func() {
		resp, err := f.Wait()
		next.settle(continueWith(resp, err, onFulfilled, onRejected))
	}()
	return next
}

// Catch is Then(nil, onRejected).
func (f *Future) Catch(onRejected RejectedFunc) *Future {
	return f.Then(nil, onRejected)
}

func continueWith(resp *Response, err error, onFulfilled FulfilledFunc, onRejected RejectedFunc) (r *Response, e error) {
	defer func() {
		if v := recover(); v != nil {
			r, e = nil, newPanicError(v)
		}
	}()
	if err != nil {
		if onRejected == nil {
			return nil, err
		}
		return onRejected(err)
	}
	if onFulfilled == nil {
		return resp, nil
	}
	return onFulfilled(resp)
}
