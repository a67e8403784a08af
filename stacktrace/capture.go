package stacktrace

import "github.com/stkali/httpstack/errors"

// captureTopmost returns a topmost error whose trace starts at the caller.
// It must run synchronously in the proxy: once the request has been handed to
// the client's goroutine the caller's frames are gone.
func captureTopmost(label string) errors.StackError {
	return errors.NewSkip(1, label)
}
