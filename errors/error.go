package errors

import (
	stderr "errors"
	"fmt"
	"io"
)

var Is = stderr.Is
var As = stderr.As
var Join = stderr.Join

// Error is a constant error without a trace.
type Error string

func (e Error) Error() string {
	return string(e)
}

type iErr struct {
	errs      []error
	argErrNum int
	*Traceback
}

func (i *iErr) Unwrap() []error {
	return i.errs
}

func (i *iErr) Is(err error) bool {
	for _, e := range i.errs {
		if Is(e, err) {
			return true
		}
	}
	return false
}

func (i *iErr) Error() string {
	return i.errs[i.argErrNum].Error()
}

// Format renders the rendered stack for %v, so an augmented stack is printed as-is.
// fmt.Errorf formats %w operands with %v, so a wrapper's message carries the
// stack as rendered at wrap time. Join keeps the chain without it.
func (i *iErr) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		_, _ = io.WriteString(f, i.Stack())
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", i.Error())
	default:
		_, _ = io.WriteString(f, i.Error())
	}
}

var _ StackError = (*iErr)(nil)
var _ fmt.Formatter = (*iErr)(nil)

func newf(skip int, format string, a ...any) *iErr {
	err := &iErr{}
	for _, e := range a {
		if argErr, ok := e.(error); ok {
			err.errs = append(err.errs, argErr)
			err.argErrNum++
		}
	}
	msg := fmt.Sprintf(format, a...)
	err.errs = append(err.errs, Error(msg))
	err.Traceback = NewTraceback(msg, GetTrace(skip))
	return err
}

// Newf returns an error formatted from format and a. Error arguments are kept
// in the chain so Is and As still see them.
func Newf(format string, a ...any) error {
	return newf(4, format, a...)
}

// New returns an error whose trace starts at the caller of New.
func New(text string) error {
	return NewSkip(1, text)
}

// NewSkip is New with skip additional frames removed from the top of the trace.
// NewSkip(0, text) behaves like New called from the same place.
func NewSkip(skip int, text string) StackError {
	if skip < 0 {
		skip = 0
	}
	return &iErr{
		errs:      []error{Error(text)},
		Traceback: NewTraceback(text, GetTrace(3+skip)),
	}
}
