package errors

import (
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// errPrefix is a prefix string prepended to messages written by Exitf and CheckErr.
	errPrefix = "occurred error"

	// errOutput is the writer used for error output, defaulting to os.Stderr.
	errOutput io.Writer = os.Stderr

	// exitHook is called before the program exits due to an error.
	exitHook ExitHook = nil

	osExit = os.Exit
)

// ExitHook defines the signature of a function that can be set as a hook to execute before
// program exit.
type ExitHook func(code int, msg string, tracer Tracer)

// SetErrPrefix allows changing the prefix string used in error messages.
func SetErrPrefix(prefix string) {
	errPrefix = prefix
}

// SetErrOutput set error output writable.
func SetErrOutput(writer io.Writer) {
	errOutput = writer
}

// SetExitHook sets a custom hook function to be called before the program exits due to an error.
func SetExitHook(hook ExitHook) {
	exitHook = hook
}

// ReplaceExit swaps the function used to terminate the process and returns a
// function restoring the previous one. Tests use it to observe exit codes.
func ReplaceExit(exit func(code int)) (restore func()) {
	previous := osExit
	osExit = exit
	return func() {
		osExit = previous
	}
}

// Exit calls the exit hook (if set) and exits the program with code.
func Exit(code int) {
	if exitHook != nil {
		exitHook(code, "", GetTrace(3))
	}
	osExit(code)
}

// Exitf prints a formatted error message to the error output, calls the exit hook (if set),
// and then exits the program with the given code.
func Exitf(code int, format string, args ...any) {
	if errPrefix != "" {
		var sb strings.Builder
		sb.Grow(len(errPrefix) + 2 + len(format))
		sb.WriteString(errPrefix)
		sb.WriteString(": ")
		sb.WriteString(format)
		format = sb.String()
	}
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprint(errOutput, msg)
	if exitHook != nil {
		exitHook(code, msg, GetTrace(3))
	}
	osExit(code)
}

// CheckErr prints err with the set prefix followed by its rendered stack, when it has
// one, and exits the program with code 1. A nil err does nothing.
func CheckErr(err error) {
	if err == nil {
		return
	}
	var msg string
	if errPrefix == "" {
		msg = err.Error()
	} else {
		msg = fmt.Sprintf("%s: %s", errPrefix, err)
	}
	_, _ = fmt.Fprintln(errOutput, msg)

	var tracer Tracer
	var se StackError
	if As(err, &se) {
		_, _ = fmt.Fprintln(errOutput, se.Stack())
		if tb, ok := se.(interface{ trace() Tracer }); ok {
			tracer = tb.trace()
		}
	}
	if exitHook != nil {
		if tracer == nil {
			tracer = GetTrace(3)
		}
		exitHook(1, msg, tracer)
	}
	osExit(1)
}

func (t *Traceback) trace() Tracer {
	return t.Tracer
}
