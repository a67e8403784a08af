package errors

import (
	"bytes"
	"fmt"
	"io"
	"runtime"
)

// Tracer is an interface that represents a stack trace.
// It provides methods to print or manipulate the stack trace.
type Tracer interface {
	StackTrace(fd io.Writer)
	RangeFrames(handle func(frame runtime.Frame))
	fmt.Stringer
}

// depth defines the maximum depth of the stack trace to capture.
const depth = 1 << 5

// trace represents a slice of program counters that can be used to reconstruct a stack trace.
type trace []uintptr

// String implements fmt.Stringer.
func (t trace) String() string {
	buf := &bytes.Buffer{}
	t.StackTrace(buf)
	return buf.String()
}

var _ Tracer = (*trace)(nil)

// RangeFrames iterates over the stack trace and calls handle for each frame.
// A nil handle writes every frame to the error output.
func (t trace) RangeFrames(handle func(frame runtime.Frame)) {
	if handle == nil {
		handle = defaultFrameHandle
	}
	fs := runtime.CallersFrames(t)
	for {
		frame, more := fs.Next()
		if frame.Function != "" {
			handle(frame)
		}
		if !more {
			return
		}
	}
}

func defaultFrameHandle(frame runtime.Frame) {
	writeFrame(errOutput, frame)
}

func writeFrame(fd io.Writer, frame runtime.Frame) {
	_, _ = fmt.Fprintf(fd, "    %s(...)\n", frame.Function)
	_, _ = fmt.Fprintf(fd, "         %s:%d\n", frame.File, frame.Line)
}

// StackTrace writes a formatted stack trace to the provided io.Writer.
func (t trace) StackTrace(fd io.Writer) {
	_, _ = fmt.Fprintln(fd, "Trace:")
	t.RangeFrames(func(frame runtime.Frame) {
		writeFrame(fd, frame)
	})
}

// GetTrace captures the current goroutine's stack trace, skipping the specified number of frames.
// skip follows runtime.Callers: 0 is runtime.Callers itself, 1 is GetTrace, 2 the caller of GetTrace.
func GetTrace(skip int) Tracer {
	pcs := make(trace, depth)
	count := runtime.Callers(skip, pcs)
	return pcs[:count]
}

// StackTrace writes the traceback information of the caller to the specified io.Writer.
func StackTrace(fd io.Writer) {
	tc := GetTrace(3)
	tc.StackTrace(fd)
}

// GetTraceback returns the traceback of the caller as a string.
func GetTraceback() string {
	tc := GetTrace(3)
	return tc.String()
}
