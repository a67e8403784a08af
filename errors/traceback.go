package errors

import (
	"strings"
	"sync"
)

// StackError is an error that carries a rendered stack which may be rewritten
// after the error was created.
type StackError interface {
	error
	// Stack returns the rendered stack text.
	Stack() string
	// SetStack replaces the rendered stack text.
	SetStack(stack string)
	// OriginalStack returns the stack recorded by SetOriginalStack, or "".
	OriginalStack() string
	SetOriginalStack(stack string)
}

// Traceback implements the stack part of StackError and is meant to be embedded.
// The text is rendered from the Tracer on first use.
type Traceback struct {
	Tracer
	header   string
	once     sync.Once
	stack    string
	original string
}

// NewTraceback returns a Traceback for an error with the given message.
func NewTraceback(message string, tracer Tracer) *Traceback {
	return &Traceback{Tracer: tracer, header: message}
}

func (t *Traceback) render() {
	var sb strings.Builder
	sb.WriteString("Error: ")
	sb.WriteString(t.header)
	sb.WriteByte('\n')
	if t.Tracer != nil {
		t.Tracer.StackTrace(&sb)
	}
	t.stack = strings.TrimRight(sb.String(), "\n")
}

func (t *Traceback) Stack() string {
	t.once.Do(t.render)
	return t.stack
}

func (t *Traceback) SetStack(stack string) {
	t.once.Do(func() {})
	t.stack = stack
}

func (t *Traceback) OriginalStack() string {
	return t.original
}

func (t *Traceback) SetOriginalStack(stack string) {
	t.original = stack
}
