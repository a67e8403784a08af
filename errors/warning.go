package errors

import (
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// disableWarning is a global flag that controls whether warnings are disabled.
	disableWarning bool

	// warningPrefix is the prefix used for warning messages.
	warningPrefix = "warning"

	// warningOutput is where warning messages are written, os.Stderr by default.
	warningOutput io.Writer = os.Stderr
)

// DisableWarning disables the global warning mechanism.
func DisableWarning() {
	disableWarning = true
}

// EnableWarning reverts DisableWarning.
func EnableWarning() {
	disableWarning = false
}

// SetWarningOutput sets the output destination for warning messages.
func SetWarningOutput(output io.Writer) {
	warningOutput = output
}

// SetWarningPrefix sets the prefix used for warning messages.
func SetWarningPrefix(prefix string) {
	warningPrefix = prefix
}

func warn(msg string) {
	if warningPrefix != "" {
		_, _ = io.WriteString(warningOutput, warningPrefix)
		_, _ = io.WriteString(warningOutput, ": ")
	}
	_, _ = io.WriteString(warningOutput, msg)
	_, _ = warningOutput.Write([]byte{'\n'})
}

// Warning writes the operands, separated by spaces, as a warning message.
// It does nothing when warnings are disabled or no operands are given.
func Warning(a ...any) {
	if disableWarning || len(a) == 0 || (len(a) == 1 && a[0] == nil) {
		return
	}
	warn(strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
}

// Warningf writes a formatted warning message.
func Warningf(format string, a ...any) {
	if disableWarning {
		return
	}
	warn(fmt.Sprintf(format, a...))
}
