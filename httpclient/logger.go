package httpclient

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/stkali/httpstack/log"
)

// leveledLogger lets retryablehttp write through a log.Logger.
type leveledLogger struct {
	log.Logger
}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(formatKV(msg, keysAndValues))
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(formatKV(msg, keysAndValues))
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(formatKV(msg, keysAndValues))
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(formatKV(msg, keysAndValues))
}

// formatKV renders "msg key=value ...". An odd trailing key gets "<missing>".
func formatKV(msg string, kv []interface{}) string {
	if len(kv) == 0 {
		return msg
	}
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i < len(kv); i += 2 {
		var v interface{} = "<missing>"
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		_, _ = fmt.Fprintf(&sb, " %v=%v", kv[i], v)
	}
	return sb.String()
}
