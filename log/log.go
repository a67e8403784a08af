// Copyright 2021-2024 The httpstack Authors. All rights reserved.
// Use of this source code is governed by the MIT license that can be found in the
// LICENSE file

// Package log provides a simple logging interface with levels.
// It is based on the standard log package and provides the levels TRACE,
// DEBUG, INFO, WARN, ERROR, and FATAL.

package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

const (
	TRACE Level = iota
	DEBUG
	INFO
	WARN
	ERROR
	FATAL
)

// Exit is called after a FATAL message is written. Tests replace it.
var Exit = os.Exit

type Level int

// String follow the fmt.Stringer interface
// returns the string level
func (l Level) String() string {
	if l >= TRACE && l <= FATAL {
		return levels[l]
	}
	return fmt.Sprintf("[Level(%d)]", l)
}

// ToLevelWithDefault converts a string, int, or Level to a Level type and
// returns def if the conversion fails.
// ToLevelWithDefault(1, WARN)         -> DEBUG
// ToLevelWithDefault("Warning", INFO) -> WARN
// ToLevelWithDefault("loud", INFO)    -> INFO
func ToLevelWithDefault(level any, def Level) Level {
	switch lv := level.(type) {
	case string:
		if l, err := ParseLevel(lv); err == nil {
			return l
		}
		return def
	case Level:
		return lv
	case int:
		return Level(lv)
	default:
		return def
	}
}

// ParseLevel returns the Level named by level, case-insensitively.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return TRACE, nil
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warning", "warn":
		return WARN, nil
	case "error", "err":
		return ERROR, nil
	case "fatal":
		return FATAL, nil
	default:
		return defaultLevel, fmt.Errorf("unknown log level %q", level)
	}
}

var (
	levels = []string{
		"[TRACE] ",
		"[DEBUG] ",
		"[INFO ] ",
		"[WARN ] ",
		"[ERROR] ",
		"[FATAL] ",
	}
	defaultFlags  = log.LstdFlags | log.Lshortfile | log.Lmicroseconds
	defaultPrefix = ""
	defaultLevel  = WARN
)

// Logger is a logger interface that provides logging function with levels.
type Logger interface {
	Trace(args ...any)
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Fatal(args ...any)
	Tracef(format string, args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
	Enabled(lv Level) bool
	SetLevel(Level)
	SetOutput(io.Writer)
	SetPrefix(prefix string)
	SetFlags(flag int)
}

type defaultLogger struct {
	stdLog *log.Logger
	level  Level
}

// New returns a Logger writing messages at or above level to out.
func New(out io.Writer, prefix string, level Level) Logger {
	return &defaultLogger{
		stdLog: log.New(out, prefix, defaultFlags),
		level:  level,
	}
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return New(io.Discard, "", FATAL+1)
}

func (l *defaultLogger) SetPrefix(prefix string) {
	l.stdLog.SetPrefix(prefix)
}

func (l *defaultLogger) SetFlags(flag int) {
	l.stdLog.SetFlags(flag)
}

func (l *defaultLogger) SetOutput(w io.Writer) {
	l.stdLog.SetOutput(w)
}

func (l *defaultLogger) SetLevel(lv Level) {
	l.level = lv
}

func (l *defaultLogger) Enabled(lv Level) bool {
	return lv >= l.level
}

func (l *defaultLogger) logf(lv Level, format *string, args ...any) {
	if lv < l.level {
		return
	}
	msg := lv.String()
	if format != nil {
		msg += fmt.Sprintf(*format, args...)
	} else {
		msg += fmt.Sprint(args...)
	}
	_ = l.stdLog.Output(3, msg)
	if lv == FATAL {
		Exit(1)
	}
}

func (l *defaultLogger) Fatal(args ...any) {
	l.logf(FATAL, nil, args...)
}

func (l *defaultLogger) Error(args ...any) {
	l.logf(ERROR, nil, args...)
}

func (l *defaultLogger) Warn(args ...any) {
	l.logf(WARN, nil, args...)
}

func (l *defaultLogger) Info(args ...any) {
	l.logf(INFO, nil, args...)
}

func (l *defaultLogger) Debug(args ...any) {
	l.logf(DEBUG, nil, args...)
}

func (l *defaultLogger) Trace(args ...any) {
	l.logf(TRACE, nil, args...)
}

func (l *defaultLogger) Fatalf(format string, args ...any) {
	l.logf(FATAL, &format, args...)
}

func (l *defaultLogger) Errorf(format string, args ...any) {
	l.logf(ERROR, &format, args...)
}

func (l *defaultLogger) Warnf(format string, args ...any) {
	l.logf(WARN, &format, args...)
}

func (l *defaultLogger) Infof(format string, args ...any) {
	l.logf(INFO, &format, args...)
}

func (l *defaultLogger) Debugf(format string, args ...any) {
	l.logf(DEBUG, &format, args...)
}

func (l *defaultLogger) Tracef(format string, args ...any) {
	l.logf(TRACE, &format, args...)
}

var logger = New(os.Stderr, defaultPrefix, defaultLevel)

// DefaultLogger return the default logger.
func DefaultLogger() Logger {
	return logger
}

// SetLogger sets the default logger.
// Note that this method is not concurrent-safe and must not be called
// after the use of DefaultLogger.
func SetLogger(l Logger) {
	logger = l
}
