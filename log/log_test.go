package log

import (
	"bytes"
	stdlog "log"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToLevelWithDefault(t *testing.T) {
	cases := []struct {
		name string
		set  any
		want Level
	}{
		{"level->info", INFO, INFO},
		{"integer->trace", 0, TRACE},
		{"string->debug", "debug", DEBUG},
		{"string->info", "INFO", INFO},
		{"string->warning", "Warning", WARN},
		{"string->err", "err", ERROR},
		{"string->fatal", "fatal", FATAL},
		{"string->unknown", "unknown", defaultLevel},
		{"struct->defaultLevel", struct{}{}, defaultLevel},
		{"edgeLevel", Level(-18), Level(-18)},
		{"bool->defaultLevel", true, defaultLevel},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, ToLevelWithDefault(c.set, defaultLevel))
		})
	}
}

func TestParseLevel(t *testing.T) {
	lv, err := ParseLevel(" debug ")
	require.NoError(t, err)
	require.Equal(t, DEBUG, lv)

	_, err = ParseLevel("verbose")
	require.Error(t, err)
}

func TestLevelString(t *testing.T) {
	cases := []struct {
		Name   string
		Level  Level
		Expect string
	}{
		{"< trace", Level(-1), "[Level(-1)]"},
		{"> fatal", Level(100), "[Level(100)]"},
		{"trace", TRACE, "[TRACE] "},
		{"info", INFO, "[INFO ] "},
		{"fatal", FATAL, "[FATAL] "},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			require.Equal(t, c.Expect, c.Level.String())
		})
	}
}

func TestLevelLimit(t *testing.T) {
	exitCode := 0
	preExit := Exit
	Exit = func(code int) { exitCode = code }
	defer func() { Exit = preExit }()

	for _, threshold := range []Level{TRACE, INFO, ERROR, FATAL + 1} {
		recorder := new(bytes.Buffer)
		l := New(recorder, "", threshold)
		l.SetFlags(0)

		emit := []struct {
			level  Level
			print  func(args ...any)
			printf func(format string, args ...any)
		}{
			{TRACE, l.Trace, l.Tracef},
			{DEBUG, l.Debug, l.Debugf},
			{INFO, l.Info, l.Infof},
			{WARN, l.Warn, l.Warnf},
			{ERROR, l.Error, l.Errorf},
			{FATAL, l.Fatal, l.Fatalf},
		}
		for _, e := range emit {
			recorder.Reset()
			e.print("hello", "world")
			if e.level < threshold {
				require.Empty(t, recorder.String(), "%s at threshold %s", e.level, threshold)
			} else {
				require.Equal(t, e.level.String()+"helloworld\n", recorder.String())
			}

			recorder.Reset()
			e.printf("%d, %o, %s", 1, 12, "string")
			if e.level < threshold {
				require.Empty(t, recorder.String())
			} else {
				require.Equal(t, e.level.String()+"1, 14, string\n", recorder.String())
			}
		}
	}
	require.Equal(t, 1, exitCode)
}

func TestCallerLocation(t *testing.T) {
	recorder := new(bytes.Buffer)
	l := New(recorder, "", WARN)
	l.SetFlags(stdlog.Lshortfile)
	l.Warnf("here")
	require.True(t, strings.HasPrefix(recorder.String(), "log_test.go:"), recorder.String())
}

func TestEnabled(t *testing.T) {
	l := New(new(bytes.Buffer), "", INFO)
	require.False(t, l.Enabled(DEBUG))
	require.True(t, l.Enabled(INFO))
	require.True(t, l.Enabled(ERROR))
	require.False(t, Discard().Enabled(FATAL))
}

func TestPrefix(t *testing.T) {
	recorder := new(bytes.Buffer)
	l := New(recorder, "", DEBUG)
	l.SetFlags(0)
	l.SetPrefix("httpstack ")
	l.Debugf("patched %d methods", 8)
	require.Equal(t, "httpstack [DEBUG] patched 8 methods\n", recorder.String())
}

func TestConfig(t *testing.T) {
	previous := DefaultLogger()
	defer SetLogger(previous)
	newLog := Discard()
	SetLogger(newLog)
	require.Equal(t, newLog, DefaultLogger())
}
