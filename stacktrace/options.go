package stacktrace

import (
	"fmt"
	"strings"

	"github.com/stkali/httpstack/errors"
	"github.com/stkali/httpstack/log"
)

// DefaultErrorMessage is the message of every topmost error unless
// WithErrorMessage is given. It marks the appended section of a stack.
const DefaultErrorMessage = "Better Stacktrace"

// Strategy selects how the topmost error reaches the failed request.
type Strategy int

const (
	// StrategyAuto uses StrategyInterceptor when the client has a response
	// interceptor chain and the topmost error is exposed via config, and
	// StrategyDirectChain otherwise.
	StrategyAuto Strategy = iota
	// StrategyDirectChain chains the augmentation onto each returned Future.
	StrategyDirectChain
	// StrategyInterceptor carries the topmost error in the request config and
	// augments in a response interceptor registered on the client.
	StrategyInterceptor
)

var strategyNames = []string{"auto", "direct", "interceptor"}

func (s Strategy) String() string {
	if s >= StrategyAuto && s <= StrategyInterceptor {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy returns the Strategy named by name ("auto", "direct" or
// "interceptor"). An empty name is StrategyAuto.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return StrategyAuto, nil
	}
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	return StrategyAuto, errors.Newf("unknown strategy %q", name)
}

type settings struct {
	errorMessage    string
	exposeViaConfig bool
	retainTopmost   bool
	strategy        Strategy
	logger          log.Logger
}

// Option configures Apply.
type Option func(*settings)

func defaultSettings() settings {
	return settings{
		errorMessage: DefaultErrorMessage,
		strategy:     StrategyAuto,
		logger:       log.DefaultLogger(),
	}
}

// WithErrorMessage sets the message of the topmost errors. An empty message
// keeps DefaultErrorMessage.
func WithErrorMessage(msg string) Option {
	return func(s *settings) {
		if msg != "" {
			s.errorMessage = msg
		}
	}
}

// WithExposeTopmostErrorViaConfig attaches each call's topmost error to
// Config.TopmostError while the request is in flight, so interceptors of the
// client can read it. It is removed before the caller sees a response.
func WithExposeTopmostErrorViaConfig() Option {
	return func(s *settings) {
		s.exposeViaConfig = true
	}
}

// WithRetainTopmostError leaves Config.TopmostError on the configuration of a
// failed request so interceptors chained after the augmentation can inspect
// it. Successful responses never carry it.
func WithRetainTopmostError() Option {
	return func(s *settings) {
		s.retainTopmost = true
	}
}

// WithStrategy selects the propagation strategy.
// StrategyInterceptor carries the topmost error in Config.TopmostError, so it
// implies WithExposeTopmostErrorViaConfig while the request is in flight; the
// field is still removed before the caller sees the outcome.
// It panics if st is not a known Strategy value.
func WithStrategy(st Strategy) Option {
	return func(s *settings) {
		switch st {
		case StrategyAuto, StrategyDirectChain, StrategyInterceptor:
			s.strategy = st
		default:
			panic("stacktrace: invalid strategy")
		}
	}
}

// WithLogger sets the logger used for patch and restore events.
func WithLogger(l log.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
