package stacktrace

import (
	"reflect"
	"sync"

	"github.com/stkali/httpstack/httpclient"
)

// RestoreFunc undoes Apply. Only its first call has an effect.
type RestoreFunc func()

// patched holds every target currently patched, keyed by identity.
var patched sync.Map

// responseChain is implemented by clients with a shared response interceptor
// chain, such as *httpclient.Client.
type responseChain interface {
	ResponseInterceptors() *httpclient.InterceptorManager[*httpclient.Response]
}

// Apply patches the request-issuing methods of target so that failures carry
// the caller's stack. It returns nil without modifying anything when target is
// nil, exposes none of httpclient.Methods, cannot be used as a map key, or is
// already patched. Otherwise it returns the function restoring target.
//
// Patched targets are remembered by identity until restored, so a target that
// is never restored is never garbage collected.
func Apply(target httpclient.MethodTable, opts ...Option) RestoreFunc {
	if !applicable(target) {
		return nil
	}
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	originals := snapshot(target)
	if len(originals) == 0 {
		return nil
	}
	if _, loaded := patched.LoadOrStore(target, struct{}{}); loaded {
		s.logger.Debugf("stacktrace: %T already patched", target)
		return nil
	}

	chain, viaInterceptor := s.resolve(target)
	p := &proxy{
		label:    s.errorMessage,
		annotate: s.exposeViaConfig || s.strategy == StrategyInterceptor,
		chain:    !viaInterceptor,
		aug:      augmenter{retain: s.retainTopmost},
	}

	var replaced []httpclient.Method
	for _, m := range httpclient.Methods {
		h, ok := originals[m]
		if !ok {
			continue
		}
		wrapped := p.wrap(h)
		if wrapped == nil {
			continue
		}
		if err := target.SetHandler(m, wrapped); err != nil {
			s.logger.Errorf("stacktrace: patch %s on %T: %s", m, target, err)
			if err := originals.restore(target, replaced); err != nil {
				s.logger.Errorf("stacktrace: roll back %T: %s", target, err)
			}
			patched.Delete(target)
			return nil
		}
		replaced = append(replaced, m)
	}

	interceptorID := -1
	if viaInterceptor {
		interceptorID = chain.ResponseInterceptors().Use(p.aug.fulfilled, p.aug.rejected)
	}
	s.logger.Debugf("stacktrace: patched %d methods of %T (%s strategy)", len(replaced), target, effectiveStrategy(viaInterceptor))

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := originals.restore(target, replaced); err != nil {
				s.logger.Errorf("stacktrace: restore %T: %s", target, err)
			}
			if interceptorID >= 0 {
				chain.ResponseInterceptors().Eject(interceptorID)
			}
			patched.Delete(target)
			s.logger.Debugf("stacktrace: restored %T", target)
		})
	}
}

// Applied reports whether target is currently patched.
func Applied(target httpclient.MethodTable) bool {
	if !applicable(target) {
		return false
	}
	_, ok := patched.Load(target)
	return ok
}

func applicable(target httpclient.MethodTable) bool {
	if target == nil {
		return false
	}
	v := reflect.ValueOf(target)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		if v.IsNil() {
			return false
		}
	}
	return v.Type().Comparable()
}

// resolve picks the propagation strategy for target.
func (s settings) resolve(target httpclient.MethodTable) (responseChain, bool) {
	chain, ok := target.(responseChain)
	switch s.strategy {
	case StrategyDirectChain:
		return nil, false
	case StrategyInterceptor:
		if !ok {
			s.logger.Warnf("stacktrace: %T has no response interceptor chain, chaining directly", target)
			return nil, false
		}
		return chain, true
	default:
		if ok && s.exposeViaConfig {
			return chain, true
		}
		return nil, false
	}
}

func effectiveStrategy(viaInterceptor bool) Strategy {
	if viaInterceptor {
		return StrategyInterceptor
	}
	return StrategyDirectChain
}
