package stacktrace

import "github.com/stkali/httpstack/httpclient"

// handlerSnapshot maps each method present at patch time to its handler.
type handlerSnapshot map[httpclient.Method]httpclient.Handler

func snapshot(t httpclient.MethodTable) handlerSnapshot {
	out := make(handlerSnapshot, len(httpclient.Methods))
	for _, m := range httpclient.Methods {
		if h, ok := t.Handler(m); ok && h != nil {
			out[m] = h
		}
	}
	return out
}

// restore reassigns the snapshot onto t. It reports the first failure but
// keeps going so that every restorable method is restored.
func (s handlerSnapshot) restore(t httpclient.MethodTable, only []httpclient.Method) error {
	var first error
	for _, m := range only {
		h, ok := s[m]
		if !ok {
			continue
		}
		if err := t.SetHandler(m, h); err != nil && first == nil {
			first = err
		}
	}
	return first
}
