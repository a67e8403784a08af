package httpclient

import "sync"

// Interceptor is one entry of an InterceptorManager. Either function may be nil.
type Interceptor[T any] struct {
	Fulfilled func(T) (T, error)
	Rejected  func(error) (T, error)
}

type interceptorEntry[T any] struct {
	id int
	*Interceptor[T]
}

// InterceptorManager is an ordered chain of interceptors. Ids returned by Use
// are never reused, so ejecting a stale id is a no-op even after Clear.
type InterceptorManager[T any] struct {
	mu       sync.RWMutex
	nextID   int
	handlers []interceptorEntry[T]
}

// Use appends an interceptor and returns its id.
func (m *InterceptorManager[T]) Use(fulfilled func(T) (T, error), rejected func(error) (T, error)) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.handlers = append(m.handlers, interceptorEntry[T]{
		id:          id,
		Interceptor: &Interceptor[T]{Fulfilled: fulfilled, Rejected: rejected},
	})
	return id
}

// Eject removes the interceptor registered under id. Unknown ids are ignored.
func (m *InterceptorManager[T]) Eject(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, h := range m.handlers {
		if h.id == id {
			m.handlers = append(m.handlers[:i:i], m.handlers[i+1:]...)
			return
		}
	}
}

// Clear removes every interceptor.
func (m *InterceptorManager[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = nil
}

// Len returns the number of registered interceptors.
func (m *InterceptorManager[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers)
}

// snapshot returns the registered interceptors in registration order.
func (m *InterceptorManager[T]) snapshot() []*Interceptor[T] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Interceptor[T], 0, len(m.handlers))
	for _, h := range m.handlers {
		out = append(out, h.Interceptor)
	}
	return out
}
