package reactive

// Signal is a reactive value. Reading it with Get inside a computation
// subscribes that computation to future changes.
type Signal[T any] struct {
	src   source
	rt    *Runtime
	value T
	equal func(a, b T) bool
}

// NewSignal creates a signal that notifies only when the new value differs
// from the current one.
func NewSignal[T comparable](rt *Runtime, initial T) *Signal[T] {
	return &Signal[T]{rt: rt, value: initial, equal: func(a, b T) bool { return a == b }}
}

// NewSignalFunc creates a signal with a custom equality. A nil equal makes
// every Set notify.
func NewSignalFunc[T any](rt *Runtime, initial T, equal func(a, b T) bool) *Signal[T] {
	return &Signal[T]{rt: rt, value: initial, equal: equal}
}

// Get returns the value and records the read in the running computation.
func (s *Signal[T]) Get() T {
	s.src.track(s.rt)
	return s.value
}

// Peek returns the value without tracking.
func (s *Signal[T]) Peek() T {
	return s.value
}

// Set stores v and re-runs dependent computations if it changed.
func (s *Signal[T]) Set(v T) {
	if s.equal != nil && s.equal(s.value, v) {
		return
	}
	s.value = v
	s.src.notify(s.rt)
}

// Update applies fn to the current value and stores the result.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}
