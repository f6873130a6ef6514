package okskema

// Outcome is the result of one validation: either Valid with the validated
// value or Invalid with at least one Failure.
type Outcome[T any] struct {
	value    T
	failures Failures
}

// Valid wraps an accepted value.
func Valid[T any](v T) Outcome[T] { return Outcome[T]{value: v} }

// Invalid wraps a non-empty failure list. An empty list is a programming
// error because it would describe an Invalid outcome with nothing wrong.
func Invalid[T any](fs Failures) Outcome[T] {
	if len(fs) == 0 {
		panic("okskema: Invalid requires at least one failure")
	}
	return Outcome[T]{failures: fs}
}

// IsValid reports whether validation succeeded.
func (o Outcome[T]) IsValid() bool { return len(o.failures) == 0 }

// Value returns the validated value and true, or the zero value and false.
func (o Outcome[T]) Value() (T, bool) {
	if len(o.failures) > 0 {
		var zero T
		return zero, false
	}
	return o.value, true
}

// Failures returns the failure list (nil when valid).
func (o Outcome[T]) Failures() Failures { return o.failures }

// Err returns the failures as an error, or nil when valid.
func (o Outcome[T]) Err() error {
	if len(o.failures) == 0 {
		return nil
	}
	return o.failures
}

// Unwrap returns the value and error pair for call sites that prefer it.
func (o Outcome[T]) Unwrap() (T, error) {
	if len(o.failures) > 0 {
		var zero T
		return zero, o.failures
	}
	return o.value, nil
}

// Map projects a Valid value through fn. Invalid outcomes keep their failures.
func Map[T, U any](o Outcome[T], fn func(T) U) Outcome[U] {
	if !o.IsValid() {
		return Outcome[U]{failures: o.failures}
	}
	return Valid(fn(o.value))
}
