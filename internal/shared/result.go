package shared

// Result is the two-variant outcome of a business operation: Left carries an
// expected failure, Right carries the success payload. Exactly one variant is
// set and neither changes after construction. Use-cases return Result instead
// of raising for expected conditions (not found, forbidden, conflict);
// infrastructure faults still travel as ordinary errors to the boundary.
type Result[E any, T any] struct {
	err    E
	value  T
	isLeft bool
}

// Left constructs a failure result.
func Left[E any, T any](err E) Result[E, T] {
	return Result[E, T]{err: err, isLeft: true}
}

// Right constructs a success result.
func Right[E any, T any](value T) Result[E, T] {
	return Result[E, T]{value: value}
}

// IsLeft reports whether the result holds a failure.
func (r Result[E, T]) IsLeft() bool {
	return r.isLeft
}

// IsRight reports whether the result holds a success value.
func (r Result[E, T]) IsRight() bool {
	return !r.isLeft
}

// Err returns the failure payload. Callers must check IsLeft first; reading
// the wrong variant yields the zero value, never a panic.
func (r Result[E, T]) Err() E {
	return r.err
}

// Value returns the success payload. Callers must check IsRight first;
// reading the wrong variant yields the zero value, never a panic.
func (r Result[E, T]) Value() T {
	return r.value
}
