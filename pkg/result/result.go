// Package result provides a tagged success-or-failure value used by every
// remote-facing operation of the gote client in place of (value, error) pairs
// at layer boundaries.
//
// A Result holds exactly one of its two payloads. The unused side is
// structurally absent: reading it is a programming error and panics with a
// *ContractError instead of returning a zero value.
package result

import "fmt"

// Result is either a success carrying S or a failure carrying F.
//
// The zero Result is in neither state; every accessor on it panics. Build
// values with Success or Failure.
type Result[S, F any] struct {
	success *S
	failure *F
}

// Success returns a Result in the success state.
func Success[S, F any](s S) Result[S, F] {
	return Result[S, F]{success: &s}
}

// Failure returns a Result in the failure state.
func Failure[S, F any](f F) Result[S, F] {
	return Result[S, F]{failure: &f}
}

// ContractError is the panic value raised when a Result is read on the side
// it does not hold.
type ContractError struct {
	Want string // side that was requested
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("result: %s requested on a result that does not hold one", e.Want)
}

// IsSuccess reports whether r holds a success payload.
func (r Result[S, F]) IsSuccess() bool { return r.success != nil }

// IsFailure reports whether r holds a failure payload.
func (r Result[S, F]) IsFailure() bool { return r.failure != nil }

// GetSuccess returns the success payload. It panics with *ContractError when r
// is a failure.
func (r Result[S, F]) GetSuccess() S {
	if r.success == nil {
		panic(&ContractError{Want: "success"})
	}
	return *r.success
}

// GetFailure returns the failure payload. It panics with *ContractError when r
// is a success.
func (r Result[S, F]) GetFailure() F {
	if r.failure == nil {
		panic(&ContractError{Want: "failure"})
	}
	return *r.failure
}

// Unpack returns both sides plus the state flag, with the zero value standing
// in for the absent side. It exists for callers that prefer Go's
// comma-ok style and never panics on a well-formed Result.
func (r Result[S, F]) Unpack() (S, F, bool) {
	var (
		s S
		f F
	)
	r.check()
	if r.success != nil {
		return *r.success, f, true
	}
	return s, *r.failure, false
}

// Match invokes exactly one of the callbacks with the held payload.
func (r Result[S, F]) Match(onSuccess func(S), onFailure func(F)) {
	r.check()
	if r.success != nil {
		onSuccess(*r.success)
		return
	}
	onFailure(*r.failure)
}

func (r Result[S, F]) String() string {
	switch {
	case r.success != nil:
		return fmt.Sprintf("Success(%v)", *r.success)
	case r.failure != nil:
		return fmt.Sprintf("Failure(%v)", *r.failure)
	default:
		return "Result(<unset>)"
	}
}

func (r Result[S, F]) check() {
	if r.success == nil && r.failure == nil {
		panic(&ContractError{Want: "a payload"})
	}
}

// Match folds r into a single value by invoking exactly one branch.
func Match[S, F, T any](r Result[S, F], onSuccess func(S) T, onFailure func(F) T) T {
	r.check()
	if r.success != nil {
		return onSuccess(*r.success)
	}
	return onFailure(*r.failure)
}

// Map applies fn to a success payload. A failure passes through unchanged.
func Map[S, F, T any](r Result[S, F], fn func(S) T) Result[T, F] {
	r.check()
	if r.success != nil {
		return Success[T, F](fn(*r.success))
	}
	return Result[T, F]{failure: r.failure}
}

// MapError applies fn to a failure payload. A success passes through unchanged.
func MapError[S, F, T any](r Result[S, F], fn func(F) T) Result[S, T] {
	r.check()
	if r.failure != nil {
		return Failure[S, T](fn(*r.failure))
	}
	return Result[S, T]{success: r.success}
}

// Equal reports whether a and b are in the same state with equal payloads.
func Equal[S, F comparable](a, b Result[S, F]) bool {
	return EqualFunc(a, b,
		func(x, y S) bool { return x == y },
		func(x, y F) bool { return x == y },
	)
}

// EqualFunc is Equal for payloads that are not comparable with ==.
func EqualFunc[S, F any](a, b Result[S, F], eqS func(S, S) bool, eqF func(F, F) bool) bool {
	switch {
	case a.success != nil && b.success != nil:
		return eqS(*a.success, *b.success)
	case a.failure != nil && b.failure != nil:
		return eqF(*a.failure, *b.failure)
	default:
		return a.success == nil && a.failure == nil && b.success == nil && b.failure == nil
	}
}

// Of lifts a conventional (value, error) pair into a Result. A non-nil err
// always wins.
func Of[S any](v S, err error) Result[S, error] {
	if err != nil {
		return Failure[S, error](err)
	}
	return Success[S, error](v)
}
