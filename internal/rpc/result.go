package rpc

import (
	"context"
	"errors"
)

// RemoteError is a failure reported by the backend in a reply's error field.
type RemoteError struct {
	Procedure Procedure
	Message   string
}

func (e *RemoteError) Error() string {
	return string(e.Procedure) + ": " + e.Message
}

var errNoOutcome = errors.New("call failed without an error")

// Result is the single outcome of a call: a value or an error, never both.
type Result[T any] struct {
	value T
	err   error
}

// Ok returns a successful Result.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err returns a failed Result. A nil err still yields a failure.
func Err[T any](err error) Result[T] {
	if err == nil {
		err = errNoOutcome
	}
	return Result[T]{err: err}
}

// IsOk reports whether the call succeeded.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Value returns the success value, or the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure, or nil on success.
func (r Result[T]) Err() error {
	return r.err
}

// Unwrap returns the result as a conventional (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// Message returns the text to show a user for a failed call: the remote
// message when the backend supplied one, else the error string. It is
// empty for a successful result.
func (r Result[T]) Message() string {
	if r.err == nil {
		return ""
	}
	var remote *RemoteError
	if errors.As(r.err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return r.err.Error()
}

// Go runs fn asynchronously. The returned channel delivers exactly one
// Result and is then closed.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		v, err := fn(ctx)
		if err != nil {
			ch <- Err[T](err)
			return
		}
		ch <- Ok(v)
	}()
	return ch
}

// Await waits for the outcome of a call started with Go. It returns false
// if ctx ends first, in which case the outcome is discarded.
func Await[T any](ctx context.Context, ch <-chan Result[T]) (Result[T], bool) {
	select {
	case <-ctx.Done():
		return Result[T]{}, false
	case res, ok := <-ch:
		if !ok {
			return Err[T](errNoOutcome), true
		}
		return res, true
	}
}
