// Package result defines the uniform success/failure value returned by every command.
package result

import (
	"encoding/json"
	"errors"
	"fmt"

	"taskbridge/internal/service"
)

// Kind classifies a failure.
type Kind int

const (
	// Internal covers dispatch and encoding failures.
	Internal Kind = iota

	// ValidationError indicates a missing or malformed input field.
	ValidationError

	// NotFound indicates a name or id could not be resolved.
	NotFound

	// PermissionDenied indicates a write-policy violation. Always terminal.
	PermissionDenied

	// UpstreamError indicates a failed or timed out backend call.
	UpstreamError
)

// String makes Kind satisfy fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case ValidationError:
		return "validation"
	case NotFound:
		return "not_found"
	case PermissionDenied:
		return "permission_denied"
	case UpstreamError:
		return "upstream"
	default:
		return "internal"
	}
}

// Failure is the error half of a Result.
type Failure struct {
	Kind    Kind
	Message string

	// CanTryAnotherApproach false is terminal: the caller must report
	// to the end user instead of retrying.
	CanTryAnotherApproach bool

	// StatusCode is the upstream HTTP status for UpstreamError, 0 otherwise.
	StatusCode int
}

func (f *Failure) Error() string { return f.Message }

// Result is either a success carrying Data or a Failure.
type Result[T any] struct {
	data    T
	failure *Failure
}

// Ok returns a successful result.
func Ok[T any](data T) Result[T] {
	return Result[T]{data: data}
}

// Err returns a failed result.
func Err[T any](kind Kind, message string, canTryAnotherApproach bool) Result[T] {
	return Result[T]{failure: &Failure{
		Kind:                  kind,
		Message:               message,
		CanTryAnotherApproach: canTryAnotherApproach,
	}}
}

// Fail re-types an existing failure so it can be propagated unchanged.
func Fail[T any](f *Failure) Result[T] {
	return Result[T]{failure: f}
}

// Validation returns a retriable ValidationError.
func Validation[T any](message string) Result[T] {
	return Err[T](ValidationError, message, true)
}

// Denied returns a terminal PermissionDenied failure.
func Denied[T any](message string) Result[T] {
	return Err[T](PermissionDenied, message, false)
}

// Retriable reports whether an upstream status is worth another approach.
// Authentication failures and server errors are not.
func Retriable(status int) bool {
	return status != 401 && status < 500
}

// FromError converts a backend error into a failed result.
// op names the operation for the generic message, e.g. "fetch projects".
func FromError[T any](op string, err error) Result[T] {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		return Result[T]{failure: &Failure{
			Kind:                  UpstreamError,
			Message:               fmt.Sprintf("HTTP error! status: %d", apiErr.StatusCode),
			CanTryAnotherApproach: Retriable(apiErr.StatusCode),
			StatusCode:            apiErr.StatusCode,
		}}
	}
	return Err[T](UpstreamError, fmt.Sprintf("Failed to %s: %v", op, err), true)
}

// IsOk reports whether the result is a success.
func (r Result[T]) IsOk() bool { return r.failure == nil }

// Data returns the success value, or the zero value on failure.
func (r Result[T]) Data() T { return r.data }

// Failure returns the failure, or nil on success.
func (r Result[T]) Failure() *Failure { return r.failure }

// Unwrap returns both halves; exactly one of them is meaningful.
//
//	id, fail := res.Unwrap()
//	if fail != nil {
//		return result.Fail[Other](fail)
//	}
func (r Result[T]) Unwrap() (T, *Failure) { return r.data, r.failure }

// Any erases the data type, for handing results to the dispatcher.
func (r Result[T]) Any() Result[any] {
	if r.failure != nil {
		return Result[any]{failure: r.failure}
	}
	return Result[any]{data: r.data}
}

type okWire[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type errWire struct {
	Success               bool   `json:"success"`
	Error                 string `json:"error"`
	CanTryAnotherApproach bool   `json:"canTryAnotherApproach"`
}

// MarshalJSON encodes the tagged union in the shape the tool host expects.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.failure != nil {
		return json.Marshal(errWire{
			Success:               false,
			Error:                 r.failure.Message,
			CanTryAnotherApproach: r.failure.CanTryAnotherApproach,
		})
	}
	return json.Marshal(okWire[T]{Success: true, Data: r.data})
}
