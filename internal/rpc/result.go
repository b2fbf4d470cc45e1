package rpc

import (
	apierrors "github.com/yukikurage/crossword-server/internal/errors"
)

// Result is what a handler produces: either a success carrying data or a
// failure carrying a structured error. The zero value is not valid.
type Result struct {
	message string
	data    any
	err     *apierrors.APIError
	cause   error
}

// Success builds a successful result. nil data is sent as an empty object.
func Success(message string, data any) Result {
	return Result{message: message, data: data}
}

// Failure builds a failed result. Errors that are not an *APIError are
// reported to the caller as a generic internal error; the original is kept
// for the server log.
func Failure(err error) Result {
	apiErr, structured := apierrors.As(err)
	r := Result{err: apiErr}
	if !structured {
		r.cause = err
	}
	return r
}

// OK reports whether the result is a success.
func (r Result) OK() bool {
	return r.err == nil
}

// Err returns the structured error of a failure.
func (r Result) Err() *apierrors.APIError {
	return r.err
}

// Cause returns the unstructured error hidden behind an internal failure.
func (r Result) Cause() error {
	return r.cause
}

// Response renders the result for the wire.
func (r Result) Response() Response {
	if r.err != nil {
		return Response{
			Status:  StatusError,
			Message: r.err.Message,
			Data:    ErrorData{Code: r.err.Code, Field: r.err.Field},
		}
	}

	data := r.data
	if data == nil {
		data = struct{}{}
	}
	return Response{
		Status:  StatusSuccess,
		Message: r.message,
		Data:    data,
	}
}
