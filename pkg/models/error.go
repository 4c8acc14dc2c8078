package models

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	BadRequestError   ErrorCode = "BadRequest"
	InternalError     ErrorCode = "InternalError"
	NotFoundError     ErrorCode = "NotFound"
	ValidationFailed  ErrorCode = "ValidationFailed"
	InvalidCredential ErrorCode = "InvalidCredential"
	TooManyRequests   ErrorCode = "TooManyRequests"
	NetworkFailure    ErrorCode = "NetworkFailure"
	ProgramRejected   ErrorCode = "ProgramRejected"
)

type HasHint interface {
	// Hint A human-readable string that advises the caller on how they might solve the error.
	Hint() string
}

type HasRetryable interface {
	// Retryable Whether the error could be retried, assuming the same input and
	// gateway configuration; i.e. the error is transient and due to network
	// capacity or a cluster outage rather than the request itself.
	Retryable() bool
}

type HasDetails interface {
	// Details An extra set of metadata provided by the error.
	Details() map[string]string
}

type HasCode interface {
	// Code a unique code classifying the error
	Code() ErrorCode
}

// HasHTTPStatusCode is an interface that defines a method for retrieving
// an HTTP status code associated with an error.
type HasHTTPStatusCode interface {
	// HTTPStatusCode returns the HTTP status code associated with the error.
	// This can be useful for mapping internal errors to appropriate HTTP responses.
	HTTPStatusCode() int
}

// BaseError is a custom error type that carries a classification code,
// an optional hint, retryability, the originating component and extra
// details alongside the message. It implements the error interface plus
// the Has* interfaces above, and is the single error currency between
// the ledger client, the request translators and the HTTP layer.
type BaseError struct {
	message        string
	hint           string
	retryable      bool
	component      string
	httpStatusCode int
	details        map[string]string
	code           ErrorCode
}

// IsBaseError is a helper function that checks if an error is a BaseError.
func IsBaseError(err error) bool {
	var baseError *BaseError
	ok := errors.As(err, &baseError)
	return ok
}

// NewBaseError is a constructor function that creates a new BaseError with
// only the message field set.
func NewBaseError(format string, a ...any) *BaseError {
	return &BaseError{
		httpStatusCode: 0,
		component:      "Gateway",
		message:        fmt.Sprintf(format, a...),
	}
}

// NewMissingFieldError reports a required request field that was absent or
// empty. The field name travels in the details map so clients can act on it.
func NewMissingFieldError(field string) *BaseError {
	return NewBaseError("missing required field %q", field).
		WithCode(ValidationFailed).
		WithDetails(map[string]string{"Field": field})
}

// NewInvalidFieldError reports a request field whose value could not be
// interpreted, with the reason in the message.
func NewInvalidFieldError(field string, format string, a ...any) *BaseError {
	return NewBaseError("invalid field %q: %s", field, fmt.Sprintf(format, a...)).
		WithCode(ValidationFailed).
		WithDetails(map[string]string{"Field": field})
}

// WithHint is a method that sets the hint field of BaseError and returns
// the BaseError itself for chaining.
func (e *BaseError) WithHint(hint string) *BaseError {
	e.hint = hint
	return e
}

// WithRetryable is a method that sets the retryable field of BaseError and
// returns the BaseError itself for chaining.
func (e *BaseError) WithRetryable() *BaseError {
	e.retryable = true
	return e
}

// WithDetails is a method that sets the details field of BaseError and
// returns the BaseError itself for chaining.
func (e *BaseError) WithDetails(details map[string]string) *BaseError {
	e.details = details
	return e
}

// WithCode is a method that sets the code field of BaseError and
// returns the BaseError itself for chaining
func (e *BaseError) WithCode(code ErrorCode) *BaseError {
	e.code = code
	return e
}

// WithHTTPStatusCode overrides the HTTP status code inferred from the error
// code, for the rare handler that needs a non-default mapping.
func (e *BaseError) WithHTTPStatusCode(statusCode int) *BaseError {
	e.httpStatusCode = statusCode
	return e
}

// WithComponent is a method that sets the component field of BaseError and
// returns the BaseError itself for chaining. This method allows specifying
// which component of the system generated the error, providing more context
// for debugging and error handling.
func (e *BaseError) WithComponent(component string) *BaseError {
	e.component = component
	return e
}

// Error is a method that returns the message field of BaseError. This
// method makes BaseError satisfy the error interface.
func (e *BaseError) Error() string {
	return e.message
}

// Hint is a method that returns the hint field of BaseError.
func (e *BaseError) Hint() string {
	return e.hint
}

// Retryable is a method that returns the retryable field of BaseError.
func (e *BaseError) Retryable() bool {
	return e.retryable
}

// Details is a method that returns the details field of BaseError.
func (e *BaseError) Details() map[string]string {
	return e.details
}

// Code returns a unique code to identify the error
func (e *BaseError) Code() ErrorCode {
	return e.code
}

// Component is a method that returns the component field of BaseError.
func (e *BaseError) Component() string {
	return e.component
}

// HTTPStatusCode returns the explicitly set status code, or the one
// inferred from the error code when none was set.
func (e *BaseError) HTTPStatusCode() int {
	if e.httpStatusCode != 0 {
		return e.httpStatusCode
	}
	return inferHTTPStatusCode(e.code)
}

// inferHTTPStatusCode maps error classes onto the gateway's response contract:
// caller mistakes are 4xx, cluster unreachability is 503, and a program-level
// rejection travels as 502 because the upstream program, not this process,
// refused the request.
func inferHTTPStatusCode(code ErrorCode) int {
	switch code {
	case BadRequestError, ValidationFailed, InvalidCredential:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case TooManyRequests:
		return http.StatusTooManyRequests
	case NetworkFailure:
		return http.StatusServiceUnavailable
	case ProgramRejected:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func IsErrorWithCode(err error, code ErrorCode) bool {
	var baseErr *BaseError
	if errors.As(err, &baseErr) {
		errCode := baseErr.Code()
		if errCode == code {
			return true
		}
	}
	return false
}
