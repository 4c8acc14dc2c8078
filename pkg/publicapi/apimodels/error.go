package apimodels

import (
	"github.com/sfdn-project/oracle-gateway/pkg/models"
)

// APIError is the one error shape the gateway ever writes to a client.
//
// Every failed request, whichever layer it failed in, is rendered as this
// structure so callers can branch on Code programmatically and surface
// Message to humans. RequestID ties the response back to the server logs.
type APIError struct {
	// HTTPStatusCode is the status the response was sent with. It is
	// repeated in the body so the envelope stays meaningful once copied
	// out of its response.
	HTTPStatusCode int `json:"Status"`

	// Message is a short human-readable description of what went wrong.
	Message string `json:"Message"`

	// RequestID identifies the request in the gateway's logs.
	RequestID string `json:"RequestID"`

	// Code is the machine-readable error class.
	Code string `json:"Code"`

	// Component names the layer that produced the error.
	Component string `json:"Component"`

	// Hint suggests what the caller might do about it.
	Hint string `json:"Hint,omitempty"`

	// Details carries error-specific key-value context, such as the
	// offending field name or the program's simulation logs.
	Details map[string]string `json:"Details,omitempty"`
}

// NewAPIError creates a new APIError with the given HTTP status code and message.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{
		HTTPStatusCode: statusCode,
		Message:        message,
		Details:        make(map[string]string),
	}
}

// Error implements the error interface, allowing APIError to be used as a standard Go error.
func (e *APIError) Error() string {
	return e.Message
}

// FromBaseError converts a classified gateway error to its wire form.
func FromBaseError(err *models.BaseError) *APIError {
	return &APIError{
		HTTPStatusCode: err.HTTPStatusCode(),
		Message:        err.Error(),
		Code:           string(err.Code()),
		Component:      err.Component(),
		Hint:           err.Hint(),
		Details:        err.Details(),
	}
}

var _ error = (*APIError)(nil)
