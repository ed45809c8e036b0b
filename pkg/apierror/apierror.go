package apierror

import (
	"fmt"
	"net/http"
)

// APIError is an error that already knows its HTTP representation.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

func BadRequest(message string, details string) *APIError {
	return New("BAD_REQUEST", message, details, http.StatusBadRequest)
}

// Validation reports payload fields that failed their constraints.
func Validation(details string) *APIError {
	return New("BAD_REQUEST", "request validation failed", details, http.StatusBadRequest)
}
