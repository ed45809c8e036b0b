package apierror

import (
	"errors"
	"net/http"

	"go-conference-manager/internal/model"
)

type mapping struct {
	target  error
	status  int
	code    string
	message string
}

// mappings is checked in order; wrapped errors match their first sentinel.
var mappings = []mapping{
	{model.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED", "Incorrect email or password"},
	{model.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED", "Could not validate credentials"},
	{model.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED", "Could not validate credentials"},
	{model.ErrInactiveAccount, http.StatusForbidden, "INACTIVE_ACCOUNT", "Inactive user"},
	{model.ErrInsufficientPrivilege, http.StatusForbidden, "FORBIDDEN", "The user doesn't have enough privileges"},
	{model.ErrSelfDeletionForbidden, http.StatusForbidden, "FORBIDDEN", "Users are not allowed to delete themselves"},
	{model.ErrRegistrationDisabled, http.StatusForbidden, "FORBIDDEN", "Open user registration is forbidden on this server"},
	{model.ErrDuplicateEmail, http.StatusConflict, "ALREADY_EXISTS", "A user with this email already exists"},
	{model.ErrDuplicateInstitution, http.StatusConflict, "ALREADY_EXISTS", "An institution with this name already exists"},
	{model.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND", "User not found"},
	{model.ErrInstitutionNotFound, http.StatusNotFound, "NOT_FOUND", "Institution not found"},
	{model.ErrResourceNotFound, http.StatusNotFound, "NOT_FOUND", "Resource not found"},
	{model.ErrInvalidInput, http.StatusBadRequest, "BAD_REQUEST", "Invalid input"},
}

// Internal is the response for errors with no known mapping.
func Internal() *APIError {
	return New("INTERNAL_ERROR", "Unexpected server error", "", http.StatusInternalServerError)
}

// Resolve returns the API representation of err. It reports false when err
// is neither an *APIError nor wraps a known domain error.
func Resolve(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	for _, m := range mappings {
		if !errors.Is(err, m.target) {
			continue
		}

		resolved := New(m.code, m.message, "", m.status)
		if m.target == model.ErrInvalidInput {
			resolved.Details = err.Error()
		}
		return resolved, true
	}

	return nil, false
}
