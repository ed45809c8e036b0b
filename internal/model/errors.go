package model

import (
	"errors"
	"fmt"
)

// ErrResourceNotFound is the category every lookup miss wraps.
var ErrResourceNotFound = errors.New("resource not found")

var (
	// Authentication
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("unauthenticated")

	// Authorization
	ErrInactiveAccount       = errors.New("inactive account")
	ErrInsufficientPrivilege = errors.New("insufficient privilege")
	ErrSelfDeletionForbidden = errors.New("self deletion forbidden")
	ErrRegistrationDisabled  = errors.New("open registration disabled")

	// Users
	ErrUserNotFound   = fmt.Errorf("user %w", ErrResourceNotFound)
	ErrDuplicateEmail = errors.New("email already registered")

	// Institutions
	ErrInstitutionNotFound  = fmt.Errorf("institution %w", ErrResourceNotFound)
	ErrDuplicateInstitution = errors.New("institution already exists")

	// Generic
	ErrInvalidInput = errors.New("invalid input")
)
