package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Instructor errors
var (
	ErrInstructorNotFound    = errors.New("instructor not found")
	ErrInstructorUnavailable = errors.New("instructor is not available at this time")
)

// Session booking errors
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSlotTaken           = errors.New("this time slot is already booked")
	ErrInvalidTransition   = errors.New("invalid session status transition")
	ErrSessionNotCompleted = errors.New("can only review completed sessions")
	ErrSessionAlreadyRated = errors.New("session already has a review")
)

// Staged booking errors
var (
	ErrStagedBookingNotFound = errors.New("staged booking not found or expired")
)

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
