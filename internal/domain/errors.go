package domain

import "errors"

// Sentinel errors shared by services, repositories and the HTTP layer.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicate        = errors.New("already registered for this activity")
	ErrAlreadyCheckedIn = errors.New("registration is already checked in")
	ErrCapacityReached  = errors.New("activity is full")
	ErrForbidden        = errors.New("forbidden")
	ErrUnauthorized     = errors.New("unauthorized")
)

// ErrBusy is returned by the check-in desk when a lookup or confirmation is in flight.
var ErrBusy = errors.New("check-in desk is busy")

// ErrPushNotConfigured means the push channel has no credential configured.
var ErrPushNotConfigured = errors.New("push messaging is not configured")
