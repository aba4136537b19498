package domain

import "errors"

// Record and habit errors
var (
	ErrEntryNotFound = errors.New("daily entry not found")
	ErrHabitNotFound = errors.New("habit not found")
	ErrEmptyLabel    = errors.New("habit label must not be empty")
)

// Auth errors
var (
	// ErrAuthDenied is an explicit authorization rejection (401/403) and is
	// unrecoverable for the current credential.
	ErrAuthDenied = errors.New("authorization denied")

	// ErrNotAuthorized means no session is held at all; the caller must log in.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrTemporarilyUnavailable means a held session could not be refreshed
	// right now; the session survives and the operation may be retried.
	ErrTemporarilyUnavailable = errors.New("temporarily unavailable")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)
