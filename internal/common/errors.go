package common

import "errors"

var (
	// Validation errors: reported to the caller, no state change.
	ErrInvalidUsername = errors.New("invalid username")
	ErrSelfFollow      = errors.New("cannot follow yourself")
	ErrSelfUnfollow    = errors.New("cannot unfollow yourself")
	ErrMalformedFrame  = errors.New("malformed frame")

	// Conflict errors: reported to the caller, no state change.
	ErrAlreadyActive    = errors.New("user already has an active session")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
	ErrNotRegistered    = errors.New("user not registered")
	ErrRequesterUnknown = errors.New("requester not registered")
	ErrTargetUnknown    = errors.New("target not registered")

	// Persistence faults: the durable log for a record could not be written.
	ErrPersistence = errors.New("persistence failure")

	// Mailbox lifecycle.
	ErrMailboxClosed = errors.New("mailbox closed")
)
