package data

import "errors"

var (
	// ErrInvalidID is returned when a caller-supplied id string is not a
	// well-formed ObjectID hex string.
	ErrInvalidID = errors.New("invalid id")

	// ErrEmailTaken is returned by CreateUser when the email already exists
	// (unique index violation).
	ErrEmailTaken = errors.New("email already registered")

	// ErrAlreadyFollowing is returned by Follow when the
	// (follower, followee) pair already exists. Kept distinct from other
	// store errors so callers can treat a duplicate follow as benign.
	ErrAlreadyFollowing = errors.New("already following")
)
