// Package domain defines domain-level errors for the accounts feature.
package domain

import "errors"

// Domain errors for account operations.
// These errors represent business logic failures and should be handled appropriately by upper layers.
var (
	// ErrUserNotFound indicates that no user was found with the given criteria.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists indicates that a user with the given email already exists.
	// This is returned during registration when the unique constraint is violated.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials indicates that the provided credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidOrExpiredCode indicates that a confirmation code did not match or
	// has expired. The two cases are deliberately not distinguished so responses
	// do not leak which check failed.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired confirmation code")

	// ErrEmailNotConfirmed indicates a login attempt on an account that has not
	// completed email confirmation.
	ErrEmailNotConfirmed = errors.New("email not confirmed")

	// ErrAlreadyConfirmed indicates an attempt to issue a confirmation code for
	// an account that is already confirmed.
	ErrAlreadyConfirmed = errors.New("email already confirmed")

	// ErrInvalidRefreshToken indicates that a refresh token is unknown or revoked.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrUnknownRole indicates an attempt to assign a role outside the known set.
	ErrUnknownRole = errors.New("unknown role")
)
