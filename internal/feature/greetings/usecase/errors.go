// Package usecase implements the business logic for the greetings feature.
package usecase

import "errors"

var (
	// ErrGreetingNotFound is returned when a greeting cannot be found by ID.
	ErrGreetingNotFound = errors.New("greeting not found")

	// ErrNotOwner is returned when a user tries to modify a greeting they did not create.
	ErrNotOwner = errors.New("greeting belongs to another user")

	// ErrMediaRejected is returned when an attached media object fails screening.
	ErrMediaRejected = errors.New("attached media was rejected")
)
