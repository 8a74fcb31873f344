package model

import "errors"

var (
	// Authentication related errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAlreadyRevoked     = errors.New("token already revoked")

	// Permission/Access related errors
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// Entity related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrRoleNotFound      = errors.New("role not found")
	ErrAuthorNotFound    = errors.New("author not found")
	ErrPublisherNotFound = errors.New("publisher not found")
	ErrBookNotFound      = errors.New("book not found")
	ErrRoleNotAssigned   = errors.New("role not assigned")

	// Storage constraint errors
	ErrConflict        = errors.New("conflict")
	ErrMissingRelation = errors.New("referenced entity does not exist")
	ErrConstraint      = errors.New("constraint violated")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
