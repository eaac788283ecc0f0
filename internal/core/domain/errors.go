package domain

import "errors"

var (
	// ErrValidation is wrapped by service-level input failures; the HTTP
	// layer renders the wrapped message with a 400.
	ErrValidation = errors.New("validation failed")

	ErrUserExists         = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrSweetExists   = errors.New("sweet with this name already exists")
	ErrSweetNotFound = errors.New("sweet not found")
	ErrOutOfStock    = errors.New("sweet is out of stock")
	ErrEmptyUpdate   = errors.New("no fields to update")
)
