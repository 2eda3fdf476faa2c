package domain

import "errors"

// Validation class.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrSelfDelete   = errors.New("you cannot delete your own admin account through this interface")
)

// Authentication class.
var (
	ErrUnauthenticated    = errors.New("missing or malformed authorization header")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authorization class.
var ErrForbidden = errors.New("access forbidden")

// Not found class.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrBlobNotFound    = errors.New("file not found")
)

// Conflict class.
var ErrEmailTaken = errors.New("email is already in use")
