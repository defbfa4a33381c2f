package auth

import "errors"

// Authentication errors.
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrNoPrincipal  = errors.New("no authenticated principal")
)
