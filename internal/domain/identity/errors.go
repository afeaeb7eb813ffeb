package identity

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrMemberNotFound     = errors.New("member not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
