package tutors

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrTutorNotFound = errors.New("tutor not found")
	ErrTutorExists   = errors.New("tutor profile already registered")
	ErrForbidden     = errors.New("forbidden")
)
