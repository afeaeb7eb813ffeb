package jobs

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrJobNotFound       = errors.New("job not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrForbidden         = errors.New("forbidden")
	ErrJobNotEditable    = errors.New("job is no longer editable")
	ErrInvalidTransition = errors.New("invalid status transition")
)
