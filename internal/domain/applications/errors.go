package applications

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrApplicationNotFound = errors.New("application not found")
	ErrForbidden           = errors.New("forbidden")
	// ErrTutorProfileRequired is distinct from ErrForbidden so clients can
	// redirect the member to profile registration instead of showing a 403.
	ErrTutorProfileRequired   = errors.New("tutor profile required")
	ErrJobNotAvailable        = errors.New("job not available")
	ErrJobNotOpen             = errors.New("job is not open")
	ErrAlreadyApplied         = errors.New("already applied")
	ErrApplicationNotReady    = errors.New("application is not ready")
	ErrApplicationNotAccepted = errors.New("application is not accepted")
)
