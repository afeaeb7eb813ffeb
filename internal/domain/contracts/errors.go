package contracts

import "errors"

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrContractExists   = errors.New("contract already exists for application")
	ErrForbidden        = errors.New("forbidden")
)
