package handler

import (
	applicationsdomain "tutormatch-go/internal/domain/applications"
	contractsdomain "tutormatch-go/internal/domain/contracts"
	identitydomain "tutormatch-go/internal/domain/identity"
	jobsdomain "tutormatch-go/internal/domain/jobs"
	tutorsdomain "tutormatch-go/internal/domain/tutors"
	"tutormatch-go/pkg/logger"
)

// TokenIssuer mints access tokens for signed-in members. Implemented by the
// auth middleware so the secret lives in one place.
type TokenIssuer interface {
	IssueToken(member *identitydomain.Member) (string, error)
}

type Handlers struct {
	Identity     *identitydomain.Service
	Tutors       *tutorsdomain.Service
	Jobs         *jobsdomain.Service
	Applications *applicationsdomain.Service
	Contracts    *contractsdomain.Service

	tokens TokenIssuer
	log    logger.Logger
}

func New(
	identityService *identitydomain.Service,
	tutorsService *tutorsdomain.Service,
	jobsService *jobsdomain.Service,
	applicationsService *applicationsdomain.Service,
	contractsService *contractsdomain.Service,
	tokens TokenIssuer,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Identity:     identityService,
		Tutors:       tutorsService,
		Jobs:         jobsService,
		Applications: applicationsService,
		Contracts:    contractsService,
		tokens:       tokens,
		log:          log,
	}
}
