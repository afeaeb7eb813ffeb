package contracts

import "context"

// Repository covers the read side only. Contract rows are written once, by
// the application confirm transaction.
type Repository interface {
	GetContractByID(ctx context.Context, id string) (*Contract, error)
	ListByRequester(ctx context.Context, requesterID string) ([]Contract, error)
	ListByTutor(ctx context.Context, tutorID string) ([]Contract, error)
	// GetTutorIDByMember resolves the caller's tutor profile; found is false
	// when the member never registered one.
	GetTutorIDByMember(ctx context.Context, memberID string) (tutorID string, found bool, err error)
}
