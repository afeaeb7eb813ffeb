package contracts

import (
	"context"

	"tutormatch-go/internal/domain/identity"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListForCaller returns the contracts the caller is party to, on whichever
// side. Downstream consumers treat these as read-only financial inputs.
func (s *Service) ListForCaller(ctx context.Context, caller identity.Caller) ([]Contract, error) {
	if caller.IsParent() {
		return s.repo.ListByRequester(ctx, caller.ID)
	}

	tutorID, found, err := s.repo.GetTutorIDByMember(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		return []Contract{}, nil
	}
	return s.repo.ListByTutor(ctx, tutorID)
}

// Get returns a contract only to its requester or its tutor.
func (s *Service) Get(ctx context.Context, caller identity.Caller, contractID string) (*Contract, error) {
	contract, err := s.repo.GetContractByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	if caller.IsParent() {
		if contract.RequesterID != caller.ID {
			return nil, ErrContractNotFound
		}
		return contract, nil
	}

	tutorID, found, err := s.repo.GetTutorIDByMember(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if !found || contract.TutorID != tutorID {
		return nil, ErrContractNotFound
	}
	return contract, nil
}
