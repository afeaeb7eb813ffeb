package contracts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"tutormatch-go/internal/domain/identity"
	jobsdomain "tutormatch-go/internal/domain/jobs"
)

type fakeContractsRepo struct {
	contracts map[string]*Contract
	tutors    map[string]string // member id -> tutor id
}

func newFakeContractsRepo() *fakeContractsRepo {
	return &fakeContractsRepo{
		contracts: make(map[string]*Contract),
		tutors:    make(map[string]string),
	}
}

func (r *fakeContractsRepo) GetContractByID(ctx context.Context, id string) (*Contract, error) {
	contract, ok := r.contracts[id]
	if !ok {
		return nil, ErrContractNotFound
	}
	copied := *contract
	return &copied, nil
}

func (r *fakeContractsRepo) ListByRequester(ctx context.Context, requesterID string) ([]Contract, error) {
	result := make([]Contract, 0)
	for _, contract := range r.contracts {
		if contract.RequesterID == requesterID {
			result = append(result, *contract)
		}
	}
	return result, nil
}

func (r *fakeContractsRepo) ListByTutor(ctx context.Context, tutorID string) ([]Contract, error) {
	result := make([]Contract, 0)
	for _, contract := range r.contracts {
		if contract.TutorID == tutorID {
			result = append(result, *contract)
		}
	}
	return result, nil
}

func (r *fakeContractsRepo) GetTutorIDByMember(ctx context.Context, memberID string) (string, bool, error) {
	tutorID, ok := r.tutors[memberID]
	return tutorID, ok, nil
}

var (
	requesterCaller = identity.Caller{ID: "parent-1", Role: identity.RoleParent}
	tutorCaller     = identity.Caller{ID: "member-1", Role: identity.RoleTutor}
	strangerParent  = identity.Caller{ID: "parent-9", Role: identity.RoleParent}
	strangerTutor   = identity.Caller{ID: "member-9", Role: identity.RoleTutor}
)

func seedContract(repo *fakeContractsRepo, id string) *Contract {
	contract := &Contract{
		ID:            id,
		ApplyID:       "apply-" + id,
		JobID:         "job-1",
		TutorID:       "tutor-1",
		RequesterID:   requesterCaller.ID,
		ContractTitle: "하원 돌봄",
		Payment:       15000,
		PaymentCycle:  "hourly",
		Status:        StatusActive,
	}
	repo.contracts[id] = contract
	return contract
}

func TestListForCaller(t *testing.T) {
	repo := newFakeContractsRepo()
	repo.tutors[tutorCaller.ID] = "tutor-1"
	seedContract(repo, "c1")
	service := NewService(repo)

	asRequester, err := service.ListForCaller(context.Background(), requesterCaller)
	if err != nil {
		t.Fatalf("ListForCaller requester: %v", err)
	}
	if len(asRequester) != 1 {
		t.Fatalf("requester sees %d contracts, want 1", len(asRequester))
	}

	asTutor, err := service.ListForCaller(context.Background(), tutorCaller)
	if err != nil {
		t.Fatalf("ListForCaller tutor: %v", err)
	}
	if len(asTutor) != 1 {
		t.Fatalf("tutor sees %d contracts, want 1", len(asTutor))
	}

	asStranger, err := service.ListForCaller(context.Background(), strangerParent)
	if err != nil {
		t.Fatalf("ListForCaller stranger: %v", err)
	}
	if len(asStranger) != 0 {
		t.Fatalf("stranger sees %d contracts, want 0", len(asStranger))
	}
}

func TestListForTutorWithoutProfile(t *testing.T) {
	repo := newFakeContractsRepo()
	seedContract(repo, "c1")
	service := NewService(repo)

	listed, err := service.ListForCaller(context.Background(), strangerTutor)
	if err != nil {
		t.Fatalf("ListForCaller: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("got %d contracts, want 0", len(listed))
	}
}

func TestGetPartyOnly(t *testing.T) {
	repo := newFakeContractsRepo()
	repo.tutors[tutorCaller.ID] = "tutor-1"
	repo.tutors[strangerTutor.ID] = "tutor-9"
	seedContract(repo, "c1")
	service := NewService(repo)

	if _, err := service.Get(context.Background(), requesterCaller, "c1"); err != nil {
		t.Fatalf("Get as requester: %v", err)
	}
	if _, err := service.Get(context.Background(), tutorCaller, "c1"); err != nil {
		t.Fatalf("Get as tutor: %v", err)
	}

	// Non-parties read not found rather than forbidden, to avoid leaking the
	// contract's existence.
	if _, err := service.Get(context.Background(), strangerParent, "c1"); !errors.Is(err, ErrContractNotFound) {
		t.Fatalf("stranger parent err = %v, want ErrContractNotFound", err)
	}
	if _, err := service.Get(context.Background(), strangerTutor, "c1"); !errors.Is(err, ErrContractNotFound) {
		t.Fatalf("stranger tutor err = %v, want ErrContractNotFound", err)
	}
}

func TestBuildSnapshotsJobTerms(t *testing.T) {
	job := &jobsdomain.Job{
		ID:           "job-1",
		RequesterID:  "parent-1",
		Title:        "하원 돌봄",
		Payment:      20000,
		PaymentCycle: "hourly",
		StartDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	contract := Build("apply-1", "tutor-1", job)
	if err := uuid.Validate(contract.ID); err != nil {
		t.Fatalf("contract id %q: %v", contract.ID, err)
	}
	if contract.ApplyID != "apply-1" || contract.TutorID != "tutor-1" {
		t.Fatalf("parties = %q/%q", contract.ApplyID, contract.TutorID)
	}
	if contract.JobID != job.ID || contract.RequesterID != job.RequesterID {
		t.Fatalf("job linkage = %q/%q", contract.JobID, contract.RequesterID)
	}
	if contract.ContractTitle != job.Title || contract.Payment != job.Payment || contract.PaymentCycle != job.PaymentCycle {
		t.Fatalf("terms not snapshotted: %+v", contract)
	}
	if !contract.StartDate.Equal(job.StartDate) || !contract.EndDate.Equal(job.EndDate) {
		t.Fatal("dates not snapshotted")
	}
	if contract.Status != StatusActive {
		t.Fatalf("status = %q, want %q", contract.Status, StatusActive)
	}
}
