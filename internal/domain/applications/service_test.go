package applications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractsdomain "tutormatch-go/internal/domain/contracts"
	"tutormatch-go/internal/domain/identity"
	jobsdomain "tutormatch-go/internal/domain/jobs"
	tutorsdomain "tutormatch-go/internal/domain/tutors"
)

type fakeApplicationsRepo struct {
	applications map[string]*Application
	jobs         map[string]*jobsdomain.Job
	tutors       map[string]*tutorsdomain.Tutor // keyed by member id
	contracts    map[string]*contractsdomain.Contract

	failCreateContract  error
	beforeUpdateMessage func()
}

func newFakeApplicationsRepo() *fakeApplicationsRepo {
	return &fakeApplicationsRepo{
		applications: make(map[string]*Application),
		jobs:         make(map[string]*jobsdomain.Job),
		tutors:       make(map[string]*tutorsdomain.Tutor),
		contracts:    make(map[string]*contractsdomain.Contract),
	}
}

func (r *fakeApplicationsRepo) snapshot() *fakeApplicationsRepo {
	copied := newFakeApplicationsRepo()
	copied.failCreateContract = r.failCreateContract
	for id, application := range r.applications {
		a := *application
		copied.applications[id] = &a
	}
	for id, job := range r.jobs {
		j := *job
		copied.jobs[id] = &j
	}
	for id, tutor := range r.tutors {
		t := *tutor
		copied.tutors[id] = &t
	}
	for id, contract := range r.contracts {
		c := *contract
		copied.contracts[id] = &c
	}
	return copied
}

// Transaction mimics rollback: on error the maps are restored from a
// snapshot taken before fn ran.
func (r *fakeApplicationsRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	before := r.snapshot()
	if err := fn(r); err != nil {
		r.applications = before.applications
		r.jobs = before.jobs
		r.tutors = before.tutors
		r.contracts = before.contracts
		return err
	}
	return nil
}

func (r *fakeApplicationsRepo) GetApplicationByID(ctx context.Context, id string) (*Application, error) {
	application, ok := r.applications[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	copied := *application
	return &copied, nil
}

func (r *fakeApplicationsRepo) GetByTutorAndJob(ctx context.Context, tutorID, jobID string) (*Application, error) {
	for _, application := range r.applications {
		if application.TutorID == tutorID && application.TutorJobID == jobID {
			copied := *application
			return &copied, nil
		}
	}
	return nil, ErrApplicationNotFound
}

func (r *fakeApplicationsRepo) CreateApplication(ctx context.Context, application *Application) error {
	for _, existing := range r.applications {
		if existing.TutorID == application.TutorID && existing.TutorJobID == application.TutorJobID {
			return ErrAlreadyApplied
		}
	}
	now := time.Now().UTC()
	application.CreatedAt = now
	application.UpdatedAt = now
	copied := *application
	r.applications[application.ID] = &copied
	return nil
}

func (r *fakeApplicationsRepo) UpdateMessage(ctx context.Context, applicationID, message string) (bool, error) {
	if r.beforeUpdateMessage != nil {
		r.beforeUpdateMessage()
	}
	application, ok := r.applications[applicationID]
	if !ok || application.Status != StatusReady {
		return false, nil
	}
	application.Message = message
	application.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *fakeApplicationsRepo) UpdateApplicationStatus(ctx context.Context, applicationID string, from, to Status) (bool, error) {
	application, ok := r.applications[applicationID]
	if !ok || application.Status != from {
		return false, nil
	}
	application.Status = to
	return true, nil
}

func (r *fakeApplicationsRepo) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	result := make([]Application, 0)
	for _, application := range r.applications {
		if application.TutorJobID == jobID {
			result = append(result, *application)
		}
	}
	return result, nil
}

func (r *fakeApplicationsRepo) ListByTutor(ctx context.Context, tutorID string) ([]Application, error) {
	result := make([]Application, 0)
	for _, application := range r.applications {
		if application.TutorID == tutorID {
			result = append(result, *application)
		}
	}
	return result, nil
}

func (r *fakeApplicationsRepo) RejectReadyByJob(ctx context.Context, jobID, exceptID string) (int64, error) {
	var count int64
	for _, application := range r.applications {
		if application.TutorJobID == jobID && application.ID != exceptID && application.Status == StatusReady {
			application.Status = StatusReject
			count++
		}
	}
	return count, nil
}

func (r *fakeApplicationsRepo) GetJob(ctx context.Context, jobID string) (*jobsdomain.Job, error) {
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, jobsdomain.ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (r *fakeApplicationsRepo) GetJobForUpdate(ctx context.Context, jobID string) (*jobsdomain.Job, error) {
	return r.GetJob(ctx, jobID)
}

func (r *fakeApplicationsRepo) MarkJobMatched(ctx context.Context, jobID, tutorID string, at time.Time) (bool, error) {
	job, ok := r.jobs[jobID]
	if !ok || job.Status != jobsdomain.StatusOpen {
		return false, nil
	}
	job.Status = jobsdomain.StatusMatched
	job.MatchedTutorID = &tutorID
	job.MatchedAt = &at
	return true, nil
}

func (r *fakeApplicationsRepo) GetTutorByMember(ctx context.Context, memberID string) (*tutorsdomain.Tutor, error) {
	tutor, ok := r.tutors[memberID]
	if !ok {
		return nil, tutorsdomain.ErrTutorNotFound
	}
	copied := *tutor
	return &copied, nil
}

func (r *fakeApplicationsRepo) CreateContract(ctx context.Context, contract *contractsdomain.Contract) error {
	if r.failCreateContract != nil {
		return r.failCreateContract
	}
	for _, existing := range r.contracts {
		if existing.ApplyID == contract.ApplyID {
			return contractsdomain.ErrContractExists
		}
	}
	copied := *contract
	r.contracts[contract.ID] = &copied
	return nil
}

var (
	requester      = identity.Caller{ID: "parent-1", Role: identity.RoleParent}
	otherRequester = identity.Caller{ID: "parent-2", Role: identity.RoleParent}
	tutorMember    = identity.Caller{ID: "member-1", Role: identity.RoleTutor}
	otherTutor     = identity.Caller{ID: "member-2", Role: identity.RoleTutor}
)

func seedTutor(repo *fakeApplicationsRepo, caller identity.Caller, tutorID string) {
	repo.tutors[caller.ID] = &tutorsdomain.Tutor{
		ID:       tutorID,
		MemberID: caller.ID,
		Name:     "튜터",
		Gender:   "female",
		Regions:  "서울 강남구",
	}
}

func seedOpenJob(repo *fakeApplicationsRepo, jobID, requesterID string) *jobsdomain.Job {
	job := &jobsdomain.Job{
		ID:           jobID,
		RequesterID:  requesterID,
		Title:        "하원 돌봄",
		Payment:      15000,
		PaymentCycle: "hourly",
		StartDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:       jobsdomain.StatusOpen,
	}
	repo.jobs[jobID] = job
	return job
}

func TestCreateApplication(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	application, err := service.Create(context.Background(), tutorMember, "job-1", "지원합니다")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if application.Status != StatusReady {
		t.Fatalf("status = %q, want %q", application.Status, StatusReady)
	}
	if application.TutorID != "tutor-1" || application.TutorJobID != "job-1" {
		t.Fatalf("unexpected application: %+v", application)
	}
}

func TestCreateApplicationRequiresTutorRole(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	if _, err := service.Create(context.Background(), requester, "job-1", ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestCreateApplicationRequiresProfile(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	// Tutor role but no registered profile.
	if _, err := service.Create(context.Background(), tutorMember, "job-1", ""); !errors.Is(err, ErrTutorProfileRequired) {
		t.Fatalf("err = %v, want ErrTutorProfileRequired", err)
	}
}

func TestCreateApplicationJobMustBeOpen(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	job := seedOpenJob(repo, "job-1", requester.ID)
	job.Status = jobsdomain.StatusRegistered
	service := NewService(repo)

	if _, err := service.Create(context.Background(), tutorMember, "job-1", ""); !errors.Is(err, ErrJobNotAvailable) {
		t.Fatalf("err = %v, want ErrJobNotAvailable", err)
	}
}

func TestCreateApplicationDuplicate(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	if _, err := service.Create(context.Background(), tutorMember, "job-1", "첫 지원"); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := service.Create(context.Background(), tutorMember, "job-1", "재지원"); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("err = %v, want ErrAlreadyApplied", err)
	}
}

func TestCreateApplicationMessageTooLong(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	long := strings.Repeat("가", 2001)
	if _, err := service.Create(context.Background(), tutorMember, "job-1", long); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	// Exactly at the limit is fine; the count is runes, not bytes.
	ok := strings.Repeat("가", 2000)
	if _, err := service.Create(context.Background(), tutorMember, "job-1", ok); err != nil {
		t.Fatalf("Create at limit: %v", err)
	}
}

func TestListForJobOwnerOnly(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	if _, err := service.Create(context.Background(), tutorMember, "job-1", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	listed, err := service.ListForJob(context.Background(), requester, "job-1")
	if err != nil {
		t.Fatalf("ListForJob: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("got %d applications, want 1", len(listed))
	}

	if _, err := service.ListForJob(context.Background(), otherRequester, "job-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other requester err = %v, want ErrForbidden", err)
	}
	if _, err := service.ListForJob(context.Background(), tutorMember, "job-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("tutor err = %v, want ErrForbidden", err)
	}
}

func TestUpdateMessageOnlyWhileReady(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	application, err := service.Create(context.Background(), tutorMember, "job-1", "처음")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := service.UpdateMessage(context.Background(), tutorMember, application.ID, "수정했습니다")
	if err != nil {
		t.Fatalf("UpdateMessage: %v", err)
	}
	if updated.Message != "수정했습니다" {
		t.Fatalf("message = %q", updated.Message)
	}

	repo.applications[application.ID].Status = StatusAccept
	if _, err := service.UpdateMessage(context.Background(), tutorMember, application.ID, "늦은 수정"); !errors.Is(err, ErrApplicationNotReady) {
		t.Fatalf("err = %v, want ErrApplicationNotReady", err)
	}
}

func TestUpdateMessageLosesRaceWithDecision(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	application, err := service.Create(context.Background(), tutorMember, "job-1", "처음")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The requester accepts between the service's read and its write.
	repo.beforeUpdateMessage = func() {
		repo.applications[application.ID].Status = StatusAccept
	}

	if _, err := service.UpdateMessage(context.Background(), tutorMember, application.ID, "늦은 수정"); !errors.Is(err, ErrApplicationNotReady) {
		t.Fatalf("err = %v, want ErrApplicationNotReady", err)
	}
	if got := repo.applications[application.ID].Message; got != "처음" {
		t.Fatalf("message = %q, want untouched", got)
	}
}

func TestUpdateMessageOwnerOnly(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	seedTutor(repo, otherTutor, "tutor-2")
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	application, err := service.Create(context.Background(), tutorMember, "job-1", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := service.UpdateMessage(context.Background(), otherTutor, application.ID, "남의 지원서"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestDecideAccept(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	application, err := service.Create(context.Background(), tutorMember, "job-1", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	decided, err := service.Decide(context.Background(), requester, application.ID, DecisionAccept)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Status != StatusAccept {
		t.Fatalf("status = %q, want %q", decided.Status, StatusAccept)
	}

	// A decided application cannot be decided again.
	if _, err := service.Decide(context.Background(), requester, application.ID, DecisionReject); !errors.Is(err, ErrApplicationNotReady) {
		t.Fatalf("second decision err = %v, want ErrApplicationNotReady", err)
	}
}

func TestDecideAuthorization(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	application, err := service.Create(context.Background(), tutorMember, "job-1", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := service.Decide(context.Background(), tutorMember, application.ID, DecisionAccept); !errors.Is(err, ErrForbidden) {
		t.Fatalf("tutor decide err = %v, want ErrForbidden", err)
	}
	if _, err := service.Decide(context.Background(), otherRequester, application.ID, DecisionAccept); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other requester err = %v, want ErrForbidden", err)
	}
}

func TestDecideInvalidDecision(t *testing.T) {
	repo := newFakeApplicationsRepo()
	service := NewService(repo)

	if _, err := service.Decide(context.Background(), requester, "app-1", Decision("maybe")); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestConfirmHappyPath(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	seedTutor(repo, otherTutor, "tutor-2")
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	accepted, err := service.Create(context.Background(), tutorMember, "job-1", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rival, err := service.Create(context.Background(), otherTutor, "job-1", "")
	if err != nil {
		t.Fatalf("rival Create: %v", err)
	}
	if _, err := service.Decide(context.Background(), requester, accepted.ID, DecisionAccept); err != nil {
		t.Fatalf("Decide: %v", err)
	}

	result, err := service.Confirm(context.Background(), tutorMember, accepted.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if result.Application.Status != StatusConfirm {
		t.Fatalf("application status = %q, want %q", result.Application.Status, StatusConfirm)
	}
	if result.Job.Status != jobsdomain.StatusMatched {
		t.Fatalf("job status = %q, want %q", result.Job.Status, jobsdomain.StatusMatched)
	}
	if result.Job.MatchedTutorID == nil || *result.Job.MatchedTutorID != "tutor-1" {
		t.Fatalf("matched tutor = %v, want tutor-1", result.Job.MatchedTutorID)
	}
	if result.Job.MatchedAt == nil {
		t.Fatal("expected matched_at set")
	}
	if result.Contract == nil {
		t.Fatal("expected contract")
	}
	if result.Contract.ApplyID != accepted.ID || result.Contract.TutorID != "tutor-1" {
		t.Fatalf("unexpected contract: %+v", result.Contract)
	}
	// Contract snapshots the job's payment terms.
	if result.Contract.Payment != 15000 || result.Contract.PaymentCycle != "hourly" {
		t.Fatalf("contract terms = %d/%s", result.Contract.Payment, result.Contract.PaymentCycle)
	}
	if result.Contract.Status != contractsdomain.StatusActive {
		t.Fatalf("contract status = %q, want %q", result.Contract.Status, contractsdomain.StatusActive)
	}

	// The rival's ready application was auto-rejected in the same transaction.
	if repo.applications[rival.ID].Status != StatusReject {
		t.Fatalf("rival status = %q, want %q", repo.applications[rival.ID].Status, StatusReject)
	}
	if len(repo.contracts) != 1 {
		t.Fatalf("got %d contracts, want 1", len(repo.contracts))
	}
}

func TestConfirmRequiresAccepted(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	application, err := service.Create(context.Background(), tutorMember, "job-1", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := service.Confirm(context.Background(), tutorMember, application.ID); !errors.Is(err, ErrApplicationNotAccepted) {
		t.Fatalf("err = %v, want ErrApplicationNotAccepted", err)
	}
}

func TestConfirmForbiddenForRequester(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	application, err := service.Create(context.Background(), tutorMember, "job-1", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := service.Decide(context.Background(), requester, application.ID, DecisionAccept); err != nil {
		t.Fatalf("Decide: %v", err)
	}

	// Confirmation is the tutor's move, not the requester's.
	if _, err := service.Confirm(context.Background(), requester, application.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	// Nor another tutor's.
	seedTutor(repo, otherTutor, "tutor-2")
	if _, err := service.Confirm(context.Background(), otherTutor, application.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other tutor err = %v, want ErrForbidden", err)
	}
}

func TestConfirmRollsBackOnContractFailure(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	seedTutor(repo, otherTutor, "tutor-2")
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	application, err := service.Create(context.Background(), tutorMember, "job-1", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rival, err := service.Create(context.Background(), otherTutor, "job-1", "")
	if err != nil {
		t.Fatalf("rival Create: %v", err)
	}
	if _, err := service.Decide(context.Background(), requester, application.ID, DecisionAccept); err != nil {
		t.Fatalf("Decide: %v", err)
	}

	boom := errors.New("contract insert failed")
	repo.failCreateContract = boom

	if _, err := service.Confirm(context.Background(), tutorMember, application.ID); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want injected failure", err)
	}

	// Everything the transaction touched is back where it started.
	if got := repo.applications[application.ID].Status; got != StatusAccept {
		t.Fatalf("application status = %q, want %q after rollback", got, StatusAccept)
	}
	if got := repo.jobs["job-1"].Status; got != jobsdomain.StatusOpen {
		t.Fatalf("job status = %q, want %q after rollback", got, jobsdomain.StatusOpen)
	}
	if repo.jobs["job-1"].MatchedTutorID != nil {
		t.Fatal("expected matched tutor cleared after rollback")
	}
	if got := repo.applications[rival.ID].Status; got != StatusReady {
		t.Fatalf("rival status = %q, want %q after rollback", got, StatusReady)
	}
	if len(repo.contracts) != 0 {
		t.Fatalf("got %d contracts, want 0", len(repo.contracts))
	}
}

func TestConfirmLosesRaceToMatchedJob(t *testing.T) {
	repo := newFakeApplicationsRepo()
	seedTutor(repo, tutorMember, "tutor-1")
	seedTutor(repo, otherTutor, "tutor-2")
	seedOpenJob(repo, "job-1", requester.ID)
	service := NewService(repo)

	first, err := service.Create(context.Background(), tutorMember, "job-1", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := service.Create(context.Background(), otherTutor, "job-1", "")
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if _, err := service.Decide(context.Background(), requester, first.ID, DecisionAccept); err != nil {
		t.Fatalf("Decide first: %v", err)
	}
	if _, err := service.Decide(context.Background(), requester, second.ID, DecisionAccept); err != nil {
		t.Fatalf("Decide second: %v", err)
	}

	if _, err := service.Confirm(context.Background(), tutorMember, first.ID); err != nil {
		t.Fatalf("first Confirm: %v", err)
	}

	// The job is matched now; the second accepted application cannot confirm.
	if _, err := service.Confirm(context.Background(), otherTutor, second.ID); !errors.Is(err, ErrJobNotOpen) {
		t.Fatalf("err = %v, want ErrJobNotOpen", err)
	}
	// And the losing application reverted to accept rather than half-confirmed.
	if got := repo.applications[second.ID].Status; got != StatusAccept {
		t.Fatalf("loser status = %q, want %q", got, StatusAccept)
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := []Status{StatusReject, StatusConfirm, StatusContract}
	for _, status := range terminal {
		if !status.Terminal() {
			t.Fatalf("%q should be terminal", status)
		}
	}
	for _, status := range []Status{StatusReady, StatusAccept} {
		if status.Terminal() {
			t.Fatalf("%q should not be terminal", status)
		}
	}
}

func TestListMineWithoutProfile(t *testing.T) {
	repo := newFakeApplicationsRepo()
	service := NewService(repo)

	listed, err := service.ListMine(context.Background(), tutorMember)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("got %d applications, want 0", len(listed))
	}
}
