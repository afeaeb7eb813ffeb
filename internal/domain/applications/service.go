package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	contractsdomain "tutormatch-go/internal/domain/contracts"
	"tutormatch-go/internal/domain/identity"
	jobsdomain "tutormatch-go/internal/domain/jobs"
	tutorsdomain "tutormatch-go/internal/domain/tutors"
)

const maxMessageLength = 2000

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create files an application against an open job. The caller must hold a
// tutor profile and may apply to a given job at most once.
func (s *Service) Create(ctx context.Context, caller identity.Caller, jobID, message string) (*Application, error) {
	if !caller.IsTutor() {
		return nil, ErrForbidden
	}

	tutor, err := s.repo.GetTutorByMember(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, tutorsdomain.ErrTutorNotFound) {
			return nil, ErrTutorProfileRequired
		}
		return nil, err
	}

	message = strings.TrimSpace(message)
	if len([]rune(message)) > maxMessageLength {
		return nil, fmt.Errorf("%w: message must be at most %d characters", ErrValidation, maxMessageLength)
	}

	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != jobsdomain.StatusOpen {
		return nil, ErrJobNotAvailable
	}

	if _, err := s.repo.GetByTutorAndJob(ctx, tutor.ID, jobID); err == nil {
		return nil, ErrAlreadyApplied
	} else if !errors.Is(err, ErrApplicationNotFound) {
		return nil, err
	}

	application := Application{
		ID:         uuid.NewString(),
		TutorID:    tutor.ID,
		TutorJobID: jobID,
		Message:    message,
		Status:     StatusReady,
	}

	// The unique index is the real guard; the pre-check above only shapes
	// the common-path error.
	if err := s.repo.CreateApplication(ctx, &application); err != nil {
		return nil, err
	}

	return &application, nil
}

// ListForJob returns a job's applications to its owning requester only.
func (s *Service) ListForJob(ctx context.Context, caller identity.Caller, jobID string) ([]Application, error) {
	if !caller.IsParent() {
		return nil, ErrForbidden
	}

	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.RequesterID != caller.ID {
		return nil, ErrForbidden
	}

	return s.repo.ListByJob(ctx, jobID)
}

func (s *Service) ListMine(ctx context.Context, caller identity.Caller) ([]Application, error) {
	if !caller.IsTutor() {
		return nil, ErrForbidden
	}

	tutor, err := s.repo.GetTutorByMember(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, tutorsdomain.ErrTutorNotFound) {
			return []Application{}, nil
		}
		return nil, err
	}

	return s.repo.ListByTutor(ctx, tutor.ID)
}

// UpdateMessage lets the applying tutor revise the free-text message, but
// only while the application is still ready.
func (s *Service) UpdateMessage(ctx context.Context, caller identity.Caller, applicationID, message string) (*Application, error) {
	message = strings.TrimSpace(message)
	if len([]rune(message)) > maxMessageLength {
		return nil, fmt.Errorf("%w: message must be at most %d characters", ErrValidation, maxMessageLength)
	}

	application, _, err := s.getOwnedApplication(ctx, caller, applicationID)
	if err != nil {
		return nil, err
	}

	if application.Status != StatusReady {
		return nil, ErrApplicationNotReady
	}

	updated, err := s.repo.UpdateMessage(ctx, applicationID, message)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Lost a race with a decision on the same application.
		return nil, ErrApplicationNotReady
	}

	application.Message = message
	return application, nil
}

// Decide records the requester's accept or reject on a ready application.
// Only the job's owner may decide, and only while the job is open.
func (s *Service) Decide(ctx context.Context, caller identity.Caller, applicationID string, decision Decision) (*Application, error) {
	if !caller.IsParent() {
		return nil, ErrForbidden
	}

	var to Status
	switch decision {
	case DecisionAccept:
		to = StatusAccept
	case DecisionReject:
		to = StatusReject
	default:
		return nil, fmt.Errorf("%w: decision must be accept or reject", ErrValidation)
	}

	application, err := s.repo.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	job, err := s.repo.GetJob(ctx, application.TutorJobID)
	if err != nil {
		return nil, err
	}
	if job.RequesterID != caller.ID {
		return nil, ErrForbidden
	}
	if job.Status != jobsdomain.StatusOpen {
		return nil, ErrJobNotOpen
	}
	if application.Status != StatusReady {
		return nil, ErrApplicationNotReady
	}

	updated, err := s.repo.UpdateApplicationStatus(ctx, applicationID, StatusReady, to)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrApplicationNotReady
	}

	application.Status = to
	return application, nil
}

// Confirm is the tutor's final acceptance. It runs one transaction that
// marks the application confirmed, transitions the job to matched, creates
// the contract, and rejects the job's remaining ready applications. All four
// writes land together or not at all.
func (s *Service) Confirm(ctx context.Context, caller identity.Caller, applicationID string) (*ConfirmResult, error) {
	application, tutor, err := s.getOwnedApplication(ctx, caller, applicationID)
	if err != nil {
		return nil, err
	}

	if application.Status != StatusAccept {
		return nil, ErrApplicationNotAccepted
	}

	var (
		job      *jobsdomain.Job
		contract *contractsdomain.Contract
	)

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		updated, err := tx.UpdateApplicationStatus(ctx, applicationID, StatusAccept, StatusConfirm)
		if err != nil {
			return err
		}
		if !updated {
			return ErrApplicationNotAccepted
		}

		job, err = tx.GetJobForUpdate(ctx, application.TutorJobID)
		if err != nil {
			return err
		}
		if job.Status != jobsdomain.StatusOpen {
			// Another application on this job won the race.
			return ErrJobNotOpen
		}

		now := time.Now().UTC()
		matched, err := tx.MarkJobMatched(ctx, job.ID, tutor.ID, now)
		if err != nil {
			return err
		}
		if !matched {
			return ErrJobNotOpen
		}
		job.Status = jobsdomain.StatusMatched
		job.MatchedTutorID = &tutor.ID
		job.MatchedAt = &now

		contract = contractsdomain.Build(applicationID, tutor.ID, job)
		if err := tx.CreateContract(ctx, contract); err != nil {
			return err
		}

		if _, err := tx.RejectReadyByJob(ctx, job.ID, applicationID); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	application.Status = StatusConfirm
	return &ConfirmResult{
		Application: application,
		Job:         job,
		Contract:    contract,
	}, nil
}

// getOwnedApplication resolves the caller to a tutor profile and checks the
// application belongs to it.
func (s *Service) getOwnedApplication(ctx context.Context, caller identity.Caller, applicationID string) (*Application, *tutorsdomain.Tutor, error) {
	if !caller.IsTutor() {
		return nil, nil, ErrForbidden
	}

	tutor, err := s.repo.GetTutorByMember(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, tutorsdomain.ErrTutorNotFound) {
			return nil, nil, ErrForbidden
		}
		return nil, nil, err
	}

	application, err := s.repo.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	if application.TutorID != tutor.ID {
		return nil, nil, ErrForbidden
	}

	return application, tutor, nil
}
