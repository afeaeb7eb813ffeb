package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"tutormatch-go/internal/domain/identity"
)

type Service struct {
	repo     Repository
	cache    CategoryCache
	cacheTTL time.Duration
}

func NewService(repo Repository, cache CategoryCache, cacheTTL time.Duration) *Service {
	if cache == nil {
		cache = NewNoopCategoryCache()
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

func (s *Service) CreateJob(ctx context.Context, caller identity.Caller, input CreateJobInput) (*Job, error) {
	if !caller.IsParent() {
		return nil, ErrForbidden
	}
	if err := validateJobFields(input.Title, input.Payment, input.PaymentCycle, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	job := Job{
		ID:           uuid.NewString(),
		RequesterID:  caller.ID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Target:       strings.TrimSpace(input.Target),
		Region:       strings.TrimSpace(input.Region),
		Payment:      input.Payment,
		PaymentCycle: strings.TrimSpace(input.PaymentCycle),
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Schedule:     strings.TrimSpace(input.Schedule),
		Status:       StatusRegistered,
	}

	if err := s.repo.CreateJob(ctx, &job); err != nil {
		return nil, err
	}

	return &job, nil
}

// GetJob applies visibility scoping: requesters see their own jobs in any
// state, tutors see open jobs only. Anything else reads as not found rather
// than leaking the job's existence.
func (s *Service) GetJob(ctx context.Context, caller identity.Caller, jobID string) (*Job, error) {
	job, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if caller.IsParent() {
		if job.RequesterID != caller.ID {
			return nil, ErrJobNotFound
		}
		return job, nil
	}

	if job.Status != StatusOpen {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (s *Service) EditJob(ctx context.Context, caller identity.Caller, jobID string, input UpdateJobInput) (*Job, error) {
	job, err := s.getOwnedJob(ctx, caller, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != StatusRegistered {
		return nil, ErrJobNotEditable
	}

	if input.Title != nil {
		job.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		job.Description = strings.TrimSpace(*input.Description)
	}
	if input.Target != nil {
		job.Target = strings.TrimSpace(*input.Target)
	}
	if input.Region != nil {
		job.Region = strings.TrimSpace(*input.Region)
	}
	if input.Payment != nil {
		job.Payment = *input.Payment
	}
	if input.PaymentCycle != nil {
		job.PaymentCycle = strings.TrimSpace(*input.PaymentCycle)
	}
	if input.StartDate != nil {
		job.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		job.EndDate = *input.EndDate
	}
	if input.Schedule != nil {
		job.Schedule = strings.TrimSpace(*input.Schedule)
	}

	if err := validateJobFields(job.Title, job.Payment, job.PaymentCycle, job.StartDate, job.EndDate); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateJobFields(ctx, job)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Lost a race with a publish on the same job.
		return nil, ErrJobNotEditable
	}

	return job, nil
}

// PublishJob moves a registered job to open. After this the job is immutable
// to direct edits and tutors can apply.
func (s *Service) PublishJob(ctx context.Context, caller identity.Caller, jobID string) (*Job, error) {
	job, err := s.getOwnedJob(ctx, caller, jobID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(job.Status, StatusOpen) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.SetStatus(ctx, jobID, []Status{StatusRegistered}, StatusOpen)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Lost a race with another transition.
		return nil, ErrInvalidTransition
	}

	job.Status = StatusOpen
	return job, nil
}

// CloseJob is the terminal administrative transition. Closing clears the
// matched fields; the contract remains the durable record of the pairing.
func (s *Service) CloseJob(ctx context.Context, caller identity.Caller, jobID string) (*Job, error) {
	job, err := s.getOwnedJob(ctx, caller, jobID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(job.Status, StatusClosed) {
		return nil, ErrInvalidTransition
	}

	closed, err := s.repo.CloseJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, ErrInvalidTransition
	}

	job.Status = StatusClosed
	job.MatchedTutorID = nil
	job.MatchedAt = nil
	return job, nil
}

func (s *Service) DeleteJob(ctx context.Context, caller identity.Caller, jobID string) error {
	job, err := s.getOwnedJob(ctx, caller, jobID)
	if err != nil {
		return err
	}
	if job.Status != StatusRegistered {
		return ErrJobNotEditable
	}

	deleted, err := s.repo.SoftDeleteJob(ctx, caller.ID, jobID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrJobNotEditable
	}
	return nil
}

// AttachCategories tags a job with categories while it is being built.
// Re-attaching an existing pair is a no-op, so callers can submit the full
// selection on every save.
func (s *Service) AttachCategories(ctx context.Context, caller identity.Caller, jobID string, categoryIDs []string) ([]Category, error) {
	job, err := s.getOwnedJob(ctx, caller, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != StatusRegistered {
		return nil, ErrJobNotEditable
	}

	ids := dedupe(categoryIDs)
	if len(ids) == 0 {
		return s.repo.ListCategoriesByJob(ctx, jobID)
	}

	known, err := s.repo.GetCategoriesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(known) != len(ids) {
		return nil, ErrCategoryNotFound
	}

	if err := s.repo.AttachCategories(ctx, jobID, ids); err != nil {
		return nil, err
	}

	return s.repo.ListCategoriesByJob(ctx, jobID)
}

func (s *Service) DetachAllCategories(ctx context.Context, caller identity.Caller, jobID string) error {
	job, err := s.getOwnedJob(ctx, caller, jobID)
	if err != nil {
		return err
	}
	if job.Status != StatusRegistered {
		return ErrJobNotEditable
	}
	return s.repo.DetachCategories(ctx, jobID)
}

func (s *Service) ListCategoriesForJob(ctx context.Context, jobID string) ([]Category, error) {
	return s.repo.ListCategoriesByJob(ctx, jobID)
}

// ListJobs scopes results by role before any user filter applies: requesters
// see only their own jobs, tutors see only open ones.
func (s *Service) ListJobs(ctx context.Context, caller identity.Caller, filter ListFilter) ([]Job, int64, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: invalid status filter", ErrValidation)
	}

	query := ListQuery{Filter: filter}
	switch {
	case caller.IsParent():
		query.RequesterID = caller.ID
	default:
		query.OnlyOpen = true
		if filter.Status != nil && *filter.Status != StatusOpen {
			return []Job{}, 0, nil
		}
	}

	return s.repo.ListJobs(ctx, query)
}

// ListCategories serves the category catalog through the cache.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	if cached, ok := s.cache.Get(ctx); ok {
		return cached, nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, categories, s.cacheTTL)
	return categories, nil
}

func (s *Service) getOwnedJob(ctx context.Context, caller identity.Caller, jobID string) (*Job, error) {
	if !caller.IsParent() {
		return nil, ErrForbidden
	}
	job, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.RequesterID != caller.ID {
		return nil, ErrForbidden
	}
	return job, nil
}

func validateJobFields(title string, payment int64, paymentCycle string, start, end time.Time) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if payment <= 0 {
		return fmt.Errorf("%w: payment must be positive", ErrValidation)
	}
	if strings.TrimSpace(paymentCycle) == "" {
		return fmt.Errorf("%w: payment cycle is required", ErrValidation)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("%w: end date must not be before start date", ErrValidation)
	}
	return nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
