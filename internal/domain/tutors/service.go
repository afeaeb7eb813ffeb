package tutors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"tutormatch-go/internal/domain/identity"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates the caller's tutor profile. Only members with the tutor
// role may register, and each member registers at most once.
func (s *Service) Register(ctx context.Context, caller identity.Caller, input RegisterInput) (*Tutor, error) {
	if !caller.IsTutor() {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	currentYear := time.Now().UTC().Year()
	if input.BirthYear < 1900 || input.BirthYear > currentYear {
		return nil, fmt.Errorf("%w: invalid birth year", ErrValidation)
	}
	gender := strings.ToLower(strings.TrimSpace(input.Gender))
	if gender == "" {
		return nil, fmt.Errorf("%w: gender is required", ErrValidation)
	}
	if input.CareerYears < 0 {
		return nil, fmt.Errorf("%w: career years must be non-negative", ErrValidation)
	}

	if _, err := s.repo.GetTutorByMember(ctx, caller.ID); err == nil {
		return nil, ErrTutorExists
	} else if !errors.Is(err, ErrTutorNotFound) {
		return nil, err
	}

	regions := make([]string, 0, len(input.Regions))
	for _, region := range input.Regions {
		region = strings.TrimSpace(region)
		if region == "" {
			continue
		}
		regions = append(regions, region)
	}

	tutor := Tutor{
		ID:           uuid.NewString(),
		MemberID:     caller.ID,
		Name:         name,
		BirthYear:    input.BirthYear,
		Gender:       gender,
		School:       strings.TrimSpace(input.School),
		Major:        strings.TrimSpace(input.Major),
		CareerYears:  input.CareerYears,
		Introduction: strings.TrimSpace(input.Introduction),
		PhotoPath:    strings.TrimSpace(input.PhotoPath),
		Regions:      strings.Join(regions, ","),
	}

	if err := s.repo.CreateTutor(ctx, &tutor); err != nil {
		return nil, err
	}

	return &tutor, nil
}

func (s *Service) GetByMember(ctx context.Context, memberID string) (*Tutor, error) {
	return s.repo.GetTutorByMember(ctx, memberID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Tutor, error) {
	return s.repo.GetTutorByID(ctx, id)
}

// ListAll returns every registered tutor, used as the candidate pool for
// compatibility ranking.
func (s *Service) ListAll(ctx context.Context) ([]Tutor, error) {
	return s.repo.ListTutors(ctx)
}
