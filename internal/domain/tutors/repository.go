package tutors

import "context"

type Repository interface {
	CreateTutor(ctx context.Context, tutor *Tutor) error
	GetTutorByID(ctx context.Context, id string) (*Tutor, error)
	GetTutorByMember(ctx context.Context, memberID string) (*Tutor, error)
	ListTutors(ctx context.Context) ([]Tutor, error)
}
