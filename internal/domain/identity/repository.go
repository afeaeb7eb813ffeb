package identity

import "context"

type Repository interface {
	CreateMember(ctx context.Context, member *Member) error
	GetMemberByID(ctx context.Context, id string) (*Member, error)
	GetMemberByEmail(ctx context.Context, email string) (*Member, error)
}
