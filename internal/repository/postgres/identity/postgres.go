package identity

import (
	"context"
	"errors"

	identitydomain "tutormatch-go/internal/domain/identity"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateMember(ctx context.Context, member *identitydomain.Member) error {
	err := r.db.WithContext(ctx).Create(member).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return identitydomain.ErrEmailTaken
	}
	return err
}

func (r *PostgresRepository) GetMemberByID(ctx context.Context, id string) (*identitydomain.Member, error) {
	var member identitydomain.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) GetMemberByEmail(ctx context.Context, email string) (*identitydomain.Member, error) {
	var member identitydomain.Member
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}
