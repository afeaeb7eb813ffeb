package tutors

import (
	"context"
	"errors"

	tutorsdomain "tutormatch-go/internal/domain/tutors"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateTutor(ctx context.Context, tutor *tutorsdomain.Tutor) error {
	err := r.db.WithContext(ctx).Create(tutor).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return tutorsdomain.ErrTutorExists
	}
	return err
}

func (r *PostgresRepository) GetTutorByID(ctx context.Context, id string) (*tutorsdomain.Tutor, error) {
	var tutor tutorsdomain.Tutor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tutor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tutorsdomain.ErrTutorNotFound
		}
		return nil, err
	}
	return &tutor, nil
}

func (r *PostgresRepository) GetTutorByMember(ctx context.Context, memberID string) (*tutorsdomain.Tutor, error) {
	var tutor tutorsdomain.Tutor
	if err := r.db.WithContext(ctx).Where("member_id = ?", memberID).First(&tutor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tutorsdomain.ErrTutorNotFound
		}
		return nil, err
	}
	return &tutor, nil
}

func (r *PostgresRepository) ListTutors(ctx context.Context) ([]tutorsdomain.Tutor, error) {
	var tutors []tutorsdomain.Tutor
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&tutors).Error; err != nil {
		return nil, err
	}
	return tutors, nil
}
