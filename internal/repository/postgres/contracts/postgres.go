package contracts

import (
	"context"
	"errors"

	contractsdomain "tutormatch-go/internal/domain/contracts"
	tutorsdomain "tutormatch-go/internal/domain/tutors"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetContractByID(ctx context.Context, id string) (*contractsdomain.Contract, error) {
	var contract contractsdomain.Contract
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contractsdomain.ErrContractNotFound
		}
		return nil, err
	}
	return &contract, nil
}

func (r *PostgresRepository) ListByRequester(ctx context.Context, requesterID string) ([]contractsdomain.Contract, error) {
	var contracts []contractsdomain.Contract
	if err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at desc").
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *PostgresRepository) ListByTutor(ctx context.Context, tutorID string) ([]contractsdomain.Contract, error) {
	var contracts []contractsdomain.Contract
	if err := r.db.WithContext(ctx).
		Where("tutor_id = ?", tutorID).
		Order("created_at desc").
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *PostgresRepository) GetTutorIDByMember(ctx context.Context, memberID string) (string, bool, error) {
	var tutor tutorsdomain.Tutor
	if err := r.db.WithContext(ctx).
		Select("id").
		Where("member_id = ?", memberID).
		First(&tutor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return tutor.ID, true, nil
}
