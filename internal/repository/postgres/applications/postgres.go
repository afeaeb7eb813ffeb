package applications

import (
	"context"
	"errors"
	"time"

	applicationsdomain "tutormatch-go/internal/domain/applications"
	contractsdomain "tutormatch-go/internal/domain/contracts"
	jobsdomain "tutormatch-go/internal/domain/jobs"
	tutorsdomain "tutormatch-go/internal/domain/tutors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(applicationsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetApplicationByID(ctx context.Context, id string) (*applicationsdomain.Application, error) {
	var application applicationsdomain.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, applicationsdomain.ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *PostgresRepository) GetByTutorAndJob(ctx context.Context, tutorID, jobID string) (*applicationsdomain.Application, error) {
	var application applicationsdomain.Application
	if err := r.db.WithContext(ctx).
		Where("tutor_id = ? AND tutor_job_id = ?", tutorID, jobID).
		First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, applicationsdomain.ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *PostgresRepository) CreateApplication(ctx context.Context, application *applicationsdomain.Application) error {
	err := r.db.WithContext(ctx).Create(application).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return applicationsdomain.ErrAlreadyApplied
	}
	return err
}

func (r *PostgresRepository) UpdateMessage(ctx context.Context, applicationID, message string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&applicationsdomain.Application{}).
		Where("id = ? AND apply_status = ?", applicationID, applicationsdomain.StatusReady).
		Update("message", message)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) UpdateApplicationStatus(ctx context.Context, applicationID string, from, to applicationsdomain.Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&applicationsdomain.Application{}).
		Where("id = ? AND apply_status = ?", applicationID, from).
		Update("apply_status", to)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListByJob(ctx context.Context, jobID string) ([]applicationsdomain.Application, error) {
	var applications []applicationsdomain.Application
	if err := r.db.WithContext(ctx).
		Where("tutor_job_id = ?", jobID).
		Order("created_at asc").
		Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *PostgresRepository) ListByTutor(ctx context.Context, tutorID string) ([]applicationsdomain.Application, error) {
	var applications []applicationsdomain.Application
	if err := r.db.WithContext(ctx).
		Where("tutor_id = ?", tutorID).
		Order("created_at desc").
		Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *PostgresRepository) RejectReadyByJob(ctx context.Context, jobID, exceptID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&applicationsdomain.Application{}).
		Where("tutor_job_id = ? AND id <> ? AND apply_status = ?", jobID, exceptID, applicationsdomain.StatusReady).
		Update("apply_status", applicationsdomain.StatusReject)
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) GetJob(ctx context.Context, jobID string) (*jobsdomain.Job, error) {
	var job jobsdomain.Job
	if err := r.db.WithContext(ctx).Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jobsdomain.ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *PostgresRepository) GetJobForUpdate(ctx context.Context, jobID string) (*jobsdomain.Job, error) {
	var job jobsdomain.Job
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", jobID).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jobsdomain.ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *PostgresRepository) MarkJobMatched(ctx context.Context, jobID, tutorID string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&jobsdomain.Job{}).
		Where("id = ? AND status = ?", jobID, jobsdomain.StatusOpen).
		Updates(map[string]interface{}{
			"status":           jobsdomain.StatusMatched,
			"matched_tutor_id": tutorID,
			"matched_at":       at,
		})
	return result.RowsAffected > 0, result.Error
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

func (r *PostgresRepository) CreateContract(ctx context.Context, contract *contractsdomain.Contract) error {
	err := r.db.WithContext(ctx).Create(contract).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return contractsdomain.ErrContractExists
	}
	return err
}
