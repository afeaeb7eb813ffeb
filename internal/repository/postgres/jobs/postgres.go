package jobs

import (
	"context"
	"errors"
	"strings"

	jobsdomain "tutormatch-go/internal/domain/jobs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateJob(ctx context.Context, job *jobsdomain.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *PostgresRepository) GetJobByID(ctx context.Context, id string) (*jobsdomain.Job, error) {
	var job jobsdomain.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jobsdomain.ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *PostgresRepository) UpdateJobFields(ctx context.Context, job *jobsdomain.Job) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&jobsdomain.Job{}).
		Where("id = ? AND requester_id = ? AND status = ?", job.ID, job.RequesterID, jobsdomain.StatusRegistered).
		Updates(map[string]interface{}{
			"title":         job.Title,
			"description":   job.Description,
			"target":        job.Target,
			"region":        job.Region,
			"payment":       job.Payment,
			"payment_cycle": job.PaymentCycle,
			"start_date":    job.StartDate,
			"end_date":      job.EndDate,
			"schedule":      job.Schedule,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) SetStatus(ctx context.Context, jobID string, from []jobsdomain.Status, to jobsdomain.Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&jobsdomain.Job{}).
		Where("id = ? AND status IN ?", jobID, from).
		Update("status", to)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CloseJob(ctx context.Context, jobID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&jobsdomain.Job{}).
		Where("id = ? AND status <> ?", jobID, jobsdomain.StatusClosed).
		Updates(map[string]interface{}{
			"status":           jobsdomain.StatusClosed,
			"matched_tutor_id": nil,
			"matched_at":       nil,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) SoftDeleteJob(ctx context.Context, requesterID, jobID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("status = ?", jobsdomain.StatusRegistered).
		Delete(&jobsdomain.Job{}, "requester_id = ? AND id = ?", requesterID, jobID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListJobs(ctx context.Context, query jobsdomain.ListQuery) ([]jobsdomain.Job, int64, error) {
	q := r.db.WithContext(ctx).Model(&jobsdomain.Job{})

	if query.RequesterID != "" {
		q = q.Where("tutor_jobs.requester_id = ?", query.RequesterID)
	}
	if query.OnlyOpen {
		q = q.Where("tutor_jobs.status = ?", jobsdomain.StatusOpen)
	}

	filter := query.Filter
	if filter.Status != nil {
		q = q.Where("tutor_jobs.status = ?", *filter.Status)
	}
	if filter.From != nil {
		q = q.Where("tutor_jobs.start_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("tutor_jobs.start_date <= ?", *filter.To)
	}
	if filter.CategoryID != "" {
		q = q.Joins("JOIN tutor_job_categories tjc ON tjc.job_id = tutor_jobs.id").
			Where("tjc.category_id = ?", filter.CategoryID)
	}
	keyword := strings.TrimSpace(filter.Keyword)
	if keyword != "" {
		pattern := "%" + keyword + "%"
		q = q.Where("tutor_jobs.title ILIKE ? OR tutor_jobs.description ILIKE ?", pattern, pattern)
	}

	countQuery := q.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case jobsdomain.SortStartDate:
		q = q.Order("tutor_jobs.start_date asc, tutor_jobs.created_at desc")
	default:
		q = q.Order("tutor_jobs.created_at desc")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var jobs []jobsdomain.Job
	if err := q.Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]jobsdomain.Category, error) {
	var categories []jobsdomain.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) GetCategoriesByIDs(ctx context.Context, ids []string) ([]jobsdomain.Category, error) {
	if len(ids) == 0 {
		return []jobsdomain.Category{}, nil
	}
	var categories []jobsdomain.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) AttachCategories(ctx context.Context, jobID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	rows := make([]jobsdomain.JobCategory, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		rows = append(rows, jobsdomain.JobCategory{JobID: jobID, CategoryID: categoryID})
	}

	// Idempotent per pair: re-attaching is a no-op, not an error.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *PostgresRepository) DetachCategories(ctx context.Context, jobID string) error {
	return r.db.WithContext(ctx).Delete(&jobsdomain.JobCategory{}, "job_id = ?", jobID).Error
}

func (r *PostgresRepository) ListCategoriesByJob(ctx context.Context, jobID string) ([]jobsdomain.Category, error) {
	var categories []jobsdomain.Category
	err := r.db.WithContext(ctx).
		Model(&jobsdomain.Category{}).
		Joins("JOIN tutor_job_categories tjc ON tjc.category_id = categories.id").
		Where("tjc.job_id = ?", jobID).
		Order("categories.name asc").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
