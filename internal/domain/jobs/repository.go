package jobs

import "context"

// ListQuery combines the caller scope (resolved by the service) with the
// user-supplied filter. All filters are AND-combined; the keyword matches
// title or description.
type ListQuery struct {
	RequesterID string
	OnlyOpen    bool
	Filter      ListFilter
}

type Repository interface {
	CreateJob(ctx context.Context, job *Job) error
	GetJobByID(ctx context.Context, id string) (*Job, error)
	// UpdateJobFields is a compare-and-swap: it writes only while the job is
	// still registered and owned by the requester, reporting false otherwise.
	UpdateJobFields(ctx context.Context, job *Job) (bool, error)
	SetStatus(ctx context.Context, jobID string, from []Status, to Status) (bool, error)
	CloseJob(ctx context.Context, jobID string) (bool, error)
	SoftDeleteJob(ctx context.Context, requesterID, jobID string) (bool, error)
	ListJobs(ctx context.Context, query ListQuery) ([]Job, int64, error)

	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoriesByIDs(ctx context.Context, ids []string) ([]Category, error)
	AttachCategories(ctx context.Context, jobID string, categoryIDs []string) error
	DetachCategories(ctx context.Context, jobID string) error
	ListCategoriesByJob(ctx context.Context, jobID string) ([]Category, error)
}
