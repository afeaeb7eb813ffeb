package applications

import (
	"context"
	"time"

	contractsdomain "tutormatch-go/internal/domain/contracts"
	jobsdomain "tutormatch-go/internal/domain/jobs"
	tutorsdomain "tutormatch-go/internal/domain/tutors"
)

// Repository is the unit of work for the application lifecycle. It spans the
// job and contract tables because the confirm transition must write all
// three atomically.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetApplicationByID(ctx context.Context, id string) (*Application, error)
	GetByTutorAndJob(ctx context.Context, tutorID, jobID string) (*Application, error)
	// CreateApplication reports ErrAlreadyApplied when the (tutor, job)
	// unique index rejects the insert.
	CreateApplication(ctx context.Context, application *Application) error
	// UpdateMessage is a compare-and-swap: it writes only while the
	// application is still ready and reports false otherwise.
	UpdateMessage(ctx context.Context, applicationID, message string) (bool, error)
	// UpdateApplicationStatus is a compare-and-swap: it reports false when
	// the row was no longer in the expected from status.
	UpdateApplicationStatus(ctx context.Context, applicationID string, from, to Status) (bool, error)
	ListByJob(ctx context.Context, jobID string) ([]Application, error)
	ListByTutor(ctx context.Context, tutorID string) ([]Application, error)
	RejectReadyByJob(ctx context.Context, jobID, exceptID string) (int64, error)

	GetJob(ctx context.Context, jobID string) (*jobsdomain.Job, error)
	GetJobForUpdate(ctx context.Context, jobID string) (*jobsdomain.Job, error)
	// MarkJobMatched transitions open to matched, recording the tutor and
	// timestamp. Reports false when the job was no longer open.
	MarkJobMatched(ctx context.Context, jobID, tutorID string, at time.Time) (bool, error)

	GetTutorByMember(ctx context.Context, memberID string) (*tutorsdomain.Tutor, error)
	// CreateContract reports contracts.ErrContractExists when a contract for
	// the application already exists.
	CreateContract(ctx context.Context, contract *contractsdomain.Contract) error
}
