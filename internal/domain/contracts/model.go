package contracts

import (
	"time"

	"github.com/google/uuid"
	jobsdomain "tutormatch-go/internal/domain/jobs"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusTerminated Status = "terminated"
)

// Contract is an immutable snapshot taken when an application is confirmed.
// Payment terms are copied from the job at that moment and do not track
// later job edits.
type Contract struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	ApplyID       string    `gorm:"type:uuid;uniqueIndex;not null"`
	JobID         string    `gorm:"type:uuid;index;not null"`
	TutorID       string    `gorm:"type:uuid;index;not null"`
	RequesterID   string    `gorm:"type:uuid;index;not null"`
	ContractTitle string    `gorm:"not null"`
	StartDate     time.Time
	EndDate       time.Time
	Payment       int64
	PaymentCycle  string
	Status        Status    `gorm:"type:varchar(16);column:contract_status;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Contract) TableName() string {
	return "tutor_contracts"
}

// Build derives the contract for a confirmed application. It is pure apart
// from id generation; persistence (and the once-per-application guarantee)
// is the caller's transaction.
func Build(applyID, tutorID string, job *jobsdomain.Job) *Contract {
	return &Contract{
		ID:            uuid.NewString(),
		ApplyID:       applyID,
		JobID:         job.ID,
		TutorID:       tutorID,
		RequesterID:   job.RequesterID,
		ContractTitle: job.Title,
		StartDate:     job.StartDate,
		EndDate:       job.EndDate,
		Payment:       job.Payment,
		PaymentCycle:  job.PaymentCycle,
		Status:        StatusActive,
	}
}
