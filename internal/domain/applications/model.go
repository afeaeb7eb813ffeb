package applications

import (
	"time"

	contractsdomain "tutormatch-go/internal/domain/contracts"
	jobsdomain "tutormatch-go/internal/domain/jobs"
)

type Status string

const (
	StatusReady   Status = "ready"
	StatusAccept  Status = "accept"
	StatusReject  Status = "reject"
	StatusConfirm Status = "confirm"
	// StatusContract is a recognized terminal alias kept for rows written by
	// earlier versions; no transition produces it anymore. The contract row
	// itself records that generation happened.
	StatusContract Status = "contract"
)

func (s Status) Terminal() bool {
	switch s {
	case StatusReject, StatusConfirm, StatusContract:
		return true
	}
	return false
}

// Application is a tutor's bid on a job. At most one exists per
// (tutor, job) pair, enforced by a unique index.
type Application struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	TutorID    string    `gorm:"type:uuid;index:idx_tutor_job,unique;not null"`
	TutorJobID string    `gorm:"type:uuid;index:idx_tutor_job,unique;not null"`
	Message    string    `gorm:"type:text"`
	Status     Status    `gorm:"type:varchar(16);column:apply_status;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Application) TableName() string {
	return "tutor_applies"
}

type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// ConfirmResult carries the three records the confirm transaction touched.
type ConfirmResult struct {
	Application *Application
	Job         *jobsdomain.Job
	Contract    *contractsdomain.Contract
}
