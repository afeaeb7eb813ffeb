package jobs

import (
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusRegistered Status = "registered"
	StatusOpen       Status = "open"
	StatusMatched    Status = "matched"
	StatusClosed     Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusRegistered, StatusOpen, StatusMatched, StatusClosed:
		return true
	}
	return false
}

// CanTransition is the single source of truth for legal status edges.
// Closing is allowed from any non-closed state; everything else moves
// forward only.
func CanTransition(from, to Status) bool {
	switch to {
	case StatusOpen:
		return from == StatusRegistered
	case StatusMatched:
		return from == StatusOpen
	case StatusClosed:
		return from != StatusClosed
	}
	return false
}

// Job is a caregiving post owned by a requester (parent). Payment terms are
// snapshotted into the contract at confirm time and do not track later edits.
type Job struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	RequesterID    string `gorm:"type:uuid;index;not null"`
	Title          string `gorm:"not null"`
	Description    string `gorm:"type:text"`
	Target         string
	Region         string
	Payment        int64
	PaymentCycle   string
	StartDate      time.Time
	EndDate        time.Time
	Schedule       string
	Status         Status `gorm:"type:varchar(16);index;not null"`
	MatchedTutorID *string
	MatchedAt      *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Job) TableName() string {
	return "tutor_jobs"
}

type Category struct {
	ID   string `gorm:"type:uuid;primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (Category) TableName() string {
	return "categories"
}

type JobCategory struct {
	JobID      string `gorm:"type:uuid;primaryKey;column:job_id"`
	CategoryID string `gorm:"type:uuid;primaryKey;column:category_id"`
}

func (JobCategory) TableName() string {
	return "tutor_job_categories"
}

type CreateJobInput struct {
	Title        string
	Description  string
	Target       string
	Region       string
	Payment      int64
	PaymentCycle string
	StartDate    time.Time
	EndDate      time.Time
	Schedule     string
}

type UpdateJobInput struct {
	Title        *string
	Description  *string
	Target       *string
	Region       *string
	Payment      *int64
	PaymentCycle *string
	StartDate    *time.Time
	EndDate      *time.Time
	Schedule     *string
}

type ListFilter struct {
	Status     *Status
	From       *time.Time
	To         *time.Time
	CategoryID string
	Keyword    string
	Sort       string
	Limit      int
	Offset     int
}

const (
	SortCreatedAt = "created_at"
	SortStartDate = "start_date"
)
