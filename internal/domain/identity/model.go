package identity

import "time"

type Role string

const (
	RoleParent Role = "parent"
	RoleTutor  Role = "tutor"
)

func (r Role) Valid() bool {
	return r == RoleParent || r == RoleTutor
}

// Caller is the authenticated identity threaded through every domain
// operation. Domain code never reads it from a request context.
type Caller struct {
	ID   string
	Role Role
}

func (c Caller) IsParent() bool {
	return c.Role == RoleParent
}

func (c Caller) IsTutor() bool {
	return c.Role == RoleTutor
}

type Member struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Name         string    `gorm:"not null"`
	Role         Role      `gorm:"type:varchar(16);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}
