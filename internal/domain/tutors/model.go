package tutors

import (
	"strings"
	"time"
)

// Tutor is the teaching profile a member registers once. Identity fields are
// immutable after registration; a member may not register a second profile.
type Tutor struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	MemberID     string    `gorm:"type:uuid;uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	BirthYear    int       `gorm:"not null"`
	Gender       string    `gorm:"type:varchar(16);not null"`
	School       string
	Major        string
	CareerYears  int
	Introduction string `gorm:"type:text"`
	PhotoPath    string
	Regions      string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Tutor) TableName() string {
	return "tutors"
}

// RegionList splits the stored comma-separated region string, preserving
// the order the tutor declared them in.
func (t Tutor) RegionList() []string {
	parts := strings.Split(t.Regions, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		region := strings.TrimSpace(part)
		if region == "" {
			continue
		}
		result = append(result, region)
	}
	return result
}

type RegisterInput struct {
	Name         string
	BirthYear    int
	Gender       string
	School       string
	Major        string
	CareerYears  int
	Introduction string
	PhotoPath    string
	Regions      []string
}
