package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	DefaultJobType = "Full-time"
	DefaultCompany = "Various Companies"
)

// JobSuggestion is one row of a user's last generated batch. All rows of a
// user share the GenerationID of the call that produced them.
type JobSuggestion struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	GenerationID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"generation_id"`
	JobTitle        string         `gorm:"type:text;not null" json:"job_title"`
	MatchPercentage int            `gorm:"not null" json:"match_percentage"`
	Reason          string         `gorm:"type:text" json:"reason"`
	RequiredSkills  pq.StringArray `gorm:"type:text[]" json:"required_skills"`
	SalaryRange     string         `gorm:"type:text" json:"salary_range"`
	Location        string         `gorm:"type:text" json:"location"`
	JobType         string         `gorm:"type:text" json:"job_type"`
	Company         string         `gorm:"type:text" json:"company"`
	Description     string         `gorm:"type:text" json:"description"`
	CreatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (JobSuggestion) TableName() string {
	return "job_suggestions"
}
