package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Job struct {
	ID           uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string                      `gorm:"size:255;not null" json:"title"`
	Company      string                      `gorm:"size:255;not null" json:"company"`
	Location     string                      `gorm:"size:255;not null" json:"location"`
	Description  string                      `gorm:"type:text;not null" json:"description"`
	Requirements datatypes.JSONSlice[string] `json:"requirements"`
	SalaryRange  string                      `gorm:"size:100" json:"salaryRange,omitempty"`
	// Keywords tagged by AI at posting time. Not consulted by matching yet.
	AITags          datatypes.JSONSlice[string] `json:"aiTags"`
	ExperienceLevel string                      `gorm:"size:50;not null" json:"experienceLevel"`
	Type            string                      `gorm:"size:50;default:'Full-time'" json:"type"`
	PostedBy        uuid.UUID                   `gorm:"type:uuid;not null;index" json:"postedBy"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}
