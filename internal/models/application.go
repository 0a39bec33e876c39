package models

import (
	"time"

	"github.com/google/uuid"
)

// Application statuses.
const (
	StatusPending     = "Pending"
	StatusReviewed    = "Reviewed"
	StatusShortlisted = "Shortlisted"
	StatusRejected    = "Rejected"
	StatusAccepted    = "Accepted"
)

// ValidStatus reports whether s is a member of the application status enum.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusShortlisted, StatusRejected, StatusAccepted:
		return true
	}
	return false
}

// Application joins a job seeker to a job posting. The compound unique index
// on (job_id, user_id) makes "one application per user per job" a storage
// invariant rather than a best-effort handler check.
type Application struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_user" json:"jobId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_user" json:"userId"`
	Job       *Job      `gorm:"foreignKey:JobID" json:"job,omitempty"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status    string    `gorm:"size:20;default:'Pending'" json:"status"`
	AppliedAt time.Time `gorm:"autoCreateTime" json:"appliedAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
