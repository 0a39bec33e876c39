package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of a state-changing action. A nil UserID
// marks a system-initiated event. Rows are never updated or deleted.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"userId,omitempty"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"size:100;not null" json:"action"`
	EntityType string     `gorm:"size:50;not null" json:"entityType"`
	EntityID   *uuid.UUID `gorm:"type:uuid" json:"entityId,omitempty"`
	Details    string     `gorm:"type:text" json:"details"`
	IPAddress  string     `gorm:"size:64" json:"ipAddress"`
	Timestamp  time.Time  `gorm:"not null;index;autoCreateTime" json:"timestamp"`
}
