package services

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jobboardhq/jobboard-backend/internal/models"
)

// AuditService appends immutable audit trail entries. Write failures are
// logged and swallowed: a broken audit trail must never abort the caller's
// primary operation.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record persists one audit entry. A nil actorID marks a system event.
func (s *AuditService) Record(actorID *uuid.UUID, action, entityType string, entityID *uuid.UUID, details, ipAddress string) {
	entry := models.AuditLog{
		ID:         uuid.New(),
		UserID:     actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IPAddress:  ipAddress,
		Timestamp:  time.Now(),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		slog.Error("failed to record audit entry", "action", action, "entity_type", entityType, "error", err)
	}
}

// List returns all entries newest-first with the acting user joined.
func (s *AuditService) List() ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.db.Preload("User").Order("timestamp DESC").Find(&logs).Error
	return logs, err
}
