package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/jobboardhq/jobboard-backend/internal/dto"
	"github.com/jobboardhq/jobboard-backend/internal/models"
	"github.com/jobboardhq/jobboard-backend/internal/services"
)

// Handler dependencies are narrow interfaces so tests can substitute fakes.
// The concrete implementations live in internal/services.

// AIGateway is the only path to the external generative model. Results carry
// their failure in an Error field; callers branch on it, nothing throws.
type AIGateway interface {
	ExtractProfile(ctx context.Context, data []byte, mimeType string) services.ExtractResult
	ScoreMatch(ctx context.Context, resumeText, jobDescription string) services.MatchResult
}

// AuditRecorder never fails from the caller's point of view.
type AuditRecorder interface {
	Record(actorID *uuid.UUID, action, entityType string, entityID *uuid.UUID, details, ipAddress string)
}

type Authenticator interface {
	Register(req *dto.RegisterRequest, ip string) (*dto.AuthResponse, error)
	Login(req *dto.LoginRequest, ip string) (*dto.AuthResponse, error)
}

type UserStore interface {
	Get(id uuid.UUID) (*models.User, error)
	List() ([]models.User, error)
	Save(user *models.User) error
	Delete(user *models.User) error
}

type JobStore interface {
	List() ([]models.Job, error)
	Recent(limit int) ([]models.Job, error)
	ListByProvider(providerID uuid.UUID) ([]models.Job, error)
	Get(id uuid.UUID) (*models.Job, error)
	Create(job *models.Job) error
	Save(job *models.Job) error
	Delete(job *models.Job) error
}

type ApplicationStore interface {
	ListAll() ([]models.Application, error)
	ListByUser(userID uuid.UUID) ([]models.Application, error)
	ListForProvider(providerID uuid.UUID) ([]models.Application, error)
	HasApplied(jobID, userID uuid.UUID) (bool, error)
	Create(app *models.Application) error
	Get(id uuid.UUID) (*models.Application, error)
	Save(app *models.Application) error
	Stats() (*dto.StatsResponse, error)
}

type AuditStore interface {
	List() ([]models.AuditLog, error)
}
