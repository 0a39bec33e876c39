package dto

import (
	"github.com/google/uuid"

	"github.com/jobboardhq/jobboard-backend/internal/models"
)

type CreateApplicationRequest struct {
	JobID uuid.UUID `json:"jobId" validate:"required"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ChartPoint struct {
	Name string `json:"name"`
	Apps int64  `json:"apps"`
}

type StatsResponse struct {
	Users        int64                `json:"users"`
	Jobs         int64                `json:"jobs"`
	Applications int64                `json:"applications"`
	RecentApps   []models.Application `json:"recentApps"`
	ChartData    []ChartPoint         `json:"chartData"`
}
