package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jobboardhq/jobboard-backend/internal/dto"
	"github.com/jobboardhq/jobboard-backend/internal/models"
)

type ApplicationService struct {
	db *gorm.DB
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db}
}

func (s *ApplicationService) ListAll() ([]models.Application, error) {
	var apps []models.Application
	err := s.db.Preload("Job").Preload("User").Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (s *ApplicationService) ListByUser(userID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := s.db.Where("user_id = ?", userID).Preload("Job").Order("created_at DESC").Find(&apps).Error
	return apps, err
}

// ListForProvider returns every application against the provider's postings.
func (s *ApplicationService) ListForProvider(providerID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := s.db.
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.posted_by = ?", providerID).
		Preload("Job").Preload("User").
		Order("applications.created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (s *ApplicationService) HasApplied(jobID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.Application{}).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *ApplicationService) Create(app *models.Application) error {
	return s.db.Create(app).Error
}

func (s *ApplicationService) Get(id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := s.db.Preload("Job").Preload("User").First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *ApplicationService) Save(app *models.Application) error {
	return s.db.Save(app).Error
}

// Stats aggregates dashboard counts and the five most recent applications.
func (s *ApplicationService) Stats() (*dto.StatsResponse, error) {
	var userCount, jobCount, appCount int64
	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Job{}).Count(&jobCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Application{}).Count(&appCount).Error; err != nil {
		return nil, err
	}

	var recent []models.Application
	if err := s.db.Preload("Job").Preload("User").Order("created_at DESC").Limit(5).Find(&recent).Error; err != nil {
		return nil, err
	}

	// STUB: the weekly series is placeholder data except for the final
	// bucket, which carries the live total. Pending a real time-bucketed
	// aggregation once the dashboard requirements settle.
	chart := []dto.ChartPoint{
		{Name: "Mon", Apps: 4},
		{Name: "Tue", Apps: 7},
		{Name: "Wed", Apps: 5},
		{Name: "Thu", Apps: 10},
		{Name: "Fri", Apps: 8},
		{Name: "Sat", Apps: 3},
		{Name: "Sun", Apps: appCount},
	}

	return &dto.StatsResponse{
		Users:        userCount,
		Jobs:         jobCount,
		Applications: appCount,
		RecentApps:   recent,
		ChartData:    chart,
	}, nil
}
