package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jobboardhq/jobboard-backend/internal/models"
)

type JobService struct {
	db *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{db: db}
}

func (s *JobService) List() ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

// Recent returns the newest postings. The recommendation pipeline scores this
// recency window rather than doing content-based retrieval.
func (s *JobService) Recent(limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.Order("created_at DESC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

func (s *JobService) ListByProvider(providerID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.Where("posted_by = ?", providerID).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (s *JobService) Get(id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := s.db.First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobService) Create(job *models.Job) error {
	return s.db.Create(job).Error
}

func (s *JobService) Save(job *models.Job) error {
	return s.db.Save(job).Error
}

func (s *JobService) Delete(job *models.Job) error {
	return s.db.Delete(job).Error
}
