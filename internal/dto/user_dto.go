package dto

import "github.com/jobboardhq/jobboard-backend/internal/models"

// UpdateProfileRequest carries partial contact-field edits; nil means leave
// the stored value alone.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Phone    *string `json:"phone"`
	Bio      *string `json:"bio"`
}

type UpdateSkillsRequest struct {
	Skills []string `json:"skills" validate:"required"`
}

type UpdateExperienceRequest struct {
	Experience []models.ExperienceEntry `json:"experience" validate:"required"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type ResumeUploadResponse struct {
	Message    string                   `json:"message"`
	Skills     []string                 `json:"skills"`
	Experience []models.ExperienceEntry `json:"experience"`
}
