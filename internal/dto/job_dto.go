package dto

type JobRequest struct {
	Title           string   `json:"title" validate:"required"`
	Company         string   `json:"company" validate:"required"`
	Location        string   `json:"location" validate:"required"`
	Description     string   `json:"description" validate:"required"`
	Requirements    []string `json:"requirements"`
	SalaryRange     string   `json:"salaryRange"`
	AITags          []string `json:"aiTags"`
	ExperienceLevel string   `json:"experienceLevel" validate:"required"`
	Type            string   `json:"type"`
}
