package handlers

import (
	"errors"
	"sort"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jobboardhq/jobboard-backend/internal/dto"
	"github.com/jobboardhq/jobboard-backend/internal/middleware"
	"github.com/jobboardhq/jobboard-backend/internal/models"
	"github.com/jobboardhq/jobboard-backend/internal/services"
)

// recommendWindow is how many of the newest postings get scored per
// recommendation request. Recency-bounded, not relevance-bounded.
const recommendWindow = 5

type JobHandler struct {
	jobs    JobStore
	gateway AIGateway
	audit   AuditRecorder
	cache   services.MatchCache
}

func NewJobHandler(jobs JobStore, gateway AIGateway, audit AuditRecorder, cache services.MatchCache) *JobHandler {
	return &JobHandler{jobs: jobs, gateway: gateway, audit: audit, cache: cache}
}

type recommendation struct {
	Job             models.Job `json:"job"`
	MatchPercentage int        `json:"matchPercentage"`
	MissingSkills   []string   `json:"missingSkills"`
	Reason          string     `json:"reason"`
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	jobs, err := h.jobs.List()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(jobs)
}

func (h *JobHandler) ListByProvider(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	jobs, err := h.jobs.ListByProvider(user.ID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(jobs)
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid job id")
	}

	job, err := h.jobs.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, fiber.StatusNotFound, "Job not found")
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(job)
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.JobRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := dto.Validate.Struct(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Title, company, location, description and experience level are required")
	}

	job := models.Job{
		ID:              uuid.New(),
		Title:           req.Title,
		Company:         req.Company,
		Location:        req.Location,
		Description:     req.Description,
		Requirements:    datatypes.JSONSlice[string](req.Requirements),
		SalaryRange:     req.SalaryRange,
		AITags:          datatypes.JSONSlice[string](req.AITags),
		ExperienceLevel: req.ExperienceLevel,
		Type:            req.Type,
		PostedBy:        user.ID,
	}
	if job.Type == "" {
		job.Type = "Full-time"
	}

	if err := h.jobs.Create(&job); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	h.audit.Record(&user.ID, "Job Created", "Job", &job.ID, "Title: "+job.Title, clientIP(c))
	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid job id")
	}

	job, err := h.jobs.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, fiber.StatusNotFound, "Job not found")
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	if !canManageJob(user, job) {
		return fail(c, fiber.StatusUnauthorized, "Not authorized to update this job")
	}

	var req dto.JobRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := dto.Validate.Struct(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Title, company, location, description and experience level are required")
	}

	job.Title = req.Title
	job.Company = req.Company
	job.Location = req.Location
	job.Description = req.Description
	job.Requirements = datatypes.JSONSlice[string](req.Requirements)
	job.SalaryRange = req.SalaryRange
	job.AITags = datatypes.JSONSlice[string](req.AITags)
	job.ExperienceLevel = req.ExperienceLevel
	if req.Type != "" {
		job.Type = req.Type
	}

	if err := h.jobs.Save(job); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	h.audit.Record(&user.ID, "Job Updated", "Job", &job.ID, "Title: "+job.Title, clientIP(c))
	return c.JSON(job)
}

func (h *JobHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid job id")
	}

	job, err := h.jobs.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, fiber.StatusNotFound, "Job not found")
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	if !canManageJob(user, job) {
		return fail(c, fiber.StatusUnauthorized, "Not authorized to delete this job")
	}

	if err := h.jobs.Delete(job); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	h.audit.Record(&user.ID, "Job Deleted", "Job", &job.ID, "Title: "+job.Title, clientIP(c))
	return c.JSON(dto.MessageResponse{Message: "Job removed"})
}

// Match scores the acting user's stored resume against one posting.
func (h *JobHandler) Match(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid job id")
	}

	job, err := h.jobs.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, fiber.StatusNotFound, "Job not found")
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	if user.ResumeText == "" {
		return fail(c, fiber.StatusBadRequest, "Resume not found")
	}

	result := scoreMatchCached(c.Context(), h.gateway, h.cache, user, job)
	if result.Error != "" {
		return fail(c, fiber.StatusUnprocessableEntity, result.Error)
	}
	return c.JSON(result)
}

// Recommend scores the newest postings against the acting user's resume,
// concurrently, and returns them sorted by match percentage.
func (h *JobHandler) Recommend(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if user.ResumeText == "" {
		return fail(c, fiber.StatusBadRequest, "User profile or resume missing")
	}

	candidates, err := h.jobs.Recent(recommendWindow)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	ctx := c.Context()
	recs := make([]recommendation, len(candidates))
	var wg sync.WaitGroup
	for i, job := range candidates {
		wg.Add(1)
		go func(i int, job models.Job) {
			defer wg.Done()
			result := scoreMatchCached(ctx, h.gateway, h.cache, user, &job)
			recs[i] = recommendation{
				Job:             job,
				MatchPercentage: result.MatchPercentage,
				MissingSkills:   result.MissingSkills,
				Reason:          result.Reason,
			}
		}(i, job)
	}
	wg.Wait()

	sort.SliceStable(recs, func(a, b int) bool {
		return recs[a].MatchPercentage > recs[b].MatchPercentage
	})

	return c.JSON(recs)
}

// canManageJob: the posting's owner or any admin.
func canManageJob(actor *models.User, job *models.Job) bool {
	return actor.Role == models.RoleAdmin || job.PostedBy == actor.ID
}
