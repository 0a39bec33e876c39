package handlers

import (
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jobboardhq/jobboard-backend/internal/dto"
	"github.com/jobboardhq/jobboard-backend/internal/middleware"
	"github.com/jobboardhq/jobboard-backend/internal/models"
	"github.com/jobboardhq/jobboard-backend/internal/services"
)

type ApplicationHandler struct {
	applications ApplicationStore
	gateway      AIGateway
	audit        AuditRecorder
	cache        services.MatchCache
}

func NewApplicationHandler(applications ApplicationStore, gateway AIGateway, audit AuditRecorder, cache services.MatchCache) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, gateway: gateway, audit: audit, cache: cache}
}

type applicationWithMatch struct {
	models.Application
	AIMatch services.MatchResult `json:"aiMatch"`
}

func (h *ApplicationHandler) ListAll(c *fiber.Ctx) error {
	apps, err := h.applications.ListAll()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(apps)
}

func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	apps, err := h.applications.ListByUser(user.ID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(apps)
}

// ListForProvider attaches an AI match score to every application against the
// provider's postings. Scores come through the memoization cache; rows
// without a resume or description are marked insufficient without a call.
func (h *ApplicationHandler) ListForProvider(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	apps, err := h.applications.ListForProvider(user.ID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	ctx := c.Context()
	rows := make([]applicationWithMatch, len(apps))
	var wg sync.WaitGroup
	for i, app := range apps {
		rows[i].Application = app

		if app.User == nil || app.Job == nil || app.User.ResumeText == "" || app.Job.Description == "" {
			rows[i].AIMatch = services.MatchResult{
				MissingSkills: []string{},
				Reason:        "Insufficient data for AI match",
			}
			continue
		}

		wg.Add(1)
		go func(i int, applicant *models.User, job *models.Job) {
			defer wg.Done()
			result := scoreMatchCached(ctx, h.gateway, h.cache, applicant, job)
			if result.Error != "" {
				result = services.MatchResult{MissingSkills: []string{}, Reason: "AI match failed"}
			}
			rows[i].AIMatch = result
		}(i, app.User, app.Job)
	}
	wg.Wait()

	return c.JSON(rows)
}

func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := dto.Validate.Struct(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "jobId is required")
	}

	applied, err := h.applications.HasApplied(req.JobID, user.ID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	if applied {
		return fail(c, fiber.StatusBadRequest, "You have already applied for this job")
	}

	app := models.Application{
		JobID:  req.JobID,
		UserID: user.ID,
		Status: models.StatusPending,
	}
	if err := h.applications.Create(&app); err != nil {
		// Losing the check-then-insert race trips the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fail(c, fiber.StatusBadRequest, "You have already applied for this job")
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	h.audit.Record(&user.ID, "Application Submitted", "Application", &app.ID, "Job ID: "+req.JobID.String(), clientIP(c))
	return c.Status(fiber.StatusCreated).JSON(app)
}

func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := uuidParam(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid application id")
	}

	var req dto.UpdateApplicationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := dto.Validate.Struct(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Status is required")
	}
	if !models.ValidStatus(req.Status) {
		return fail(c, fiber.StatusBadRequest, "Invalid status")
	}

	app, err := h.applications.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, fiber.StatusNotFound, "Application not found")
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	// Admins may triage anything; providers only applications to their
	// own postings.
	if user.Role != models.RoleAdmin && (app.Job == nil || app.Job.PostedBy != user.ID) {
		return fail(c, fiber.StatusUnauthorized, "Not authorized to update this application")
	}

	app.Status = req.Status
	if err := h.applications.Save(app); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	h.audit.Record(&user.ID, "Application Status Updated", "Application", &app.ID, "New Status: "+app.Status, clientIP(c))
	return c.JSON(app)
}

func (h *ApplicationHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.applications.Stats()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(stats)
}
