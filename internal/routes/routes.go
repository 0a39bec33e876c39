package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/jobboardhq/jobboard-backend/internal/config"
	"github.com/jobboardhq/jobboard-backend/internal/handlers"
	"github.com/jobboardhq/jobboard-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	jobHandler *handlers.JobHandler,
	applicationHandler *handlers.ApplicationHandler,
	auditHandler *handlers.AuditHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	jwt := middleware.Protected(cfg)
	loadUser := middleware.LoadUser(db)
	admin := middleware.AdminRequired()
	provider := middleware.ProviderRequired()

	// Jobs. /provider and /recommend are registered before /:id so the
	// param route does not shadow them.
	jobs := api.Group("/jobs")
	jobs.Get("/provider", jwt, loadUser, provider, jobHandler.ListByProvider)
	jobs.Post("/recommend", jwt, loadUser, jobHandler.Recommend)
	jobs.Get("/", jobHandler.List)
	jobs.Get("/:id/match", jwt, loadUser, jobHandler.Match)
	jobs.Get("/:id", jobHandler.Get)
	jobs.Post("/", jwt, loadUser, provider, jobHandler.Create)
	jobs.Put("/:id", jwt, loadUser, provider, jobHandler.Update)
	jobs.Delete("/:id", jwt, loadUser, provider, jobHandler.Delete)

	// Users
	users := api.Group("/users")
	users.Get("/profile", jwt, loadUser, userHandler.Profile)
	users.Put("/profile", jwt, loadUser, userHandler.UpdateProfile)
	users.Put("/profile/skills", jwt, loadUser, userHandler.UpdateSkills)
	users.Put("/profile/experience", jwt, loadUser, userHandler.UpdateExperience)
	users.Put("/profile/password", jwt, loadUser, userHandler.UpdatePassword)
	users.Put("/profile/complete", jwt, loadUser, userHandler.CompleteProfile)
	users.Post("/profile/photo", jwt, loadUser, userHandler.UploadPhoto)
	users.Post("/resume", jwt, loadUser, userHandler.UploadResume)
	users.Get("/", jwt, loadUser, admin, userHandler.ListUsers)
	users.Delete("/:id", jwt, loadUser, admin, userHandler.DeleteUser)
	users.Put("/:id/role", jwt, loadUser, admin, userHandler.UpdateRole)

	// Applications
	applications := api.Group("/applications", jwt, loadUser)
	applications.Get("/my", applicationHandler.ListMine)
	applications.Get("/provider", provider, applicationHandler.ListForProvider)
	applications.Get("/stats", admin, applicationHandler.Stats)
	applications.Get("/", admin, applicationHandler.ListAll)
	applications.Post("/", applicationHandler.Create)
	applications.Put("/:id", provider, applicationHandler.UpdateStatus)

	// Audit trail (admin only)
	api.Get("/audit", jwt, loadUser, admin, auditHandler.List)
}
