package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jobboardhq/jobboard-backend/internal/dto"
	"github.com/jobboardhq/jobboard-backend/internal/models"
	"github.com/jobboardhq/jobboard-backend/internal/services"
)

func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// clientIP prefers the forwarded-for header so audit entries survive a
// reverse proxy, falling back to the socket address.
func clientIP(c *fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	return c.IP()
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// scoreMatchCached consults the memoization cache before paying for a model
// call. Only clean results are written back.
func scoreMatchCached(ctx context.Context, gateway AIGateway, cache services.MatchCache, user *models.User, job *models.Job) services.MatchResult {
	key := services.MatchCacheKey(user.ID, job.ID, user.ResumeText, job.Description)
	if result, ok := cache.Get(ctx, key); ok {
		return result
	}

	result := gateway.ScoreMatch(ctx, user.ResumeText, job.Description)
	if result.Error == "" {
		cache.Set(ctx, key, result)
	}
	return result
}
