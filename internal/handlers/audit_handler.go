package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type AuditHandler struct {
	logs AuditStore
}

func NewAuditHandler(logs AuditStore) *AuditHandler {
	return &AuditHandler{logs: logs}
}

func (h *AuditHandler) List(c *fiber.Ctx) error {
	logs, err := h.logs.List()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Error fetching audit logs")
	}
	return c.JSON(logs)
}
