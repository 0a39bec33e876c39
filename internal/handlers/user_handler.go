package handlers

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jobboardhq/jobboard-backend/internal/dto"
	"github.com/jobboardhq/jobboard-backend/internal/middleware"
	"github.com/jobboardhq/jobboard-backend/internal/models"
)

type UserHandler struct {
	users     UserStore
	gateway   AIGateway
	audit     AuditRecorder
	uploadDir string
}

func NewUserHandler(users UserStore, gateway AIGateway, audit AuditRecorder, uploadDir string) *UserHandler {
	return &UserHandler{users: users, gateway: gateway, audit: audit, uploadDir: uploadDir}
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := h.users.Save(user); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	h.audit.Record(&user.ID, "Profile Updated", "User", &user.ID, "Contact fields updated", clientIP(c))
	return c.JSON(user)
}

func (h *UserHandler) UpdateSkills(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.UpdateSkillsRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := dto.Validate.Struct(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Skills list is required")
	}

	user.Skills = datatypes.JSONSlice[string](req.Skills)
	if err := h.users.Save(user); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	h.audit.Record(&user.ID, "Profile Updated", "User", &user.ID, "Skills replaced", clientIP(c))
	return c.JSON(user)
}

func (h *UserHandler) UpdateExperience(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.UpdateExperienceRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := dto.Validate.Struct(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Experience list is required")
	}

	user.Experience = datatypes.JSONSlice[models.ExperienceEntry](models.NormalizeExperience(req.Experience))
	if err := h.users.Save(user); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	h.audit.Record(&user.ID, "Profile Updated", "User", &user.ID, "Experience replaced", clientIP(c))
	return c.JSON(user)
}

func (h *UserHandler) UpdatePassword(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := dto.Validate.Struct(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Current and new password are required")
	}

	// Plain text comparison, matching storage. See DESIGN.md.
	if user.Password != req.CurrentPassword {
		return fail(c, fiber.StatusUnauthorized, "Current password is incorrect")
	}

	user.Password = req.NewPassword
	if err := h.users.Save(user); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	h.audit.Record(&user.ID, "Password Changed", "User", &user.ID, "", clientIP(c))
	return c.JSON(dto.MessageResponse{Message: "Password updated"})
}

func (h *UserHandler) CompleteProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	user.IsProfileComplete = true
	if err := h.users.Save(user); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{"message": "Profile marked as complete", "isProfileComplete": true})
}

// UploadResume stores the file, runs AI extraction, and on success replaces
// the user's skills, experience and resume fields wholesale. On extraction
// failure nothing about the user changes. The stored file is not cleaned up
// on failure; see the orphaned-uploads note in DESIGN.md.
func (h *UserHandler) UploadResume(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Please upload a file")
	}

	dst := filepath.Join(h.uploadDir, uuid.New().String()+filepath.Ext(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, dst); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to store upload: "+err.Error())
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to read upload: "+err.Error())
	}

	result := h.gateway.ExtractProfile(c.Context(), data, fileHeader.Header.Get("Content-Type"))
	if result.Error != "" {
		return fail(c, fiber.StatusUnprocessableEntity, result.Error)
	}

	user.ResumePath = dst
	user.ResumeOriginalName = fileHeader.Filename
	user.ResumeText = result.RawText
	user.Skills = datatypes.JSONSlice[string](result.Skills)
	user.Experience = datatypes.JSONSlice[models.ExperienceEntry](result.Experience)

	if err := h.users.Save(user); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	h.audit.Record(&user.ID, "Resume Uploaded", "User", &user.ID, "File: "+fileHeader.Filename, clientIP(c))

	return c.JSON(dto.ResumeUploadResponse{
		Message:    "Resume parsed and profile updated",
		Skills:     result.Skills,
		Experience: result.Experience,
	})
}

func (h *UserHandler) UploadPhoto(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Please upload a file")
	}

	dst := filepath.Join(h.uploadDir, uuid.New().String()+filepath.Ext(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, dst); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to store upload: "+err.Error())
	}

	user.ProfilePicture = dst
	if err := h.users.Save(user); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{"message": "Profile photo updated", "profilePicture": user.ProfilePicture})
}

// --- Admin handlers ---

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(users)
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user id")
	}

	user, err := h.users.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, fiber.StatusNotFound, "User not found")
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	if user.Role == models.RoleAdmin {
		return fail(c, fiber.StatusBadRequest, "Cannot delete admin user")
	}

	if err := h.users.Delete(user); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	h.audit.Record(&actor.ID, "User Deleted", "User", &user.ID, "Email: "+user.Email, clientIP(c))
	return c.JSON(dto.MessageResponse{Message: "User removed"})
}

func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := dto.Validate.Struct(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Role is required")
	}

	user, err := h.users.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, fiber.StatusNotFound, "User not found")
		}
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	user.Role = models.NormalizeRole(req.Role)
	if err := h.users.Save(user); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	h.audit.Record(&actor.ID, "User Role Updated", "User", &user.ID, "New Role: "+user.Role, clientIP(c))

	return c.JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}
