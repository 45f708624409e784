package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/barber-portal/internal/api/dto"
	"github.com/spec-kit/barber-portal/internal/auth"
	"github.com/spec-kit/barber-portal/internal/repository"
	"github.com/spec-kit/barber-portal/internal/service"
)

// ProfileHandler exposes the staff profile endpoints.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	resp := dto.ProfileResponse{Staff: dto.NewStaffProfile(sess.Staff())}
	if settings := sess.Settings(); settings != nil {
		resp.Settings = &dto.SettingsResponse{
			ShopName:     settings.ShopName,
			Currency:     settings.Currency,
			OpeningHours: settings.OpeningHours,
		}
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Update handles PATCH /profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == nil && req.AvatarURL == nil && req.Location == nil {
		return fiber.NewError(http.StatusBadRequest, "no fields to update")
	}
	if req.Name != nil && *req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name cannot be empty")
	}

	err := h.profiles.UpdateProfile(c.UserContext(), sess, repository.ProfileUpdate{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
		Location:  req.Location,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffProfile(sess.Staff())})
}

// ChangePassword handles POST /profile/password.
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	sess, _ := auth.SessionFromContext(c)

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "current and new password required")
	}
	if len(req.NewPassword) < 4 {
		return fiber.NewError(http.StatusBadRequest, "password must be at least 4 characters")
	}

	if err := h.profiles.ChangePassword(c.UserContext(), sess, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}
