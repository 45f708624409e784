package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/barber-portal/internal/api/dto"
	"github.com/spec-kit/barber-portal/internal/service"
)

// AuthHandler exposes login, logout and password reset endpoints.
type AuthHandler struct {
	sessions *service.SessionService
	profiles *service.ProfileService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(sessions *service.SessionService, profiles *service.ProfileService) *AuthHandler {
	return &AuthHandler{sessions: sessions, profiles: profiles}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	sess, token, exp, err := h.sessions.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.LoginResponse{
			Token:     token,
			ExpiresAt: exp,
			Staff:     dto.NewStaffProfile(sess.Staff()),
		},
	})
}

// Logout handles POST /auth/logout. Logout is idempotent; a malformed,
// expired, or missing token is simply a no-op.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sessionID := h.bearerSessionID(c); sessionID != "" {
		if err := h.sessions.Logout(c.UserContext(), sessionID); err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}

func (h *AuthHandler) bearerSessionID(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	claims, err := h.sessions.TokenManager().ParseToken(parts[1])
	if err != nil {
		return ""
	}
	return claims.SessionID
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	token, err := h.profiles.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": fiber.Map{
			"reset_token": token.Token,
			"expires_at":  token.ExpiresAt,
		},
	})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "token and new password required")
	}
	if len(req.NewPassword) < 4 {
		return fiber.NewError(http.StatusBadRequest, "password must be at least 4 characters")
	}

	if err := h.profiles.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_reset"}})
}
