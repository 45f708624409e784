package dto

import (
	"time"

	"github.com/spec-kit/barber-portal/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse payload.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Staff     StaffProfile `json:"staff"`
}

// StaffProfile is the staff identity exposed over the API. The credential
// hash never leaves the service.
type StaffProfile struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	AvatarURL      *string    `json:"avatar_url,omitempty"`
	CommissionRate float64    `json:"commission_rate"`
	Location       string     `json:"location"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
}

// NewStaffProfile maps a domain staff member to its API shape.
func NewStaffProfile(staff domain.StaffMember) StaffProfile {
	return StaffProfile{
		ID:             staff.ID,
		Name:           staff.Name,
		Email:          staff.Email,
		Role:           staff.Role,
		AvatarURL:      staff.AvatarURL,
		CommissionRate: staff.EffectiveCommissionRate(),
		Location:       staff.Location,
		LastLoginAt:    staff.LastLoginAt,
	}
}

// PasswordResetRequest payload for initiating reset.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload for confirming reset.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
