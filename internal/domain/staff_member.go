package domain

import "time"

// DefaultCommissionRate applies when a staff member has no configured rate.
const DefaultCommissionRate = 50.0

// StaffMember models a barber or stylist account in the portal.
// Accounts are provisioned externally; this service only reads and
// updates them.
type StaffMember struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           string
	AvatarURL      *string
	Active         bool
	CommissionRate float64
	Location       string
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EffectiveCommissionRate returns the configured rate, falling back to the
// default when none is set.
func (s *StaffMember) EffectiveCommissionRate() float64 {
	if s.CommissionRate <= 0 {
		return DefaultCommissionRate
	}
	return s.CommissionRate
}
