package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/barber-portal/internal/auth"
	"github.com/spec-kit/barber-portal/internal/config"
	"github.com/spec-kit/barber-portal/internal/events"
	"github.com/spec-kit/barber-portal/internal/repository"
	"github.com/spec-kit/barber-portal/internal/session"
	apperrors "github.com/spec-kit/barber-portal/pkg/util"
)

// ProfileService handles profile merges and credential changes.
type ProfileService struct {
	staff      repository.StaffRepository
	resets     repository.PasswordResetRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	resetTTL   time.Duration
	now        func() time.Time
}

// ProfileDependencies bundles requirements for the profile service.
type ProfileDependencies struct {
	StaffRepo         repository.StaffRepository
	PasswordResetRepo repository.PasswordResetRepository
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewProfileService builds the service.
func NewProfileService(cfg config.Config, deps ProfileDependencies) *ProfileService {
	return &ProfileService{
		staff:      deps.StaffRepo,
		resets:     deps.PasswordResetRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
		now:        time.Now,
	}
}

// UpdateProfile merges the supplied fields into the staff record and, on
// acknowledgment, into the session identity. Absent fields are untouched.
func (s *ProfileService) UpdateProfile(ctx context.Context, sess *session.Session, update repository.ProfileUpdate) error {
	if err := s.staff.UpdateProfile(ctx, sess.StaffID(), update); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("staff member", nil)
		}
		return apperrors.NewRemoteFailure(err)
	}
	sess.ApplyProfile(update)

	fields := []string{}
	if update.Name != nil {
		fields = append(fields, "name")
	}
	if update.AvatarURL != nil {
		fields = append(fields, "avatar_url")
	}
	if update.Location != nil {
		fields = append(fields, "location")
	}
	s.publishEvent(ctx, sess.StaffID(), events.ProfileUpdatedPayload{Fields: fields})
	return nil
}

// ChangePassword verifies the current credential before storing the new
// hash remotely and mirroring it into the session identity.
func (s *ProfileService) ChangePassword(ctx context.Context, sess *session.Session, current, next string) error {
	staff := sess.Staff()
	if err := auth.ComparePassword(staff.PasswordHash, current); err != nil {
		return apperrors.NewInvalidCredential("current password incorrect")
	}

	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.staff.UpdatePassword(ctx, staff.ID, hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("staff member", nil)
		}
		return apperrors.NewRemoteFailure(err)
	}
	sess.SetPasswordHash(hash)
	return nil
}

// RequestPasswordReset persists a reset token for an active staff email.
func (s *ProfileService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	staff, err := s.staff.GetByEmailActive(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member", nil)
		}
		return nil, apperrors.NewRemoteFailure(err)
	}

	token := &repository.PasswordResetToken{
		StaffID:   staff.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, apperrors.NewRemoteFailure(err)
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *ProfileService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("reset token", nil)
		}
		return apperrors.NewRemoteFailure(err)
	}
	if token.UsedAt != nil || s.now().After(token.ExpiresAt) {
		return apperrors.NewValidationError("token expired or used", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.staff.UpdatePassword(ctx, token.StaffID, hash); err != nil {
		return apperrors.NewRemoteFailure(err)
	}
	return s.resets.MarkUsed(ctx, token.ID)
}

func (s *ProfileService) publishEvent(ctx context.Context, staffID string, payload events.ProfileUpdatedPayload) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventProfileUpdated,
		StaffID:   staffID,
		Timestamp: s.now(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", zap.Error(err))
	}
}
