package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/barber-portal/internal/auth"
	"github.com/spec-kit/barber-portal/internal/config"
	"github.com/spec-kit/barber-portal/internal/domain"
	"github.com/spec-kit/barber-portal/internal/events"
	"github.com/spec-kit/barber-portal/internal/repository"
	"github.com/spec-kit/barber-portal/internal/session"
	apperrors "github.com/spec-kit/barber-portal/pkg/util"
)

type fakeResetRepo struct {
	byToken map[string]repository.PasswordResetToken
	nextID  int
}

func (f *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	f.nextID++
	token.ID = "reset-" + string(rune('0'+f.nextID))
	token.CreatedAt = time.Now()
	f.byToken[token.Token] = *token
	return nil
}

func (f *fakeResetRepo) GetByToken(_ context.Context, token string) (*repository.PasswordResetToken, error) {
	stored, ok := f.byToken[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &stored, nil
}

func (f *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	for key, token := range f.byToken {
		if token.ID == id {
			now := time.Now()
			token.UsedAt = &now
			f.byToken[key] = token
			return nil
		}
	}
	return pgx.ErrNoRows
}

type profileFixture struct {
	service *ProfileService
	staff   *fakeStaffRepo
	resets  *fakeResetRepo
	sess    *session.Session
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	member := domain.StaffMember{
		ID:           "staff-1",
		Name:         "Marco",
		Email:        "marco@example.com",
		PasswordHash: string(hash),
		Location:     "Main Street",
		Active:       true,
	}
	staff := &fakeStaffRepo{
		byID:    map[string]domain.StaffMember{member.ID: member},
		byEmail: map[string]domain.StaffMember{member.Email: member},
	}
	resets := &fakeResetRepo{byToken: map[string]repository.PasswordResetToken{}}

	cfg := config.Config{Auth: config.AuthConfig{
		BcryptCost:              bcrypt.MinCost,
		PasswordResetTTLMinutes: 30,
	}}
	svc := NewProfileService(cfg, ProfileDependencies{
		StaffRepo:         staff,
		PasswordResetRepo: resets,
		Dispatcher:        events.NewInMemoryDispatcher(),
		Logger:            zap.NewNop(),
	})

	sess := session.New("sess-1", member, time.Now())
	return &profileFixture{service: svc, staff: staff, resets: resets, sess: sess}
}

func strPtr(s string) *string { return &s }

func TestUpdateProfileMergesFields(t *testing.T) {
	fx := newProfileFixture(t)

	err := fx.service.UpdateProfile(context.Background(), fx.sess, repository.ProfileUpdate{
		Name:     strPtr("Marco B."),
		Location: strPtr("Harbor District"),
	})
	require.NoError(t, err)

	// Both the store and the session identity carry the merge; the
	// untouched avatar stays as it was.
	stored := fx.staff.byID["staff-1"]
	assert.Equal(t, "Marco B.", stored.Name)
	assert.Equal(t, "Harbor District", stored.Location)
	assert.Nil(t, stored.AvatarURL)

	cached := fx.sess.Staff()
	assert.Equal(t, "Marco B.", cached.Name)
	assert.Equal(t, "Harbor District", cached.Location)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	fx := newProfileFixture(t)

	err := fx.service.ChangePassword(context.Background(), fx.sess, "wrong", "newpass")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIAL", domainErr.Code)
}

func TestChangePasswordStoresNewHash(t *testing.T) {
	fx := newProfileFixture(t)
	oldHash := fx.sess.Staff().PasswordHash

	require.NoError(t, fx.service.ChangePassword(context.Background(), fx.sess, "secret", "newpass"))

	stored := fx.staff.byID["staff-1"]
	assert.NotEqual(t, oldHash, stored.PasswordHash)
	require.NoError(t, auth.ComparePassword(stored.PasswordHash, "newpass"))

	// The session mirrors the new hash so a follow-up change verifies
	// against it.
	assert.Equal(t, stored.PasswordHash, fx.sess.Staff().PasswordHash)
	require.NoError(t, fx.service.ChangePassword(context.Background(), fx.sess, "newpass", "another"))
}

func TestPasswordResetFlow(t *testing.T) {
	fx := newProfileFixture(t)
	ctx := context.Background()

	token, err := fx.service.RequestPasswordReset(ctx, "marco@example.com")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", token.StaffID)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	require.NoError(t, fx.service.ConfirmPasswordReset(ctx, token.Token, "resetpass"))
	stored := fx.staff.byID["staff-1"]
	require.NoError(t, auth.ComparePassword(stored.PasswordHash, "resetpass"))

	// A consumed token cannot be replayed.
	err = fx.service.ConfirmPasswordReset(ctx, token.Token, "again")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	fx := newProfileFixture(t)

	_, err := fx.service.RequestPasswordReset(context.Background(), "nobody@example.com")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestPasswordResetExpiredToken(t *testing.T) {
	fx := newProfileFixture(t)
	ctx := context.Background()

	expired := repository.PasswordResetToken{
		ID:        "reset-x",
		StaffID:   "staff-1",
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	fx.resets.byToken[expired.Token] = expired

	err := fx.service.ConfirmPasswordReset(ctx, expired.Token, "whatever")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}
