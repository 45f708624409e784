package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/barber-portal/internal/domain"
	"github.com/spec-kit/barber-portal/internal/session"
	apperrors "github.com/spec-kit/barber-portal/pkg/util"
)

type fakeResolver struct {
	sessions map[string]*session.Session
}

func (f *fakeResolver) Restore(_ context.Context, sessionID string) (*session.Session, error) {
	sess, ok := f.sessions[sessionID]
	if !ok {
		return nil, apperrors.NewUnauthorized("no active session")
	}
	return sess, nil
}

func newMiddlewareApp(t *testing.T) (*fiber.App, *TokenManager, *fakeResolver) {
	t.Helper()

	tokens := NewTokenManager("unit-secret", time.Hour)
	resolver := &fakeResolver{sessions: map[string]*session.Session{}}
	m := NewSessionMiddleware(tokens, resolver)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		}
		return nil
	})
	app.Get("/protected", m.Handle, RequireSession(), func(c *fiber.Ctx) error {
		sess, _ := SessionFromContext(c)
		return c.JSON(fiber.Map{"staff_id": sess.StaffID()})
	})
	return app, tokens, resolver
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	app, tokens, resolver := newMiddlewareApp(t)

	sess := session.New("sess-1", domain.StaffMember{ID: "staff-1"}, time.Now())
	resolver.sessions[sess.ID] = sess
	token, _, err := tokens.GenerateToken("staff-1", sess.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	app, _, _ := newMiddlewareApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareRejectsMalformedHeader(t *testing.T) {
	app, _, _ := newMiddlewareApp(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareRejectsUnknownSession(t *testing.T) {
	app, tokens, _ := newMiddlewareApp(t)

	token, _, err := tokens.GenerateToken("staff-1", "gone")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareRejectsForgedToken(t *testing.T) {
	app, _, resolver := newMiddlewareApp(t)

	sess := session.New("sess-1", domain.StaffMember{ID: "staff-1"}, time.Now())
	resolver.sessions[sess.ID] = sess

	forged, _, err := NewTokenManager("other-secret", time.Hour).GenerateToken("staff-1", sess.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+forged)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
