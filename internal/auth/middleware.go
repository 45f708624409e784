package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/barber-portal/internal/session"
	apperrors "github.com/spec-kit/barber-portal/pkg/util"
)

const sessionKey = "portal_session"

// SessionResolver resolves a session id to a live session, rebuilding it
// from the persisted record when the process has restarted.
type SessionResolver interface {
	Restore(ctx context.Context, sessionID string) (*session.Session, error)
}

// SessionMiddleware validates bearer session tokens and loads sessions.
type SessionMiddleware struct {
	tokens   *TokenManager
	resolver SessionResolver
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, resolver SessionResolver) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, resolver: resolver}
}

// Handle enforces authentication for protected routes.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	sess, err := m.resolver.Restore(c.UserContext(), claims.SessionID)
	if err != nil {
		return err
	}

	c.Locals(sessionKey, sess)
	return c.Next()
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(c *fiber.Ctx) (*session.Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	sess, ok := val.(*session.Session)
	return sess, ok
}

// RequireSession ensures a session was loaded by the middleware.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SessionFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
