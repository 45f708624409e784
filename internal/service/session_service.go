package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spec-kit/barber-portal/internal/auth"
	"github.com/spec-kit/barber-portal/internal/config"
	"github.com/spec-kit/barber-portal/internal/observability"
	"github.com/spec-kit/barber-portal/internal/repository"
	"github.com/spec-kit/barber-portal/internal/session"
	apperrors "github.com/spec-kit/barber-portal/pkg/util"
)

// SessionService owns authentication, session persistence and the data
// loading orchestration for signed-in staff.
type SessionService struct {
	staff    repository.StaffRepository
	appts    repository.AppointmentRepository
	blocks   repository.BlockRepository
	catalog  repository.CatalogRepository
	store    *session.Store
	tokenMgr *auth.TokenManager
	logger   *zap.Logger

	now func() time.Time

	limiterMu   sync.Mutex
	limiters    map[string]*rate.Limiter
	limiterRate rate.Limit
	limitBurst  int
}

// SessionDependencies bundles repo requirements for the session service.
type SessionDependencies struct {
	StaffRepo       repository.StaffRepository
	AppointmentRepo repository.AppointmentRepository
	BlockRepo       repository.BlockRepository
	CatalogRepo     repository.CatalogRepository
	Store           *session.Store
	Logger          *zap.Logger
}

// NewSessionService builds the service.
func NewSessionService(cfg config.Config, deps SessionDependencies) *SessionService {
	limit := rate.Limit(cfg.Auth.LoginRatePerMinute / 60)
	if limit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Auth.LoginBurst
	if burst <= 0 {
		burst = 1
	}
	return &SessionService{
		staff:       deps.StaffRepo,
		appts:       deps.AppointmentRepo,
		blocks:      deps.BlockRepo,
		catalog:     deps.CatalogRepo,
		store:       deps.Store,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL()),
		logger:      deps.Logger,
		now:         time.Now,
		limiters:    make(map[string]*rate.Limiter),
		limiterRate: limit,
		limitBurst:  burst,
	}
}

// Login authenticates a staff member, persists a fresh session and loads
// the member's data set. The last-login stamp is written asynchronously;
// its failure never fails the login.
func (s *SessionService) Login(ctx context.Context, email, password string) (*session.Session, string, time.Time, error) {
	if !s.loginLimiter(email).Allow() {
		observability.IncLoginAttempt("throttled")
		return nil, "", time.Time{}, apperrors.NewTooManyRequests("too many login attempts")
	}

	staff, err := s.staff.GetByEmailActive(ctx, email)
	if err != nil {
		observability.IncLoginAttempt("failure")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewNotFound("staff member", nil)
		}
		return nil, "", time.Time{}, apperrors.NewRemoteFailure(err)
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		observability.IncLoginAttempt("failure")
		return nil, "", time.Time{}, apperrors.NewInvalidCredential("invalid credentials")
	}

	now := s.now()
	sessionID := uuid.NewString()
	record := session.Record{StaffID: staff.ID, CreatedAt: now}
	if err := s.store.SaveRecord(ctx, sessionID, record); err != nil {
		observability.IncLoginAttempt("failure")
		return nil, "", time.Time{}, apperrors.NewRemoteFailure(err)
	}

	sess := session.New(sessionID, *staff, now)
	s.LoadData(ctx, sess)
	s.store.PutLive(sess)

	token, expiresAt, err := s.tokenMgr.GenerateToken(staff.ID, sessionID)
	if err != nil {
		s.store.DropLive(sessionID)
		_ = s.store.DeleteRecord(ctx, sessionID)
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	go s.touchLastLogin(staff.ID)

	observability.IncLoginAttempt("success")
	s.logger.Info("staff logged in", zap.String("staff_id", staff.ID))
	return sess, token, expiresAt, nil
}

// Logout clears the active identity and cached collections and deletes
// the persisted session. Logging out an absent session is a no-op.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	s.store.DropLive(sessionID)
	if err := s.store.DeleteRecord(ctx, sessionID); err != nil {
		s.logger.Warn("failed to delete session record", zap.String("session_id", sessionID), zap.Error(err))
	}
	return nil
}

// Restore resolves a session id to a live session, rebuilding it from the
// persisted record when needed. Expired records and missing or inactive
// staff all resolve to the logged-out state.
func (s *SessionService) Restore(ctx context.Context, sessionID string) (*session.Session, error) {
	if sess, ok := s.store.GetLive(sessionID); ok {
		return sess, nil
	}

	record, err := s.store.LoadRecord(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewRemoteFailure(err)
	}
	if record == nil {
		return nil, apperrors.NewUnauthorized("no active session")
	}
	if record.Expired(s.store.TTL(), s.now()) {
		_ = s.Logout(ctx, sessionID)
		return nil, apperrors.NewUnauthorized("session expired")
	}

	staff, err := s.staff.GetByID(ctx, record.StaffID)
	if err != nil || !staff.Active {
		_ = s.Logout(ctx, sessionID)
		return nil, apperrors.NewUnauthorized("session no longer valid")
	}

	sess := session.New(sessionID, *staff, record.CreatedAt)
	s.LoadData(ctx, sess)
	s.store.PutLive(sess)
	return sess, nil
}

// LoadData refreshes the session's cached collections and recomputes the
// earnings summary. Fetch failures are logged and swallowed; collections
// already fetched before a failure are retained as-is.
func (s *SessionService) LoadData(ctx context.Context, sess *session.Session) {
	staffID := sess.StaffID()
	ok := true

	if appts, err := s.appts.ListByStaff(ctx, staffID); err != nil {
		ok = false
		s.logger.Warn("failed to load appointments", zap.String("staff_id", staffID), zap.Error(err))
	} else {
		sess.ReplaceAppointments(appts)
	}

	if blocks, err := s.blocks.ListByStaff(ctx, staffID); err != nil {
		ok = false
		s.logger.Warn("failed to load blocks", zap.String("staff_id", staffID), zap.Error(err))
	} else {
		sess.ReplaceBlocks(blocks)
	}

	services, err := s.catalog.ListServices(ctx)
	if err != nil {
		ok = false
		s.logger.Warn("failed to load service catalog", zap.Error(err))
		services = sess.Services()
	}
	settings, err := s.catalog.GetSettings(ctx)
	if err != nil {
		ok = false
		s.logger.Warn("failed to load settings", zap.Error(err))
		settings = sess.Settings()
	}
	sess.ReplaceCatalog(services, settings)

	staff := sess.Staff()
	sess.SetEarnings(Summarize(sess.Appointments(), staff.CommissionRate, s.now()))

	if ok {
		observability.IncDataReload("success")
	} else {
		observability.IncDataReload("partial")
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *SessionService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *SessionService) touchLastLogin(staffID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.staff.TouchLastLogin(ctx, staffID); err != nil {
		s.logger.Warn("failed to record last login", zap.String("staff_id", staffID), zap.Error(err))
	}
}

func (s *SessionService) loginLimiter(email string) *rate.Limiter {
	key := strings.ToLower(strings.TrimSpace(email))
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	limiter, ok := s.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(s.limiterRate, s.limitBurst)
		s.limiters[key] = limiter
	}
	return limiter
}
