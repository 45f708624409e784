package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/barber-portal/internal/domain"
	"github.com/spec-kit/barber-portal/internal/events"
	"github.com/spec-kit/barber-portal/internal/observability"
	"github.com/spec-kit/barber-portal/internal/repository"
	"github.com/spec-kit/barber-portal/internal/session"
	apperrors "github.com/spec-kit/barber-portal/pkg/util"
)

// Reloader refreshes a session's cached data set.
type Reloader interface {
	LoadData(ctx context.Context, sess *session.Session)
}

// ScheduleService coordinates appointment lifecycle transitions and
// schedule block management for a signed-in staff member.
type ScheduleService struct {
	appts      repository.AppointmentRepository
	blocks     repository.BlockRepository
	history    repository.HistoryRepository
	reloader   Reloader
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// ScheduleDependencies bundles requirements for the schedule service.
type ScheduleDependencies struct {
	AppointmentRepo repository.AppointmentRepository
	BlockRepo       repository.BlockRepository
	HistoryRepo     repository.HistoryRepository
	Reloader        Reloader
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// BlockInput describes a block request payload. Any approval status the
// caller supplies is discarded; new blocks always start pending.
type BlockInput struct {
	Type      domain.BlockType
	StartDate time.Time
	EndDate   time.Time
	StartTime *string
	EndTime   *string
	AllDay    bool
	Reason    string
}

// NewScheduleService constructs the service.
func NewScheduleService(deps ScheduleDependencies) *ScheduleService {
	return &ScheduleService{
		appts:      deps.AppointmentRepo,
		blocks:     deps.BlockRepo,
		history:    deps.HistoryRepo,
		reloader:   deps.Reloader,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// Confirm moves a pending appointment to confirmed.
func (s *ScheduleService) Confirm(ctx context.Context, sess *session.Session, id string) error {
	return s.SetStatus(ctx, sess, id, domain.AppointmentStatusConfirmed)
}

// Start moves a confirmed appointment to in-progress and records the
// start timestamp.
func (s *ScheduleService) Start(ctx context.Context, sess *session.Session, id string) error {
	now := s.now()
	return s.setStatus(ctx, sess, id, repository.StatusWrite{
		Status:    domain.AppointmentStatusInProgress,
		StartedAt: &now,
	})
}

// Complete moves an in-progress appointment to completed, records the
// completion timestamp and reloads the session's data set so the
// earnings aggregate picks up the new completed appointment.
func (s *ScheduleService) Complete(ctx context.Context, sess *session.Session, id string) error {
	now := s.now()
	if err := s.setStatus(ctx, sess, id, repository.StatusWrite{
		Status:      domain.AppointmentStatusCompleted,
		CompletedAt: &now,
	}); err != nil {
		return err
	}
	s.reloader.LoadData(ctx, sess)
	return nil
}

// MarkNoShow marks a pending or confirmed appointment as a no-show.
func (s *ScheduleService) MarkNoShow(ctx context.Context, sess *session.Session, id string) error {
	return s.SetStatus(ctx, sess, id, domain.AppointmentStatusNoShow)
}

// SetStatus applies an unconditional status overwrite. Callers are
// responsible for only offering transitions the lifecycle allows; the
// write itself does not gate on the current status.
func (s *ScheduleService) SetStatus(ctx context.Context, sess *session.Session, id string, status domain.AppointmentStatus) error {
	return s.setStatus(ctx, sess, id, repository.StatusWrite{Status: status})
}

func (s *ScheduleService) setStatus(ctx context.Context, sess *session.Session, id string, write repository.StatusWrite) error {
	lock := sess.AppointmentLock(id)
	lock.Lock()
	defer lock.Unlock()

	current, ok := sess.FindAppointment(id)
	if !ok {
		fetched, err := s.appts.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("appointment", map[string]any{"id": id})
			}
			return apperrors.NewRemoteFailure(err)
		}
		current = *fetched
	}

	// Remote write first; the cache is only touched after the store
	// acknowledges, so a failed write needs no rollback.
	if err := s.appts.SetStatus(ctx, id, write); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("appointment", map[string]any{"id": id})
		}
		return apperrors.NewRemoteFailure(err)
	}

	sess.MirrorStatus(id, write.Status, write.StartedAt, write.CompletedAt, s.now())
	observability.IncAppointmentTransition(string(write.Status))

	staffID := sess.StaffID()
	s.recordTransition(ctx, id, staffID, current.Status, write.Status)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventAppointmentStatusChanged,
		StaffID: staffID,
		Payload: events.AppointmentStatusChangedPayload{
			AppointmentID: id,
			OldStatus:     current.Status,
			NewStatus:     write.Status,
		},
	})
	return nil
}

// AddBlock validates and persists a new unavailability request and
// appends the stored block to the session cache.
func (s *ScheduleService) AddBlock(ctx context.Context, sess *session.Session, input BlockInput) (*domain.ScheduleBlock, error) {
	staff := sess.Staff()

	endDate := input.EndDate
	if endDate.IsZero() {
		endDate = input.StartDate
	}
	if input.StartDate.IsZero() {
		return nil, apperrors.NewValidationError("start date is required", nil)
	}
	if endDate.Before(input.StartDate) {
		return nil, apperrors.NewValidationError("end date must not precede start date", nil)
	}
	if !input.AllDay && (input.StartTime == nil || input.EndTime == nil) {
		return nil, apperrors.NewValidationError("start and end times are required unless the block spans the whole day", nil)
	}

	block := &domain.ScheduleBlock{
		StaffID:   staff.ID,
		StaffName: staff.Name,
		Type:      input.Type,
		StartDate: input.StartDate,
		EndDate:   endDate,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		AllDay:    input.AllDay,
		Reason:    strings.TrimSpace(input.Reason),
		Approval:  domain.BlockApprovalPending,
	}

	if err := s.blocks.Create(ctx, block); err != nil {
		return nil, apperrors.NewRemoteFailure(err)
	}

	sess.AppendBlock(*block)
	observability.IncBlockRequest(string(block.Type))
	s.publishEvent(ctx, events.Event{
		Type:    events.EventBlockRequested,
		StaffID: staff.ID,
		Payload: events.BlockRequestedPayload{
			BlockID:   block.ID,
			BlockType: block.Type,
			StartDate: block.StartDate,
			EndDate:   block.EndDate,
		},
	})
	return block, nil
}

// RemoveBlock deletes a block owned by the session's staff member. Only
// pending blocks may be removed; approved and rejected requests belong
// to the administrative record.
func (s *ScheduleService) RemoveBlock(ctx context.Context, sess *session.Session, id string) error {
	block, ok := sess.FindBlock(id)
	if !ok {
		fetched, err := s.blocks.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("schedule block", map[string]any{"id": id})
			}
			return apperrors.NewRemoteFailure(err)
		}
		block = *fetched
	}
	if block.StaffID != sess.StaffID() {
		return apperrors.NewForbidden("block belongs to another staff member")
	}
	if block.Approval != domain.BlockApprovalPending {
		return apperrors.NewValidationError("only pending blocks can be removed", nil)
	}

	if err := s.blocks.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("schedule block", map[string]any{"id": id})
		}
		return apperrors.NewRemoteFailure(err)
	}

	sess.DropBlock(id)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventBlockRemoved,
		StaffID: sess.StaffID(),
		Payload: events.BlockRemovedPayload{BlockID: id},
	})
	return nil
}

// TransitionHistory lists the audit trail for one appointment.
func (s *ScheduleService) TransitionHistory(ctx context.Context, id string) ([]repository.TransitionRecord, error) {
	records, err := s.history.ListByAppointment(ctx, id)
	if err != nil {
		return nil, apperrors.NewRemoteFailure(err)
	}
	return records, nil
}

func (s *ScheduleService) recordTransition(ctx context.Context, apptID, staffID string, from, to domain.AppointmentStatus) {
	record := &repository.TransitionRecord{
		AppointmentID: apptID,
		ActorStaffID:  &staffID,
		OldStatus:     from,
		NewStatus:     to,
	}
	if err := s.history.Create(ctx, record); err != nil {
		s.logger.Warn("failed to record transition", zap.String("appointment_id", apptID), zap.Error(err))
	}
}

func (s *ScheduleService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
