package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/barber-portal/internal/domain"
	"github.com/spec-kit/barber-portal/internal/events"
	"github.com/spec-kit/barber-portal/internal/repository"
	"github.com/spec-kit/barber-portal/internal/session"
	apperrors "github.com/spec-kit/barber-portal/pkg/util"
)

type fakeAppointmentRepo struct {
	byID         map[string]domain.Appointment
	setStatusErr error
	writes       []repository.StatusWrite
}

func (f *fakeAppointmentRepo) ListByStaff(_ context.Context, staffID string) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for _, appt := range f.byID {
		if appt.StaffID == staffID {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	appt, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &appt, nil
}

func (f *fakeAppointmentRepo) SetStatus(_ context.Context, id string, write repository.StatusWrite) error {
	if f.setStatusErr != nil {
		return f.setStatusErr
	}
	appt, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	appt.Status = write.Status
	if write.StartedAt != nil {
		appt.StartedAt = write.StartedAt
	}
	if write.CompletedAt != nil {
		appt.CompletedAt = write.CompletedAt
	}
	f.byID[id] = appt
	f.writes = append(f.writes, write)
	return nil
}

type fakeBlockRepo struct {
	byID      map[string]domain.ScheduleBlock
	createErr error
	nextID    string
}

func (f *fakeBlockRepo) Create(_ context.Context, block *domain.ScheduleBlock) error {
	if f.createErr != nil {
		return f.createErr
	}
	block.ID = f.nextID
	block.CreatedAt = time.Now()
	f.byID[block.ID] = *block
	return nil
}

func (f *fakeBlockRepo) ListByStaff(_ context.Context, staffID string) ([]domain.ScheduleBlock, error) {
	var out []domain.ScheduleBlock
	for _, block := range f.byID {
		if block.StaffID == staffID {
			out = append(out, block)
		}
	}
	return out, nil
}

func (f *fakeBlockRepo) GetByID(_ context.Context, id string) (*domain.ScheduleBlock, error) {
	block, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &block, nil
}

func (f *fakeBlockRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

type fakeHistoryRepo struct {
	records []repository.TransitionRecord
}

func (f *fakeHistoryRepo) Create(_ context.Context, record *repository.TransitionRecord) error {
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeHistoryRepo) ListByAppointment(_ context.Context, appointmentID string) ([]repository.TransitionRecord, error) {
	var out []repository.TransitionRecord
	for _, record := range f.records {
		if record.AppointmentID == appointmentID {
			out = append(out, record)
		}
	}
	return out, nil
}

type fakeReloader struct {
	calls int
	fn    func(sess *session.Session)
}

func (f *fakeReloader) LoadData(_ context.Context, sess *session.Session) {
	f.calls++
	if f.fn != nil {
		f.fn(sess)
	}
}

type scheduleFixture struct {
	service  *ScheduleService
	appts    *fakeAppointmentRepo
	blocks   *fakeBlockRepo
	history  *fakeHistoryRepo
	reloader *fakeReloader
	sess     *session.Session
}

func newScheduleFixture(t *testing.T, appointments ...domain.Appointment) *scheduleFixture {
	t.Helper()

	appts := &fakeAppointmentRepo{byID: map[string]domain.Appointment{}}
	for _, appt := range appointments {
		appts.byID[appt.ID] = appt
	}
	blocks := &fakeBlockRepo{byID: map[string]domain.ScheduleBlock{}, nextID: "block-1"}
	history := &fakeHistoryRepo{}
	reloader := &fakeReloader{}

	svc := NewScheduleService(ScheduleDependencies{
		AppointmentRepo: appts,
		BlockRepo:       blocks,
		HistoryRepo:     history,
		Reloader:        reloader,
		Dispatcher:      events.NewInMemoryDispatcher(),
		Logger:          zap.NewNop(),
	})

	staff := domain.StaffMember{ID: "staff-1", Name: "Marco", Active: true}
	sess := session.New("sess-1", staff, time.Now())
	sess.ReplaceAppointments(appointments)

	return &scheduleFixture{service: svc, appts: appts, blocks: blocks, history: history, reloader: reloader, sess: sess}
}

func pendingAppointment(id string, price float64) domain.Appointment {
	return domain.Appointment{
		ID:          id,
		StaffID:     "staff-1",
		Date:        time.Now(),
		ServiceName: "Haircut",
		Price:       price,
		Status:      domain.AppointmentStatusPending,
	}
}

func TestLifecycleConfirmStartComplete(t *testing.T) {
	fx := newScheduleFixture(t, pendingAppointment("appt-1", 40))
	ctx := context.Background()

	require.NoError(t, fx.service.Confirm(ctx, fx.sess, "appt-1"))
	appt, ok := fx.sess.FindAppointment("appt-1")
	require.True(t, ok)
	assert.Equal(t, domain.AppointmentStatusConfirmed, appt.Status)

	require.NoError(t, fx.service.Start(ctx, fx.sess, "appt-1"))
	appt, _ = fx.sess.FindAppointment("appt-1")
	assert.Equal(t, domain.AppointmentStatusInProgress, appt.Status)
	assert.NotNil(t, appt.StartedAt)

	require.NoError(t, fx.service.Complete(ctx, fx.sess, "appt-1"))
	appt, _ = fx.sess.FindAppointment("appt-1")
	assert.Equal(t, domain.AppointmentStatusCompleted, appt.Status)
	assert.NotNil(t, appt.CompletedAt)

	// The stored price is never touched by transitions.
	assert.Equal(t, 40.0, appt.Price)
	assert.Equal(t, 40.0, fx.appts.byID["appt-1"].Price)
}

func TestCompleteTriggersReload(t *testing.T) {
	fx := newScheduleFixture(t, pendingAppointment("appt-1", 50))
	fx.reloader.fn = func(sess *session.Session) {
		sess.SetEarnings(Summarize(nil, 50, time.Now()))
	}

	require.NoError(t, fx.service.Complete(context.Background(), fx.sess, "appt-1"))
	assert.Equal(t, 1, fx.reloader.calls)
}

func TestSetStatusWritesUnconditionally(t *testing.T) {
	// The write path does not gate on the current status; a pending
	// appointment can be forced straight to completed.
	fx := newScheduleFixture(t, pendingAppointment("appt-1", 40))

	require.NoError(t, fx.service.SetStatus(context.Background(), fx.sess, "appt-1", domain.AppointmentStatusCompleted))
	appt, _ := fx.sess.FindAppointment("appt-1")
	assert.Equal(t, domain.AppointmentStatusCompleted, appt.Status)
}

func TestSetStatusRemoteFailureLeavesCacheUntouched(t *testing.T) {
	fx := newScheduleFixture(t, pendingAppointment("appt-1", 40))
	fx.appts.setStatusErr = errors.New("connection reset")

	err := fx.service.Confirm(context.Background(), fx.sess, "appt-1")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "REMOTE_FAILURE", domainErr.Code)

	appt, _ := fx.sess.FindAppointment("appt-1")
	assert.Equal(t, domain.AppointmentStatusPending, appt.Status)
}

func TestSetStatusUnknownAppointment(t *testing.T) {
	fx := newScheduleFixture(t)

	err := fx.service.Confirm(context.Background(), fx.sess, "missing")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestSetStatusRecordsHistory(t *testing.T) {
	fx := newScheduleFixture(t, pendingAppointment("appt-1", 40))

	require.NoError(t, fx.service.Confirm(context.Background(), fx.sess, "appt-1"))

	require.Len(t, fx.history.records, 1)
	record := fx.history.records[0]
	assert.Equal(t, domain.AppointmentStatusPending, record.OldStatus)
	assert.Equal(t, domain.AppointmentStatusConfirmed, record.NewStatus)
	require.NotNil(t, record.ActorStaffID)
	assert.Equal(t, "staff-1", *record.ActorStaffID)
}

func TestAddBlockForcesPendingApproval(t *testing.T) {
	fx := newScheduleFixture(t)

	block, err := fx.service.AddBlock(context.Background(), fx.sess, BlockInput{
		Type:      domain.BlockTypeVacation,
		StartDate: day(2026, time.August, 1),
		EndDate:   day(2026, time.August, 7),
		AllDay:    true,
		Reason:    "summer trip",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BlockApprovalPending, block.Approval)
	assert.Equal(t, "staff-1", block.StaffID)
	assert.Equal(t, "Marco", block.StaffName)

	cached := fx.sess.Blocks()
	require.Len(t, cached, 1)
	assert.Equal(t, block.ID, cached[0].ID)
}

func TestAddBlockDefaultsEndDate(t *testing.T) {
	fx := newScheduleFixture(t)

	block, err := fx.service.AddBlock(context.Background(), fx.sess, BlockInput{
		Type:      domain.BlockTypeDayOff,
		StartDate: day(2026, time.August, 3),
		AllDay:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, day(2026, time.August, 3), block.EndDate)
}

func TestAddBlockValidation(t *testing.T) {
	fx := newScheduleFixture(t)
	ctx := context.Background()

	_, err := fx.service.AddBlock(ctx, fx.sess, BlockInput{Type: domain.BlockTypeBreak, AllDay: true})
	assert.Error(t, err, "missing start date")

	_, err = fx.service.AddBlock(ctx, fx.sess, BlockInput{
		Type:      domain.BlockTypeBreak,
		StartDate: day(2026, time.August, 5),
		EndDate:   day(2026, time.August, 4),
		AllDay:    true,
	})
	assert.Error(t, err, "end before start")

	_, err = fx.service.AddBlock(ctx, fx.sess, BlockInput{
		Type:      domain.BlockTypeBreak,
		StartDate: day(2026, time.August, 5),
	})
	assert.Error(t, err, "timed block without times")
}

func TestRemoveBlockPendingOnly(t *testing.T) {
	fx := newScheduleFixture(t)
	ctx := context.Background()

	block, err := fx.service.AddBlock(ctx, fx.sess, BlockInput{
		Type:      domain.BlockTypeBreak,
		StartDate: day(2026, time.August, 5),
		AllDay:    true,
	})
	require.NoError(t, err)

	require.NoError(t, fx.service.RemoveBlock(ctx, fx.sess, block.ID))
	assert.Empty(t, fx.sess.Blocks())
	assert.Empty(t, fx.blocks.byID)
}

func TestRemoveBlockRejectsApproved(t *testing.T) {
	fx := newScheduleFixture(t)

	approved := domain.ScheduleBlock{
		ID:       "block-9",
		StaffID:  "staff-1",
		Type:     domain.BlockTypeVacation,
		Approval: domain.BlockApprovalApproved,
	}
	fx.blocks.byID[approved.ID] = approved
	fx.sess.ReplaceBlocks([]domain.ScheduleBlock{approved})

	err := fx.service.RemoveBlock(context.Background(), fx.sess, approved.ID)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)

	assert.Len(t, fx.sess.Blocks(), 1)
}

func TestRemoveBlockForeignOwner(t *testing.T) {
	fx := newScheduleFixture(t)

	foreign := domain.ScheduleBlock{
		ID:       "block-7",
		StaffID:  "staff-2",
		Type:     domain.BlockTypeBreak,
		Approval: domain.BlockApprovalPending,
	}
	fx.blocks.byID[foreign.ID] = foreign

	err := fx.service.RemoveBlock(context.Background(), fx.sess, foreign.ID)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}
