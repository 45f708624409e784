package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/barber-portal/internal/domain"
	"github.com/spec-kit/barber-portal/internal/repository"
)

func newTestSession() *Session {
	return New("sess-1", domain.StaffMember{ID: "staff-1", Name: "Marco"}, time.Now())
}

func TestMirrorStatusOnlyTouchesLifecycleFields(t *testing.T) {
	sess := newTestSession()
	sess.ReplaceAppointments([]domain.Appointment{{
		ID:          "appt-1",
		StaffID:     "staff-1",
		ServiceName: "Haircut",
		Price:       40,
		Status:      domain.AppointmentStatusConfirmed,
	}})

	started := time.Now()
	updated := started.Add(time.Second)
	sess.MirrorStatus("appt-1", domain.AppointmentStatusInProgress, &started, nil, updated)

	appt, ok := sess.FindAppointment("appt-1")
	require.True(t, ok)
	assert.Equal(t, domain.AppointmentStatusInProgress, appt.Status)
	require.NotNil(t, appt.StartedAt)
	assert.True(t, appt.StartedAt.Equal(started))
	assert.Nil(t, appt.CompletedAt)
	assert.True(t, appt.UpdatedAt.Equal(updated))
	assert.Equal(t, 40.0, appt.Price)
	assert.Equal(t, "Haircut", appt.ServiceName)
}

func TestMirrorStatusUnknownIDIsNoOp(t *testing.T) {
	sess := newTestSession()
	sess.MirrorStatus("ghost", domain.AppointmentStatusCompleted, nil, nil, time.Now())
	assert.Empty(t, sess.Appointments())
}

func TestAppendBlockPrepends(t *testing.T) {
	sess := newTestSession()
	sess.ReplaceBlocks([]domain.ScheduleBlock{{ID: "block-1"}})

	sess.AppendBlock(domain.ScheduleBlock{ID: "block-2"})

	blocks := sess.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "block-2", blocks[0].ID)
	assert.Equal(t, "block-1", blocks[1].ID)
}

func TestDropBlock(t *testing.T) {
	sess := newTestSession()
	sess.ReplaceBlocks([]domain.ScheduleBlock{{ID: "block-1"}, {ID: "block-2"}})

	sess.DropBlock("block-1")

	blocks := sess.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, "block-2", blocks[0].ID)

	_, ok := sess.FindBlock("block-1")
	assert.False(t, ok)
}

func TestApplyProfileMergesOnlySuppliedFields(t *testing.T) {
	sess := newTestSession()

	name := "Marco B."
	sess.ApplyProfile(repository.ProfileUpdate{Name: &name})

	staff := sess.Staff()
	assert.Equal(t, "Marco B.", staff.Name)
	assert.Nil(t, staff.AvatarURL)
}

func TestReplaceCatalogKeepsSettingsWhenNil(t *testing.T) {
	sess := newTestSession()
	sess.ReplaceCatalog([]domain.Service{{ID: "svc-1"}}, &domain.Settings{ShopName: "Fade & Blade"})

	sess.ReplaceCatalog([]domain.Service{{ID: "svc-2"}}, nil)

	require.NotNil(t, sess.Settings())
	assert.Equal(t, "Fade & Blade", sess.Settings().ShopName)
	require.Len(t, sess.Services(), 1)
	assert.Equal(t, "svc-2", sess.Services()[0].ID)
}

func TestAppointmentLockIsStablePerID(t *testing.T) {
	sess := newTestSession()

	assert.Same(t, sess.AppointmentLock("appt-1"), sess.AppointmentLock("appt-1"))
	assert.NotSame(t, sess.AppointmentLock("appt-1"), sess.AppointmentLock("appt-2"))
}

func TestAccessorsReturnCopies(t *testing.T) {
	sess := newTestSession()
	sess.ReplaceAppointments([]domain.Appointment{{ID: "appt-1", Status: domain.AppointmentStatusPending}})

	got := sess.Appointments()
	got[0].Status = domain.AppointmentStatusCancelled

	appt, _ := sess.FindAppointment("appt-1")
	assert.Equal(t, domain.AppointmentStatusPending, appt.Status)
}

func TestConcurrentMirrorAndRead(t *testing.T) {
	sess := newTestSession()
	sess.ReplaceAppointments([]domain.Appointment{{ID: "appt-1", Status: domain.AppointmentStatusPending}})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sess.MirrorStatus("appt-1", domain.AppointmentStatusConfirmed, nil, nil, time.Now())
		}()
		go func() {
			defer wg.Done()
			_ = sess.Appointments()
			_, _ = sess.FindAppointment("appt-1")
		}()
	}
	wg.Wait()

	appt, ok := sess.FindAppointment("appt-1")
	require.True(t, ok)
	assert.Equal(t, domain.AppointmentStatusConfirmed, appt.Status)
}
