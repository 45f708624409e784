package domain

import "time"

// AppointmentStatus enumerates lifecycle states for appointments.
type AppointmentStatus string

const (
	AppointmentStatusPending    AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed  AppointmentStatus = "CONFIRMED"
	AppointmentStatusInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted  AppointmentStatus = "COMPLETED"
	AppointmentStatusNoShow     AppointmentStatus = "NO_SHOW"
	AppointmentStatusCancelled  AppointmentStatus = "CANCELLED"
)

// Appointment is a scheduled service engagement assigned to one staff
// member. Appointments are created by an external booking flow; this
// service only moves them through their lifecycle. Price is fixed at
// creation and never touched by lifecycle operations.
type Appointment struct {
	ID           string
	StaffID      string
	Date         time.Time
	TimeOfDay    string
	DurationMins int
	ClientName   string
	ClientPhone  string
	ServiceName  string
	Price        float64
	Status       AppointmentStatus
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Valid reports whether the value is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusNoShow, AppointmentStatusCancelled:
		return true
	}
	return false
}

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:    {AppointmentStatusConfirmed, AppointmentStatusNoShow, AppointmentStatusCancelled},
	AppointmentStatusConfirmed:  {AppointmentStatusInProgress, AppointmentStatusNoShow, AppointmentStatusCancelled},
	AppointmentStatusInProgress: {AppointmentStatusCompleted},
}

// CanTransition reports whether the lifecycle allows moving from one
// status to another. Transitions are one-way; terminal states have no
// outgoing edges. Callers are expected to consult this before invoking
// a transition; the write path itself applies status unconditionally.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range appointmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func IsTerminal(status AppointmentStatus) bool {
	return len(appointmentTransitions[status]) == 0
}
