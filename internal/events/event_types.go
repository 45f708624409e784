package events

import (
	"time"

	"github.com/spec-kit/barber-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAppointmentStatusChanged EventType = "appointment_status_changed"
	EventBlockRequested           EventType = "block_requested"
	EventBlockRemoved             EventType = "block_removed"
	EventProfileUpdated           EventType = "profile_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StaffID   string      `json:"staff_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AppointmentStatusChangedPayload payload.
type AppointmentStatusChangedPayload struct {
	AppointmentID string                   `json:"appointment_id"`
	OldStatus     domain.AppointmentStatus `json:"old_status"`
	NewStatus     domain.AppointmentStatus `json:"new_status"`
}

// BlockRequestedPayload payload.
type BlockRequestedPayload struct {
	BlockID   string           `json:"block_id"`
	BlockType domain.BlockType `json:"block_type"`
	StartDate time.Time        `json:"start_date"`
	EndDate   time.Time        `json:"end_date"`
}

// BlockRemovedPayload payload.
type BlockRemovedPayload struct {
	BlockID string `json:"block_id"`
}

// ProfileUpdatedPayload payload.
type ProfileUpdatedPayload struct {
	Fields []string `json:"fields"`
}
