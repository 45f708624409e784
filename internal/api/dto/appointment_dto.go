package dto

import (
	"time"

	"github.com/spec-kit/barber-portal/internal/domain"
	"github.com/spec-kit/barber-portal/internal/repository"
)

// AppointmentResponse is the API shape of an appointment.
type AppointmentResponse struct {
	ID           string     `json:"id"`
	Date         string     `json:"date"`
	Time         string     `json:"time"`
	DurationMins int        `json:"duration_mins"`
	ClientName   string     `json:"client_name"`
	ClientPhone  string     `json:"client_phone"`
	ServiceName  string     `json:"service_name"`
	Price        float64    `json:"price"`
	Status       string     `json:"status"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewAppointmentResponse maps a domain appointment.
func NewAppointmentResponse(appt domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:           appt.ID,
		Date:         appt.Date.Format("2006-01-02"),
		Time:         appt.TimeOfDay,
		DurationMins: appt.DurationMins,
		ClientName:   appt.ClientName,
		ClientPhone:  appt.ClientPhone,
		ServiceName:  appt.ServiceName,
		Price:        appt.Price,
		Status:       string(appt.Status),
		StartedAt:    appt.StartedAt,
		CompletedAt:  appt.CompletedAt,
		UpdatedAt:    appt.UpdatedAt,
	}
}

// NewAppointmentResponses maps a collection.
func NewAppointmentResponses(appts []domain.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for _, appt := range appts {
		out = append(out, NewAppointmentResponse(appt))
	}
	return out
}

// StatusUpdateRequest payload for the generic status overwrite.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// TransitionResponse is one audit entry of an appointment's history.
type TransitionResponse struct {
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTransitionResponses maps audit records.
func NewTransitionResponses(records []repository.TransitionRecord) []TransitionResponse {
	out := make([]TransitionResponse, 0, len(records))
	for _, record := range records {
		out = append(out, TransitionResponse{
			OldStatus: string(record.OldStatus),
			NewStatus: string(record.NewStatus),
			CreatedAt: record.CreatedAt,
		})
	}
	return out
}
