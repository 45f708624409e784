package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/barber-portal/internal/domain"
)

// TransitionRecord is an audit entry for an appointment status change.
type TransitionRecord struct {
	ID            string
	AppointmentID string
	ActorStaffID  *string
	OldStatus     domain.AppointmentStatus
	NewStatus     domain.AppointmentStatus
	CreatedAt     time.Time
}

// HistoryRepository stores appointment transition audit entries.
type HistoryRepository interface {
	Create(ctx context.Context, record *TransitionRecord) error
	ListByAppointment(ctx context.Context, appointmentID string) ([]TransitionRecord, error)
}

type historyRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository builds repository.
func NewHistoryRepository(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepository{pool: pool}
}

func (r *historyRepository) Create(ctx context.Context, record *TransitionRecord) error {
	const query = `
        INSERT INTO appointment_history (appointment_id, actor_staff_id, old_status, new_status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		record.AppointmentID,
		record.ActorStaffID,
		record.OldStatus,
		record.NewStatus,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *historyRepository) ListByAppointment(ctx context.Context, appointmentID string) ([]TransitionRecord, error) {
	const query = `
        SELECT id, appointment_id, actor_staff_id, old_status, new_status, created_at
        FROM appointment_history WHERE appointment_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TransitionRecord
	for rows.Next() {
		var record TransitionRecord
		if err := rows.Scan(
			&record.ID,
			&record.AppointmentID,
			&record.ActorStaffID,
			&record.OldStatus,
			&record.NewStatus,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
