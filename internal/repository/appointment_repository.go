package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/barber-portal/internal/domain"
)

// StatusWrite describes a status transition write. Timestamps are only
// stamped when non-nil; the existing values are preserved otherwise.
type StatusWrite struct {
	Status      domain.AppointmentStatus
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// AppointmentRepository encapsulates appointment persistence. Appointments
// are created by an external booking flow and never deleted here.
type AppointmentRepository interface {
	ListByStaff(ctx context.Context, staffID string) ([]domain.Appointment, error)
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	SetStatus(ctx context.Context, id string, write StatusWrite) error
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository instantiates the repository.
func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

const appointmentColumns = `id, staff_id, appt_date, appt_time, duration_mins, client_name,
               client_phone, service_name, price, status, started_at, completed_at, created_at, updated_at`

func (r *appointmentRepository) ListByStaff(ctx context.Context, staffID string) ([]domain.Appointment, error) {
	const query = `
        SELECT ` + appointmentColumns + `
        FROM appointments WHERE staff_id=$1
        ORDER BY appt_date DESC, appt_time DESC`

	rows, err := r.pool.Query(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	const query = `
        SELECT ` + appointmentColumns + `
        FROM appointments WHERE id=$1`

	var appt domain.Appointment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&appt.ID,
		&appt.StaffID,
		&appt.Date,
		&appt.TimeOfDay,
		&appt.DurationMins,
		&appt.ClientName,
		&appt.ClientPhone,
		&appt.ServiceName,
		&appt.Price,
		&appt.Status,
		&appt.StartedAt,
		&appt.CompletedAt,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) SetStatus(ctx context.Context, id string, write StatusWrite) error {
	const query = `
        UPDATE appointments
        SET status=$1,
            started_at=COALESCE($2, started_at),
            completed_at=COALESCE($3, completed_at),
            updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query, write.Status, write.StartedAt, write.CompletedAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanAppointments(rows pgx.Rows) ([]domain.Appointment, error) {
	var result []domain.Appointment
	for rows.Next() {
		var appt domain.Appointment
		if err := rows.Scan(
			&appt.ID,
			&appt.StaffID,
			&appt.Date,
			&appt.TimeOfDay,
			&appt.DurationMins,
			&appt.ClientName,
			&appt.ClientPhone,
			&appt.ServiceName,
			&appt.Price,
			&appt.Status,
			&appt.StartedAt,
			&appt.CompletedAt,
			&appt.CreatedAt,
			&appt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, appt)
	}
	return result, rows.Err()
}
