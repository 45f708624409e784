package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/barber-portal/internal/domain"
)

// BlockRepository encapsulates schedule block persistence.
type BlockRepository interface {
	Create(ctx context.Context, block *domain.ScheduleBlock) error
	ListByStaff(ctx context.Context, staffID string) ([]domain.ScheduleBlock, error)
	GetByID(ctx context.Context, id string) (*domain.ScheduleBlock, error)
	Delete(ctx context.Context, id string) error
}

type blockRepository struct {
	pool *pgxpool.Pool
}

// NewBlockRepository instantiates the repository.
func NewBlockRepository(pool *pgxpool.Pool) BlockRepository {
	return &blockRepository{pool: pool}
}

const blockColumns = `id, staff_id, staff_name, block_type, start_date, end_date,
               start_time, end_time, all_day, reason, approval, created_at`

func (r *blockRepository) Create(ctx context.Context, block *domain.ScheduleBlock) error {
	const query = `
        INSERT INTO schedule_blocks (staff_id, staff_name, block_type, start_date, end_date, start_time, end_time, all_day, reason, approval)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		block.StaffID,
		block.StaffName,
		block.Type,
		block.StartDate,
		block.EndDate,
		block.StartTime,
		block.EndTime,
		block.AllDay,
		block.Reason,
		block.Approval,
	).Scan(&block.ID, &block.CreatedAt)
}

func (r *blockRepository) ListByStaff(ctx context.Context, staffID string) ([]domain.ScheduleBlock, error) {
	const query = `
        SELECT ` + blockColumns + `
        FROM schedule_blocks WHERE staff_id=$1
        ORDER BY start_date DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ScheduleBlock
	for rows.Next() {
		var block domain.ScheduleBlock
		if err := scanBlock(rows.Scan, &block); err != nil {
			return nil, err
		}
		result = append(result, block)
	}
	return result, rows.Err()
}

func (r *blockRepository) GetByID(ctx context.Context, id string) (*domain.ScheduleBlock, error) {
	const query = `
        SELECT ` + blockColumns + `
        FROM schedule_blocks WHERE id=$1`

	var block domain.ScheduleBlock
	if err := scanBlock(r.pool.QueryRow(ctx, query, id).Scan, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *blockRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM schedule_blocks WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanBlock(scan func(dest ...any) error, block *domain.ScheduleBlock) error {
	return scan(
		&block.ID,
		&block.StaffID,
		&block.StaffName,
		&block.Type,
		&block.StartDate,
		&block.EndDate,
		&block.StartTime,
		&block.EndTime,
		&block.AllDay,
		&block.Reason,
		&block.Approval,
		&block.CreatedAt,
	)
}
