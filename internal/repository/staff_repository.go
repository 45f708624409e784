package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/barber-portal/internal/domain"
)

// ProfileUpdate carries the fields of a partial profile merge. Only
// non-nil fields are written.
type ProfileUpdate struct {
	Name      *string
	AvatarURL *string
	Location  *string
}

// StaffRepository handles persistence for staff members. Staff accounts
// are provisioned externally, so there is no Create or Delete here.
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	GetByEmailActive(ctx context.Context, email string) (*domain.StaffMember, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	TouchLastLogin(ctx context.Context, id string) error
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, name, email, password_hash, role, avatar_url, active_flag,
               commission_rate, location, last_login_at, created_at, updated_at`

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_members WHERE id=$1`, staffColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *staffRepository) GetByEmailActive(ctx context.Context, email string) (*domain.StaffMember, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_members WHERE LOWER(email)=LOWER($1) AND active_flag=TRUE`, staffColumns)
	return r.fetchSingle(ctx, query, strings.TrimSpace(email))
}

func (r *staffRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.StaffMember, error) {
	var staff domain.StaffMember
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.PasswordHash,
		&staff.Role,
		&staff.AvatarURL,
		&staff.Active,
		&staff.CommissionRate,
		&staff.Location,
		&staff.LastLoginAt,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error {
	sets := []string{}
	args := []any{}

	if update.Name != nil {
		args = append(args, *update.Name)
		sets = append(sets, fmt.Sprintf("name=$%d", len(args)))
	}
	if update.AvatarURL != nil {
		args = append(args, *update.AvatarURL)
		sets = append(sets, fmt.Sprintf("avatar_url=$%d", len(args)))
	}
	if update.Location != nil {
		args = append(args, *update.Location)
		sets = append(sets, fmt.Sprintf("location=$%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE staff_members SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE staff_members SET password_hash=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) TouchLastLogin(ctx context.Context, id string) error {
	const query = `UPDATE staff_members SET last_login_at=NOW() WHERE id=$1`

	_, err := r.pool.Exec(ctx, query, id)
	return err
}
