package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/barber-portal/internal/domain"
)

// settingsKey is the fixed key of the single global settings document.
const settingsKey = "global"

// CatalogRepository reads the shop-wide service catalog and settings.
type CatalogRepository interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
	// GetSettings returns (nil, nil) when the settings document is absent.
	GetSettings(ctx context.Context) (*domain.Settings, error)
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository instantiates the repository.
func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

func (r *catalogRepository) ListServices(ctx context.Context) ([]domain.Service, error) {
	const query = `
        SELECT id, name, price, duration_mins, active_flag, created_at, updated_at
        FROM services ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Service
	for rows.Next() {
		var svc domain.Service
		if err := rows.Scan(
			&svc.ID,
			&svc.Name,
			&svc.Price,
			&svc.DurationMins,
			&svc.Active,
			&svc.CreatedAt,
			&svc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, svc)
	}
	return result, rows.Err()
}

func (r *catalogRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	const query = `
        SELECT shop_name, currency, opening_hours, updated_at
        FROM shop_settings WHERE settings_key=$1`

	var settings domain.Settings
	err := r.pool.QueryRow(ctx, query, settingsKey).Scan(
		&settings.ShopName,
		&settings.Currency,
		&settings.OpeningHours,
		&settings.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
