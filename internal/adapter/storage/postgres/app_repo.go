package postgres

import (
	"context"
	"errors"
	"fmt"

	"app-marketplace/internal/core/domain"
	"app-marketplace/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AppRepo implements ports.AppRepository.
type AppRepo struct {
	pool Pool
}

// NewAppRepo creates a new AppRepo.
func NewAppRepo(pool Pool) *AppRepo {
	return &AppRepo{pool: pool}
}

const appColumns = `id, user_id, title, description, icon_url, access_link, access_key, verified, price, currency, created_at`

// Create inserts a new app listing.
func (r *AppRepo) Create(ctx context.Context, a *domain.App) error {
	query := `INSERT INTO apps (id, user_id, title, description, icon_url, access_link, access_key, verified, price, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.UserID, a.Title, a.Description, a.IconURL,
		a.AccessLink, a.AccessKey, a.Verified, a.Price, a.Currency, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert app: %w", err)
	}
	return nil
}

// GetByID fetches an app by its UUID.
func (r *AppRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.App, error) {
	query := `SELECT ` + appColumns + ` FROM apps WHERE id = $1`

	a := &domain.App{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.Title, &a.Description, &a.IconURL,
		&a.AccessLink, &a.AccessKey, &a.Verified, &a.Price, &a.Currency, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get app by id: %w", err)
	}
	return a, nil
}

// Delete removes an app listing. Purchases referencing it keep their row with
// a nulled app reference (ON DELETE SET NULL).
func (r *AppRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM apps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete app: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("app not found: %s", id)
	}
	return nil
}

// ListVerified fetches verified apps excluding the requester's own, with an
// optional case-insensitive title/description substring filter.
func (r *AppRepo) ListVerified(ctx context.Context, params ports.CatalogListParams) ([]domain.App, int64, error) {
	where := `verified AND user_id != $1`
	args := []any{params.ExcludeUserID}

	if params.Search != "" {
		where += ` AND (title ILIKE $2 OR description ILIKE $2)`
		args = append(args, "%"+params.Search+"%")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM apps WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count catalog apps: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	query := fmt.Sprintf(`SELECT %s FROM apps WHERE %s ORDER BY created_at, id LIMIT $%d OFFSET $%d`,
		appColumns, where, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list catalog apps: %w", err)
	}
	defer rows.Close()

	var apps []domain.App
	for rows.Next() {
		var a domain.App
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Title, &a.Description, &a.IconURL,
			&a.AccessLink, &a.AccessKey, &a.Verified, &a.Price, &a.Currency, &a.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan catalog app: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate catalog apps: %w", err)
	}

	return apps, total, nil
}
