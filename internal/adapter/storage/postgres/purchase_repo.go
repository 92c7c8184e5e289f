package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PurchaseRepo implements ports.PurchaseRepository. Purchases are append-only:
// there is no update or delete path.
type PurchaseRepo struct {
	pool Pool
}

// NewPurchaseRepo creates a new PurchaseRepo.
func NewPurchaseRepo(pool Pool) *PurchaseRepo {
	return &PurchaseRepo{pool: pool}
}

const purchaseJoinQuery = `SELECT p.id, p.app_id, p.buyer_id, p.price, p.currency, p.created_at,
		a.id, a.user_id, a.title, a.description, a.icon_url, a.access_link, a.access_key, a.verified, a.price, a.currency, a.created_at
	FROM purchases p LEFT JOIN apps a ON a.id = p.app_id`

// Create inserts a purchase record within a database transaction.
func (r *PurchaseRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Purchase) error {
	query := `INSERT INTO purchases (id, app_id, buyer_id, price, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		p.ID, p.AppID, p.BuyerID, p.Price, p.Currency, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// GetByID fetches one of the buyer's purchases with its app snapshot. The
// snapshot is nil when the listing has been deleted since the purchase.
func (r *PurchaseRepo) GetByID(ctx context.Context, buyerID, id uuid.UUID) (*domain.Purchase, error) {
	query := purchaseJoinQuery + ` WHERE p.id = $1 AND p.buyer_id = $2`

	p, err := scanPurchase(r.pool.QueryRow(ctx, query, id, buyerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase by id: %w", err)
	}
	return p, nil
}

// ListByBuyer fetches the buyer's purchases in insertion order, paginated.
func (r *PurchaseRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID, page, pageSize int) ([]domain.Purchase, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchases WHERE buyer_id = $1`, buyerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	query := purchaseJoinQuery + ` WHERE p.buyer_id = $1 ORDER BY p.created_at, p.id LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, buyerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate purchases: %w", err)
	}

	return purchases, total, nil
}

// scanPurchase reads one purchase row with its left-joined app columns.
func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	p := &domain.Purchase{}
	var (
		appID       *uuid.UUID
		appUserID   *uuid.UUID
		title       *string
		description *string
		iconURL     *string
		accessLink  *string
		accessKey   *string
		verified    *bool
		appPrice    *int64
		appCurrency *string
		appCreated  *time.Time
	)

	err := row.Scan(
		&p.ID, &p.AppID, &p.BuyerID, &p.Price, &p.Currency, &p.CreatedAt,
		&appID, &appUserID, &title, &description, &iconURL,
		&accessLink, &accessKey, &verified, &appPrice, &appCurrency, &appCreated,
	)
	if err != nil {
		return nil, err
	}

	if appID != nil {
		p.App = &domain.App{
			ID:          *appID,
			UserID:      *appUserID,
			Title:       *title,
			Description: *description,
			IconURL:     iconURL,
			AccessLink:  *accessLink,
			AccessKey:   *accessKey,
			Verified:    *verified,
			Price:       *appPrice,
			Currency:    *appCurrency,
			CreatedAt:   *appCreated,
		}
	}
	return p, nil
}
