package ports

import (
	"context"

	"app-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside transaction blocks; GetByUserIDForUpdate
// takes the row-level exclusive lock that serializes spending per wallet.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, newBalance int64) error
	// Credit applies an atomic in-place increment to the owner's wallet.
	// Safe for the seller side of a transfer: applied exactly once per
	// committed transaction it runs in.
	Credit(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int64) error
}

// AppRepository defines persistence operations for catalog listings.
// Listing CRUD endpoints live outside this service; Create and Delete exist
// for the provisioning workflow and for preserving purchase history when an
// owner removes a listing.
type AppRepository interface {
	Create(ctx context.Context, app *domain.App) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.App, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListVerified(ctx context.Context, params CatalogListParams) ([]domain.App, int64, error)
}

// CatalogListParams holds filter + pagination for the public catalog.
type CatalogListParams struct {
	ExcludeUserID uuid.UUID
	Search        string // substring match on title/description; empty = no filter
	Page          int
	PageSize      int
}

// PurchaseRepository defines persistence for the append-only purchase ledger.
type PurchaseRepository interface {
	Create(ctx context.Context, tx pgx.Tx, purchase *domain.Purchase) error
	GetByID(ctx context.Context, buyerID, id uuid.UUID) (*domain.Purchase, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, page, pageSize int) ([]domain.Purchase, int64, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
