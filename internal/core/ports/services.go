package ports

import (
	"context"

	"app-marketplace/internal/core/domain"

	"github.com/google/uuid"
)

// PurchaseService is the purchase transaction engine plus the buyer's
// read-only purchase views.
type PurchaseService interface {
	// Purchase atomically debits the buyer, credits the seller and records
	// the purchase. Either all three persist or none do.
	Purchase(ctx context.Context, buyerID, appID uuid.UUID) (*PurchaseReceipt, error)
	ListPurchases(ctx context.Context, buyerID uuid.UUID, page int) ([]domain.Purchase, int64, error)
	GetPurchase(ctx context.Context, buyerID, purchaseID uuid.UUID) (*domain.Purchase, error)
}

// PurchaseReceipt is the result of a committed purchase: the ledger record
// plus the app's owner-level view, credentials included, because payment
// cleared.
type PurchaseReceipt struct {
	Purchase *domain.Purchase
	App      *domain.App
}

// CatalogService lists apps available for purchase.
type CatalogService interface {
	// ListCatalog returns verified apps excluding the requester's own, in
	// their public view. search narrows by title/description substring.
	ListCatalog(ctx context.Context, userID uuid.UUID, page int, search string) ([]domain.App, int64, error)
}

// WalletService owns wallet seeding and balance reads. The purchase engine
// never creates wallets; the external registration workflow calls Seed.
type WalletService interface {
	Seed(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
}

// TokenService validates the bearer tokens minted by the external identity
// provider. Generate exists for provisioning and test tooling; there is no
// login endpoint here.
type TokenService interface {
	Generate(userID uuid.UUID) (string, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
}
