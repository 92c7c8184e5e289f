package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app-marketplace/internal/core/domain"
	"app-marketplace/internal/core/ports"
	"app-marketplace/pkg/apperror"
	"app-marketplace/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// SQLSTATEs that mean the transaction lost a lock race and can be retried:
// lock_not_available from a bounded lock wait, deadlock_detected when two
// mirrored purchases lock each other's wallets in opposite order.
const (
	pgLockNotAvailable = "55P03"
	pgDeadlockDetected = "40P01"
)

// PurchaseServiceImpl implements ports.PurchaseService.
type PurchaseServiceImpl struct {
	purchaseRepo ports.PurchaseRepository
	walletRepo   ports.WalletRepository
	appRepo      ports.AppRepository
	transactor   ports.DBTransactor
	lockTimeout  time.Duration
	pageSize     int
	log          zerolog.Logger
}

// NewPurchaseService creates a new PurchaseServiceImpl.
func NewPurchaseService(
	purchaseRepo ports.PurchaseRepository,
	walletRepo ports.WalletRepository,
	appRepo ports.AppRepository,
	transactor ports.DBTransactor,
	lockTimeout time.Duration,
	pageSize int,
	log zerolog.Logger,
) *PurchaseServiceImpl {
	return &PurchaseServiceImpl{
		purchaseRepo: purchaseRepo,
		walletRepo:   walletRepo,
		appRepo:      appRepo,
		transactor:   transactor,
		lockTimeout:  lockTimeout,
		pageSize:     pageSize,
		log:          log,
	}
}

// Purchase implements the purchase algorithm with pessimistic locking: the
// buyer's wallet row is locked for the whole debit-credit-record sequence, so
// two concurrent purchases against one wallet serialize and the second sees
// the post-debit balance.
func (s *PurchaseServiceImpl) Purchase(ctx context.Context, buyerID, appID uuid.UUID) (*ports.PurchaseReceipt, error) {
	app, err := s.appRepo.GetByID(ctx, appID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("fetch app: %w", err))
	}
	if app == nil {
		metrics.RecordPurchase("not_found", 0)
		return nil, apperror.ErrNotFound("app")
	}

	// Business rule: sellers cannot buy their own listing. Checked before
	// any money moves.
	if app.OwnedBy(buyerID) {
		metrics.RecordPurchase("self_purchase", 0)
		return nil, apperror.ErrSelfPurchase()
	}

	// Bound the wait for the wallet lock; a buyer stuck behind a slow
	// concurrent purchase gets a retryable error instead of hanging.
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	dbTx, err := s.transactor.Begin(lockCtx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get buyer wallet
	wallet, err := s.walletRepo.GetByUserIDForUpdate(lockCtx, dbTx, buyerID)
	if err != nil {
		return nil, s.failTx("lock wallet", err)
	}
	if wallet == nil {
		metrics.RecordPurchase("not_found", 0)
		return nil, apperror.ErrNotFound("wallet")
	}

	// Business rule: sufficient funds
	if !wallet.CanAfford(app.Price) {
		metrics.RecordPurchase("insufficient_funds", 0)
		return nil, apperror.ErrInsufficientFunds()
	}

	// Price and currency are captured here; later listing edits never
	// rewrite this record.
	purchase := &domain.Purchase{
		ID:        uuid.New(),
		AppID:     &app.ID,
		BuyerID:   &buyerID,
		Price:     app.Price,
		Currency:  app.Currency,
		CreatedAt: time.Now().UTC(),
	}

	// Persist: debit buyer
	if err := s.walletRepo.UpdateBalance(lockCtx, dbTx, wallet.ID, wallet.Balance-app.Price); err != nil {
		return nil, s.failTx("debit buyer", err)
	}

	// Persist: credit seller. This takes the seller's row lock, so a
	// mirrored concurrent purchase (seller buying from this buyer) can
	// deadlock here; the aborted victim comes back retryable.
	if err := s.walletRepo.Credit(lockCtx, dbTx, app.UserID, app.Price); err != nil {
		return nil, s.failTx("credit seller", err)
	}

	// Persist: purchase record
	if err := s.purchaseRepo.Create(lockCtx, dbTx, purchase); err != nil {
		return nil, s.failTx("create purchase", err)
	}

	// Commit
	if err := dbTx.Commit(lockCtx); err != nil {
		return nil, s.failTx("commit tx", err)
	}

	metrics.RecordPurchase("committed", app.Price)
	s.log.Info().
		Str("purchase_id", purchase.ID.String()).
		Str("buyer_id", buyerID.String()).
		Str("app_id", app.ID.String()).
		Int64("price", app.Price).
		Msg("purchase committed")

	return &ports.PurchaseReceipt{Purchase: purchase, App: app}, nil
}

// ListPurchases returns one page of the buyer's purchase history, newest last.
func (s *PurchaseServiceImpl) ListPurchases(ctx context.Context, buyerID uuid.UUID, page int) ([]domain.Purchase, int64, error) {
	if page < 1 {
		page = 1
	}
	purchases, total, err := s.purchaseRepo.ListByBuyer(ctx, buyerID, page, s.pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list purchases: %w", err))
	}
	return purchases, total, nil
}

// GetPurchase returns one of the buyer's own purchase records.
func (s *PurchaseServiceImpl) GetPurchase(ctx context.Context, buyerID, purchaseID uuid.UUID) (*domain.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, buyerID, purchaseID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("fetch purchase: %w", err))
	}
	if purchase == nil {
		return nil, apperror.ErrNotFound("purchase")
	}
	return purchase, nil
}

// classifyLockError maps lock-wait failures and aborted transactions to the
// retryable lock timeout error; everything else is internal.
func (s *PurchaseServiceImpl) classifyLockError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.ErrLockTimeout(err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgDeadlockDetected:
			return apperror.ErrLockTimeout(err)
		}
	}
	return apperror.InternalError(fmt.Errorf("%s: %w", op, err))
}

// failTx classifies an in-transaction persistence failure and records the
// purchase outcome. The deferred rollback leaves no partial state either way.
func (s *PurchaseServiceImpl) failTx(op string, err error) error {
	cerr := s.classifyLockError(op, err)
	var appErr *apperror.AppError
	if errors.As(cerr, &appErr) && appErr.Code == "SYS_002" {
		metrics.RecordPurchase("lock_timeout", 0)
	} else {
		metrics.RecordPurchase("error", 0)
	}
	return cerr
}
