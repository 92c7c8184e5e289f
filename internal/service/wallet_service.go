package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app-marketplace/internal/core/domain"
	"app-marketplace/internal/core/ports"
	"app-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo    ports.WalletRepository
	initialCredit int64
	currency      string
	log           zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(walletRepo ports.WalletRepository, initialCredit int64, currency string, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo:    walletRepo,
		initialCredit: initialCredit,
		currency:      currency,
		log:           log,
	}
}

// Seed creates the user's wallet with the configured initial credit. Called
// once per user by the registration workflow; a second call is a conflict.
func (s *WalletServiceImpl) Seed(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	existing, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check wallet: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrWalletExists()
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		Balance:   s.initialCredit,
		Currency:  s.currency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		// Two concurrent seeds race past the existence check; the unique
		// constraint on user_id settles it.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.ErrWalletExists()
		}
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Int64("initial_credit", s.initialCredit).
		Msg("wallet seeded")

	return wallet, nil
}

// GetBalance returns the user's wallet.
func (s *WalletServiceImpl) GetBalance(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("fetch wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	return wallet, nil
}
