package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet holds a user's spendable balance. One wallet per user.
// Balance is stored in integer minor units (cents) to avoid floating-point
// drift across repeated debit/credit cycles.
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Balance   int64     `json:"balance"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanAfford reports whether the wallet covers the given amount.
func (w *Wallet) CanAfford(amount int64) bool {
	return w.Balance >= amount
}
