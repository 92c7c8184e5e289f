package domain

import (
	"time"

	"github.com/google/uuid"
)

// App is a sellable catalog listing. The access link and access key are the
// credentials a buyer pays for; they are disclosed only to the owner and to
// buyers with a completed purchase.
type App struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IconURL     *string   `json:"icon,omitempty"`
	AccessLink  string    `json:"access_link"`
	AccessKey   string    `json:"access_key"`
	Verified    bool      `json:"verified"`
	Price       int64     `json:"price"` // minor units
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

// OwnedBy reports whether the given user owns this app.
func (a *App) OwnedBy(userID uuid.UUID) bool {
	return a.UserID == userID
}

// PublicView strips the access credentials for catalog display.
func (a *App) PublicView() App {
	pub := *a
	pub.AccessLink = ""
	pub.AccessKey = ""
	return pub
}
