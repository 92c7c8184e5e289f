package domain

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is an immutable record of one completed transfer of funds for one
// app by one buyer. Price and currency are captured from the app at purchase
// time, so later price edits never rewrite financial history. The app and
// buyer references are weak: deleting either leaves the record intact with a
// nil reference.
type Purchase struct {
	ID        uuid.UUID  `json:"id"`
	AppID     *uuid.UUID `json:"app_id"`
	BuyerID   *uuid.UUID `json:"buyer_id"`
	Price     int64      `json:"price"`
	Currency  string     `json:"currency"`
	CreatedAt time.Time  `json:"created_at"`

	// App is the joined listing snapshot for read paths; nil when the
	// listing has been deleted since the purchase.
	App *App `json:"app,omitempty"`
}
