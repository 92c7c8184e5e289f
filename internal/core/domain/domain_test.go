package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWallet_CanAfford(t *testing.T) {
	w := &Wallet{Balance: 10000, Currency: "USD"}

	assert.True(t, w.CanAfford(9999))
	assert.True(t, w.CanAfford(10000))
	assert.False(t, w.CanAfford(10001))
	assert.True(t, w.CanAfford(0))
}

func TestApp_OwnedBy(t *testing.T) {
	owner := uuid.New()
	app := &App{ID: uuid.New(), UserID: owner}

	assert.True(t, app.OwnedBy(owner))
	assert.False(t, app.OwnedBy(uuid.New()))
}

func TestApp_PublicView(t *testing.T) {
	app := &App{
		ID:         uuid.New(),
		Title:      "Test App",
		AccessLink: "https://app.example.com",
		AccessKey:  "secret-access-key",
		Price:      2000,
	}

	pub := app.PublicView()

	assert.Empty(t, pub.AccessLink)
	assert.Empty(t, pub.AccessKey)
	assert.Equal(t, app.Title, pub.Title)
	assert.Equal(t, app.Price, pub.Price)

	// Original is untouched.
	assert.Equal(t, "https://app.example.com", app.AccessLink)
	assert.Equal(t, "secret-access-key", app.AccessKey)
}
