package dto

import (
	"testing"
	"time"

	"app-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleApp() *domain.App {
	return &domain.App{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Title:       "todo",
		Description: "A todo list",
		AccessLink:  "https://apps.example.com/todo",
		AccessKey:   "s3cret",
		Verified:    true,
		Price:       2500,
		Currency:    "USD",
		CreatedAt:   time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestNewAppResponse_StripsCredentials(t *testing.T) {
	app := sampleApp()

	resp := NewAppResponse(app)

	assert.Equal(t, app.ID.String(), resp.ID)
	assert.Equal(t, "todo", resp.Title)
	assert.Equal(t, int64(2500), resp.Price)
	assert.Equal(t, "2026-01-15T10:30:00Z", resp.CreatedAt)

	// Public view must not carry credentials at all: the type has no
	// such fields, so nothing to assert beyond compilation.
}

func TestNewOwnedAppResponse_IncludesCredentials(t *testing.T) {
	app := sampleApp()

	resp := NewOwnedAppResponse(app)

	assert.Equal(t, "https://apps.example.com/todo", resp.AccessLink)
	assert.Equal(t, "s3cret", resp.AccessKey)
	assert.Equal(t, app.ID.String(), resp.ID)
}

func TestNewPurchaseResponse_WithApp(t *testing.T) {
	app := sampleApp()
	buyerID := uuid.New()
	p := &domain.Purchase{
		ID:        uuid.New(),
		AppID:     &app.ID,
		BuyerID:   &buyerID,
		Price:     2500,
		Currency:  "USD",
		CreatedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		App:       app,
	}

	resp := NewPurchaseResponse(p)

	require.NotNil(t, resp.App)
	assert.Equal(t, "s3cret", resp.App.AccessKey)
	assert.Equal(t, int64(2500), resp.Price)
	assert.Equal(t, "2026-02-01T09:00:00Z", resp.CreatedAt)
}

func TestNewPurchaseResponse_DeletedApp(t *testing.T) {
	buyerID := uuid.New()
	p := &domain.Purchase{
		ID:        uuid.New(),
		BuyerID:   &buyerID,
		Price:     900,
		Currency:  "USD",
		CreatedAt: time.Now().UTC(),
	}

	resp := NewPurchaseResponse(p)

	assert.Nil(t, resp.App)
	assert.Equal(t, int64(900), resp.Price)
}

func TestNewPurchaseResponses_Empty(t *testing.T) {
	out := NewPurchaseResponses(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
