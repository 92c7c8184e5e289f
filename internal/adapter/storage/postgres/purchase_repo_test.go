package postgres

import (
	"context"
	"testing"
	"time"

	"app-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purchaseJoinColumns() []string {
	return []string{
		"id", "app_id", "buyer_id", "price", "currency", "created_at",
		"a_id", "a_user_id", "a_title", "a_description", "a_icon_url",
		"a_access_link", "a_access_key", "a_verified", "a_price", "a_currency", "a_created_at",
	}
}

func purchaseJoinRow(p *domain.Purchase, a *domain.App) *pgxmock.Rows {
	rows := pgxmock.NewRows(purchaseJoinColumns())
	if a == nil {
		return rows.AddRow(
			p.ID, p.AppID, p.BuyerID, p.Price, p.Currency, p.CreatedAt,
			nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil,
		)
	}
	return rows.AddRow(
		p.ID, p.AppID, p.BuyerID, p.Price, p.Currency, p.CreatedAt,
		&a.ID, &a.UserID, &a.Title, &a.Description, a.IconURL,
		&a.AccessLink, &a.AccessKey, &a.Verified, &a.Price, &a.Currency, &a.CreatedAt,
	)
}

func newTestPurchase(buyerID uuid.UUID, app *domain.App) *domain.Purchase {
	p := &domain.Purchase{
		ID:        uuid.New(),
		BuyerID:   &buyerID,
		Price:     2000,
		Currency:  "USD",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if app != nil {
		p.AppID = &app.ID
	}
	return p
}

func TestPurchaseRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPurchaseRepo(mock)
	app := newTestApp(uuid.New())
	p := newTestPurchase(uuid.New(), app)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO purchases").
		WithArgs(p.ID, p.AppID, p.BuyerID, p.Price, p.Currency, p.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPurchaseRepo(mock)
	buyerID := uuid.New()
	app := newTestApp(uuid.New())
	p := newTestPurchase(buyerID, app)

	mock.ExpectQuery("SELECT .+ FROM purchases p LEFT JOIN apps a").
		WithArgs(p.ID, buyerID).
		WillReturnRows(purchaseJoinRow(p, app))

	result, err := repo.GetByID(context.Background(), buyerID, p.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.ID, result.ID)
	require.NotNil(t, result.App)
	assert.Equal(t, app.Title, result.App.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepo_GetByID_DeletedApp(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPurchaseRepo(mock)
	buyerID := uuid.New()
	p := newTestPurchase(buyerID, nil)

	mock.ExpectQuery("SELECT .+ FROM purchases p LEFT JOIN apps a").
		WithArgs(p.ID, buyerID).
		WillReturnRows(purchaseJoinRow(p, nil))

	result, err := repo.GetByID(context.Background(), buyerID, p.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	// History survives the listing: record intact, snapshot absent.
	assert.Nil(t, result.App)
	assert.Equal(t, int64(2000), result.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPurchaseRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM purchases p LEFT JOIN apps a").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(purchaseJoinColumns()))

	result, err := repo.GetByID(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestPurchaseRepo_ListByBuyer(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPurchaseRepo(mock)
	buyerID := uuid.New()
	app := newTestApp(uuid.New())
	p1 := newTestPurchase(buyerID, app)
	p2 := newTestPurchase(buyerID, nil)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM purchases WHERE buyer_id`).
		WithArgs(buyerID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	rows := purchaseJoinRow(p1, app)
	rows.AddRow(
		p2.ID, p2.AppID, p2.BuyerID, p2.Price, p2.Currency, p2.CreatedAt,
		nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil,
	)
	mock.ExpectQuery("SELECT .+ FROM purchases p LEFT JOIN apps a .+ ORDER BY p.created_at").
		WithArgs(buyerID, 5, 0).
		WillReturnRows(rows)

	purchases, total, err := repo.ListByBuyer(context.Background(), buyerID, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, purchases, 2)
	assert.NotNil(t, purchases[0].App)
	assert.Nil(t, purchases[1].App)
	assert.NoError(t, mock.ExpectationsWereMet())
}
