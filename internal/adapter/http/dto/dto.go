package dto

import (
	"time"

	"app-marketplace/internal/core/domain"
)

// PurchaseRequest is the request body for buying an app.
type PurchaseRequest struct {
	AppID string `json:"app_id" binding:"required,uuid"`
}

// CatalogQuery holds the query parameters for catalog browsing. Search is
// not validated at binding time: a non-slug term drops the filter instead of
// failing the request.
type CatalogQuery struct {
	Search string `form:"search"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
}

// PageQuery holds the pagination parameter for list endpoints.
type PageQuery struct {
	Page int `form:"page" binding:"omitempty,min=1"`
}

// AppResponse is the public catalog view of a listing. Access credentials
// are never present here.
type AppResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	IconURL     *string `json:"icon,omitempty"`
	Verified    bool    `json:"verified"`
	Price       int64   `json:"price"`
	Currency    string  `json:"currency"`
	CreatedAt   string  `json:"created_at"`
}

// OwnedAppResponse is the full listing view, including the access
// credentials the buyer paid for.
type OwnedAppResponse struct {
	AppResponse
	AccessLink string `json:"access_link"`
	AccessKey  string `json:"access_key"`
}

// PurchaseResponse is the response body for a purchase record. App is nil
// when the listing has been deleted since the purchase.
type PurchaseResponse struct {
	ID        string            `json:"id"`
	Price     int64             `json:"price"`
	Currency  string            `json:"currency"`
	CreatedAt string            `json:"created_at"`
	App       *OwnedAppResponse `json:"app"`
}

// WalletResponse is the response body for wallet queries and seeding.
type WalletResponse struct {
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

// NewAppResponse maps a listing to its public catalog view.
func NewAppResponse(app *domain.App) AppResponse {
	return AppResponse{
		ID:          app.ID.String(),
		UserID:      app.UserID.String(),
		Title:       app.Title,
		Description: app.Description,
		IconURL:     app.IconURL,
		Verified:    app.Verified,
		Price:       app.Price,
		Currency:    app.Currency,
		CreatedAt:   app.CreatedAt.Format(time.RFC3339),
	}
}

// NewOwnedAppResponse maps a listing to its owner view, credentials included.
func NewOwnedAppResponse(app *domain.App) OwnedAppResponse {
	return OwnedAppResponse{
		AppResponse: NewAppResponse(app),
		AccessLink:  app.AccessLink,
		AccessKey:   app.AccessKey,
	}
}

// NewPurchaseResponse maps a purchase record, carrying the owner view of the
// bought app when the listing still exists.
func NewPurchaseResponse(p *domain.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:        p.ID.String(),
		Price:     p.Price,
		Currency:  p.Currency,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.App != nil {
		owned := NewOwnedAppResponse(p.App)
		resp.App = &owned
	}
	return resp
}

// NewPurchaseResponses maps a page of purchase records.
func NewPurchaseResponses(purchases []domain.Purchase) []PurchaseResponse {
	out := make([]PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		out = append(out, NewPurchaseResponse(&purchases[i]))
	}
	return out
}

// NewAppResponses maps a page of catalog listings to their public views.
func NewAppResponses(apps []domain.App) []AppResponse {
	out := make([]AppResponse, 0, len(apps))
	for i := range apps {
		out = append(out, NewAppResponse(&apps[i]))
	}
	return out
}
