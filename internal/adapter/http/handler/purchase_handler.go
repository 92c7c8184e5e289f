package handler

import (
	"strconv"

	"app-marketplace/internal/adapter/http/dto"
	"app-marketplace/internal/adapter/http/middleware"
	"app-marketplace/internal/core/ports"
	"app-marketplace/pkg/apperror"
	"app-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseHandler handles purchase endpoints.
type PurchaseHandler struct {
	purchaseSvc ports.PurchaseService
	pageSize    int
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseSvc ports.PurchaseService, pageSize int) *PurchaseHandler {
	return &PurchaseHandler{purchaseSvc: purchaseSvc, pageSize: pageSize}
}

// Purchase handles POST /api/v1/purchases.
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	buyerID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	appID, err := uuid.Parse(req.AppID)
	if err != nil {
		response.Error(c, apperror.Validation("app_id must be a valid uuid"))
		return
	}

	receipt, err := h.purchaseSvc.Purchase(c.Request.Context(), buyerID.(uuid.UUID), appID)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Payment cleared: the receipt carries the owner-level app view,
	// access credentials included.
	record := *receipt.Purchase
	record.App = receipt.App
	response.OK(c, dto.NewPurchaseResponse(&record))
}

// ListPurchases handles GET /api/v1/purchases.
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	buyerID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	purchases, total, err := h.purchaseSvc.ListPurchases(c.Request.Context(), buyerID.(uuid.UUID), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, response.NewPage(dto.NewPurchaseResponses(purchases), total, page, h.pageSize))
}

// GetPurchase handles GET /api/v1/purchases/:id.
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	buyerID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid uuid"))
		return
	}

	purchase, err := h.purchaseSvc.GetPurchase(c.Request.Context(), buyerID.(uuid.UUID), purchaseID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewPurchaseResponse(purchase))
}
