package handler

import (
	"app-marketplace/internal/adapter/http/dto"
	"app-marketplace/internal/adapter/http/middleware"
	"app-marketplace/internal/core/ports"
	"app-marketplace/pkg/apperror"
	"app-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogHandler handles catalog browsing endpoints.
type CatalogHandler struct {
	catalogSvc ports.CatalogService
	pageSize   int
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogSvc ports.CatalogService, pageSize int) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc, pageSize: pageSize}
}

// ListCatalog handles GET /api/v1/catalog.
func (h *CatalogHandler) ListCatalog(c *gin.Context) {
	userID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var q dto.CatalogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if q.Page < 1 {
		q.Page = 1
	}

	// A search term with characters outside the slug set is ignored, not
	// rejected: the full verified list comes back unfiltered.
	if q.Search != "" && !dto.IsSlug(q.Search) {
		q.Search = ""
	}

	apps, total, err := h.catalogSvc.ListCatalog(c.Request.Context(), userID.(uuid.UUID), q.Page, q.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, response.NewPage(dto.NewAppResponses(apps), total, q.Page, h.pageSize))
}
