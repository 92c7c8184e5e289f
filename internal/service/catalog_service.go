package service

import (
	"context"
	"fmt"

	"app-marketplace/internal/core/domain"
	"app-marketplace/internal/core/ports"
	"app-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CatalogServiceImpl implements ports.CatalogService.
type CatalogServiceImpl struct {
	appRepo  ports.AppRepository
	pageSize int
	log      zerolog.Logger
}

// NewCatalogService creates a new CatalogServiceImpl.
func NewCatalogService(appRepo ports.AppRepository, pageSize int, log zerolog.Logger) *CatalogServiceImpl {
	return &CatalogServiceImpl{appRepo: appRepo, pageSize: pageSize, log: log}
}

// ListCatalog returns one page of verified listings, excluding the
// requester's own, stripped to the public view.
func (s *CatalogServiceImpl) ListCatalog(ctx context.Context, userID uuid.UUID, page int, search string) ([]domain.App, int64, error) {
	if page < 1 {
		page = 1
	}

	apps, total, err := s.appRepo.ListVerified(ctx, ports.CatalogListParams{
		ExcludeUserID: userID,
		Search:        search,
		Page:          page,
		PageSize:      s.pageSize,
	})
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list catalog: %w", err))
	}

	// Strip credentials; browsing never discloses what buyers pay for.
	public := make([]domain.App, 0, len(apps))
	for i := range apps {
		public = append(public, apps[i].PublicView())
	}

	return public, total, nil
}
