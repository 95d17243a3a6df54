package services

import (
	"context"
	"errors"
	"strings"

	domain "github.com/vibe-commerce/api/internal/domain"
	"github.com/vibe-commerce/api/internal/repositories"
)

// recentlyViewedLimit caps how many products a session's history keeps.
const recentlyViewedLimit = 8

var (
	// ErrStorefrontInvalidInput indicates the query failed validation.
	ErrStorefrontInvalidInput = errors.New("storefront: invalid input")
	// ErrProductNotFound indicates the product does not exist upstream.
	ErrProductNotFound = errors.New("storefront: product not found")
)

// StorefrontServiceDeps bundles dependencies for NewStorefrontService.
type StorefrontServiceDeps struct {
	Catalog ProductCatalog
	Recent  repositories.RecentlyViewedRepository
	Logger  func(ctx context.Context, msg string, fields map[string]any)
}

type storefrontService struct {
	catalog ProductCatalog
	recent  repositories.RecentlyViewedRepository
	logger  func(ctx context.Context, msg string, fields map[string]any)
}

// NewStorefrontService builds the catalog-facing read service.
func NewStorefrontService(deps StorefrontServiceDeps) (StorefrontService, error) {
	if deps.Catalog == nil {
		return nil, errors.New("storefront service requires a product catalog")
	}
	if deps.Recent == nil {
		return nil, errors.New("storefront service requires a recently-viewed repository")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &storefrontService{
		catalog: deps.Catalog,
		recent:  deps.Recent,
		logger:  logger,
	}, nil
}

func (s *storefrontService) ListProducts(ctx context.Context, query ProductQuery) ([]Product, error) {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, s.translateCatalogError(ctx, err)
	}

	category := strings.TrimSpace(query.Category)
	search := strings.ToLower(strings.TrimSpace(query.Search))

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

// GetProduct fetches one product and, when a session is attached, records the
// view in the session's recently-viewed list.
func (s *storefrontService) GetProduct(ctx context.Context, cmd GetProductCommand) (Product, error) {
	if cmd.ProductID < 1 {
		return Product{}, ErrStorefrontInvalidInput
	}

	product, err := s.catalog.Product(ctx, cmd.ProductID)
	if err != nil {
		return Product{}, s.translateCatalogError(ctx, err)
	}

	if sid := strings.TrimSpace(cmd.SessionID); sid != "" {
		s.recordView(ctx, sid, product)
	}
	return product, nil
}

func (s *storefrontService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		return nil, s.translateCatalogError(ctx, err)
	}
	return categories, nil
}

func (s *storefrontService) RecentProducts(ctx context.Context, sessionID string) ([]Product, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil, ErrStorefrontInvalidInput
	}
	products, err := s.recent.Get(ctx, sid)
	if err != nil {
		return nil, ErrCatalogUnavailable
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// recordView prepends the product, dropping any older entry for the same ID.
// History tracking is best effort and never fails the read.
func (s *storefrontService) recordView(ctx context.Context, sessionID string, product domain.Product) {
	existing, err := s.recent.Get(ctx, sessionID)
	if err != nil {
		s.logger(ctx, "storefront.recent_read_failed", map[string]any{
			"sessionID": sessionID,
			"error":     err.Error(),
		})
		return
	}

	viewed := make([]domain.Product, 0, len(existing)+1)
	viewed = append(viewed, product)
	for _, p := range existing {
		if p.ID == product.ID {
			continue
		}
		viewed = append(viewed, p)
	}
	if len(viewed) > recentlyViewedLimit {
		viewed = viewed[:recentlyViewedLimit]
	}

	if err := s.recent.Put(ctx, sessionID, viewed); err != nil {
		s.logger(ctx, "storefront.recent_write_failed", map[string]any{
			"sessionID": sessionID,
			"error":     err.Error(),
		})
	}
}

func (s *storefrontService) translateCatalogError(ctx context.Context, err error) error {
	if isCatalogNotFound(err) {
		return ErrProductNotFound
	}
	s.logger(ctx, "storefront.catalog_fetch_failed", map[string]any{
		"error": err.Error(),
	})
	return ErrCatalogUnavailable
}
