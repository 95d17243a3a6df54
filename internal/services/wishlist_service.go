package services

import (
	"context"
	"errors"
	"strings"

	"github.com/vibe-commerce/api/internal/repositories"
)

var (
	// ErrWishlistInvalidInput indicates the wishlist command failed validation.
	ErrWishlistInvalidInput = errors.New("wishlist: invalid input")
	// ErrWishlistUnavailable indicates the wishlist backend failed.
	ErrWishlistUnavailable = errors.New("wishlist: backend unavailable")
	// ErrWishlistProductNotFound indicates the product is absent from the catalog or the list.
	ErrWishlistProductNotFound = errors.New("wishlist: product not found")
)

// WishlistServiceDeps bundles dependencies for NewWishlistService.
type WishlistServiceDeps struct {
	Repository repositories.WishlistRepository
	Catalog    ProductCatalog
	Cart       CartService
	Logger     func(ctx context.Context, msg string, fields map[string]any)
}

type wishlistService struct {
	repo    repositories.WishlistRepository
	catalog ProductCatalog
	cart    CartService
	logger  func(ctx context.Context, msg string, fields map[string]any)
}

// NewWishlistService builds a WishlistService backed by the session wishlist store.
func NewWishlistService(deps WishlistServiceDeps) (WishlistService, error) {
	if deps.Repository == nil {
		return nil, errors.New("wishlist service requires a repository")
	}
	if deps.Catalog == nil {
		return nil, errors.New("wishlist service requires a product catalog")
	}
	if deps.Cart == nil {
		return nil, errors.New("wishlist service requires a cart service")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &wishlistService{
		repo:    deps.Repository,
		catalog: deps.Catalog,
		cart:    deps.Cart,
		logger:  logger,
	}, nil
}

func (s *wishlistService) List(ctx context.Context, sessionID string) ([]Product, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil, ErrWishlistInvalidInput
	}
	products, err := s.repo.Get(ctx, sid)
	if err != nil {
		return nil, s.translateRepoError(err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

func (s *wishlistService) Toggle(ctx context.Context, cmd ToggleWishlistCommand) ([]Product, error) {
	sid := strings.TrimSpace(cmd.SessionID)
	if sid == "" || cmd.ProductID < 1 {
		return nil, ErrWishlistInvalidInput
	}

	products, err := s.repo.Get(ctx, sid)
	if err != nil {
		return nil, s.translateRepoError(err)
	}

	if idx := productIndex(products, cmd.ProductID); idx >= 0 {
		products = append(products[:idx], products[idx+1:]...)
		if err := s.repo.Put(ctx, sid, products); err != nil {
			return nil, s.translateRepoError(err)
		}
		s.logger(ctx, "wishlist.removed", map[string]any{
			"sessionID": sid,
			"productID": cmd.ProductID,
		})
		return products, nil
	}

	product, err := s.catalog.Product(ctx, cmd.ProductID)
	if err != nil {
		if isCatalogNotFound(err) {
			return nil, ErrWishlistProductNotFound
		}
		s.logger(ctx, "wishlist.catalog_fetch_failed", map[string]any{
			"sessionID": sid,
			"productID": cmd.ProductID,
			"error":     err.Error(),
		})
		return nil, ErrCatalogUnavailable
	}

	products = append(products, product)
	if err := s.repo.Put(ctx, sid, products); err != nil {
		return nil, s.translateRepoError(err)
	}
	s.logger(ctx, "wishlist.added", map[string]any{
		"sessionID": sid,
		"productID": cmd.ProductID,
	})
	return products, nil
}

func (s *wishlistService) MoveToCart(ctx context.Context, cmd MoveToCartCommand) (MoveToCartResult, error) {
	sid := strings.TrimSpace(cmd.SessionID)
	if sid == "" || cmd.ProductID < 1 {
		return MoveToCartResult{}, ErrWishlistInvalidInput
	}

	products, err := s.repo.Get(ctx, sid)
	if err != nil {
		return MoveToCartResult{}, s.translateRepoError(err)
	}
	idx := productIndex(products, cmd.ProductID)
	if idx < 0 {
		return MoveToCartResult{}, ErrWishlistProductNotFound
	}

	// Add first: if the cart rejects the item (stock), it stays wishlisted.
	cartView, err := s.cart.AddItem(ctx, AddCartItemCommand{
		SessionID: sid,
		ProductID: cmd.ProductID,
		Quantity:  1,
	})
	if err != nil {
		return MoveToCartResult{}, err
	}

	products = append(products[:idx], products[idx+1:]...)
	if err := s.repo.Put(ctx, sid, products); err != nil {
		return MoveToCartResult{}, s.translateRepoError(err)
	}
	s.logger(ctx, "wishlist.moved_to_cart", map[string]any{
		"sessionID": sid,
		"productID": cmd.ProductID,
	})
	return MoveToCartResult{Cart: cartView, Wishlist: products}, nil
}

func (s *wishlistService) translateRepoError(err error) error {
	if isRepoNotFound(err) {
		return ErrWishlistProductNotFound
	}
	return ErrWishlistUnavailable
}

func productIndex(products []Product, productID int) int {
	for i, p := range products {
		if p.ID == productID {
			return i
		}
	}
	return -1
}
