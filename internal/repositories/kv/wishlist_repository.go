package kv

import (
	"context"
	"errors"

	domain "github.com/vibe-commerce/api/internal/domain"
	platformkv "github.com/vibe-commerce/api/internal/platform/kv"
)

// WishlistRepository persists the saved-product list per session.
type WishlistRepository struct {
	store platformkv.Store
}

// NewWishlistRepository constructs a store-backed wishlist repository.
func NewWishlistRepository(store platformkv.Store) (*WishlistRepository, error) {
	if store == nil {
		return nil, errors.New("wishlist repository requires a kv store")
	}
	return &WishlistRepository{store: store}, nil
}

// Get loads the wishlist. A missing document is an empty wishlist.
func (r *WishlistRepository) Get(ctx context.Context, sessionID string) ([]domain.Product, error) {
	key, err := sessionKey(wishlistKeyPrefix, sessionID)
	if err != nil {
		return nil, WrapError("wishlists.get", err)
	}
	var doc productListDocument
	if err := getDocument(ctx, r.store, "wishlists.get", key, &doc); err != nil {
		var repoErr *Error
		if errors.As(err, &repoErr) && repoErr.IsNotFound() {
			return []domain.Product{}, nil
		}
		return nil, err
	}
	return decodeProducts(doc), nil
}

// Put stores the full wishlist, replacing any previous version.
func (r *WishlistRepository) Put(ctx context.Context, sessionID string, products []domain.Product) error {
	key, err := sessionKey(wishlistKeyPrefix, sessionID)
	if err != nil {
		return WrapError("wishlists.put", err)
	}
	return putDocument(ctx, r.store, "wishlists.put", key, encodeProducts(products))
}
