package kv

import (
	"context"
	"errors"

	domain "github.com/vibe-commerce/api/internal/domain"
	platformkv "github.com/vibe-commerce/api/internal/platform/kv"
)

// RecentlyViewedRepository persists the recently viewed product list per session.
type RecentlyViewedRepository struct {
	store platformkv.Store
}

// NewRecentlyViewedRepository constructs a store-backed recently-viewed repository.
func NewRecentlyViewedRepository(store platformkv.Store) (*RecentlyViewedRepository, error) {
	if store == nil {
		return nil, errors.New("recently viewed repository requires a kv store")
	}
	return &RecentlyViewedRepository{store: store}, nil
}

// Get loads the list, most recently viewed first. A missing document is an
// empty list.
func (r *RecentlyViewedRepository) Get(ctx context.Context, sessionID string) ([]domain.Product, error) {
	key, err := sessionKey(recentKeyPrefix, sessionID)
	if err != nil {
		return nil, WrapError("recent.get", err)
	}
	var doc productListDocument
	if err := getDocument(ctx, r.store, "recent.get", key, &doc); err != nil {
		var repoErr *Error
		if errors.As(err, &repoErr) && repoErr.IsNotFound() {
			return []domain.Product{}, nil
		}
		return nil, err
	}
	return decodeProducts(doc), nil
}

// Put stores the full list, replacing any previous version.
func (r *RecentlyViewedRepository) Put(ctx context.Context, sessionID string, products []domain.Product) error {
	key, err := sessionKey(recentKeyPrefix, sessionID)
	if err != nil {
		return WrapError("recent.put", err)
	}
	return putDocument(ctx, r.store, "recent.put", key, encodeProducts(products))
}
