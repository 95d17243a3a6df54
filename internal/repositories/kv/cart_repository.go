package kv

import (
	"context"
	"errors"

	domain "github.com/vibe-commerce/api/internal/domain"
	platformkv "github.com/vibe-commerce/api/internal/platform/kv"
)

// CartRepository persists the cart document per session.
type CartRepository struct {
	store platformkv.Store
}

// NewCartRepository constructs a store-backed cart repository.
func NewCartRepository(store platformkv.Store) (*CartRepository, error) {
	if store == nil {
		return nil, errors.New("cart repository requires a kv store")
	}
	return &CartRepository{store: store}, nil
}

// Get loads the cart for the session. Missing documents are a not-found
// classified error; the service layer turns that into an empty cart.
func (r *CartRepository) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	key, err := sessionKey(cartKeyPrefix, sessionID)
	if err != nil {
		return domain.Cart{}, WrapError("carts.get", err)
	}
	var doc cartDocument
	if err := getDocument(ctx, r.store, "carts.get", key, &doc); err != nil {
		return domain.Cart{}, err
	}
	return decodeCart(sessionID, doc), nil
}

// Put stores the full cart document, replacing any previous version.
func (r *CartRepository) Put(ctx context.Context, cart domain.Cart) error {
	key, err := sessionKey(cartKeyPrefix, cart.SessionID)
	if err != nil {
		return WrapError("carts.put", err)
	}
	return putDocument(ctx, r.store, "carts.put", key, encodeCart(cart))
}

// Delete removes the cart document.
func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	key, err := sessionKey(cartKeyPrefix, sessionID)
	if err != nil {
		return WrapError("carts.delete", err)
	}
	return deleteDocument(ctx, r.store, "carts.delete", key)
}
