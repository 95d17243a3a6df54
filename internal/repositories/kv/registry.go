package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	platformkv "github.com/vibe-commerce/api/internal/platform/kv"
	"github.com/vibe-commerce/api/internal/repositories"
)

// Registry wires every store-backed repository over a single kv.Store.
type Registry struct {
	store    platformkv.Store
	carts    *CartRepository
	wishes   *WishlistRepository
	wallets  *WalletRepository
	orders   *OrderRepository
	profiles *ProfileRepository
	chats    *ChatRepository
	recent   *RecentlyViewedRepository
	health   *HealthRepository
}

var _ repositories.Registry = (*Registry)(nil)

// NewRegistry constructs the full repository set over the provided store.
func NewRegistry(store platformkv.Store) (*Registry, error) {
	if store == nil {
		return nil, errors.New("registry requires a kv store")
	}

	reg := &Registry{store: store}
	var err error
	if reg.carts, err = NewCartRepository(store); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	if reg.wishes, err = NewWishlistRepository(store); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	if reg.wallets, err = NewWalletRepository(store); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	if reg.orders, err = NewOrderRepository(store); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	if reg.profiles, err = NewProfileRepository(store); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	if reg.chats, err = NewChatRepository(store); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	if reg.recent, err = NewRecentlyViewedRepository(store); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	if reg.health, err = NewHealthRepository(store); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	return reg, nil
}

// Close releases the underlying store.
func (r *Registry) Close(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- r.store.Close() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
		return errors.New("registry: close timed out")
	}
}

// Carts implements repositories.Registry.
func (r *Registry) Carts() repositories.CartRepository { return r.carts }

// Wishlists implements repositories.Registry.
func (r *Registry) Wishlists() repositories.WishlistRepository { return r.wishes }

// Wallets implements repositories.Registry.
func (r *Registry) Wallets() repositories.WalletRepository { return r.wallets }

// Orders implements repositories.Registry.
func (r *Registry) Orders() repositories.OrderRepository { return r.orders }

// Profiles implements repositories.Registry.
func (r *Registry) Profiles() repositories.ProfileRepository { return r.profiles }

// Chats implements repositories.Registry.
func (r *Registry) Chats() repositories.ChatRepository { return r.chats }

// RecentlyViewed implements repositories.Registry.
func (r *Registry) RecentlyViewed() repositories.RecentlyViewedRepository { return r.recent }

// Health implements repositories.Registry.
func (r *Registry) Health() repositories.HealthRepository { return r.health }
