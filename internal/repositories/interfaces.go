package repositories

import (
	"context"

	domain "github.com/vibe-commerce/api/internal/domain"
)

// Registry exposes typed repository accessors and lifecycle hooks for dependency injection.
type Registry interface {
	Close(ctx context.Context) error

	Carts() CartRepository
	Wishlists() WishlistRepository
	Wallets() WalletRepository
	Orders() OrderRepository
	Profiles() ProfileRepository
	Chats() ChatRepository
	RecentlyViewed() RecentlyViewedRepository
	Health() HealthRepository
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// CartRepository persists the single server-side cart document per session.
type CartRepository interface {
	Get(ctx context.Context, sessionID string) (domain.Cart, error)
	Put(ctx context.Context, cart domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// WishlistRepository persists the saved-products list per session.
type WishlistRepository interface {
	Get(ctx context.Context, sessionID string) ([]domain.Product, error)
	Put(ctx context.Context, sessionID string, products []domain.Product) error
}

// WalletRepository persists the demo wallet balance per session.
type WalletRepository interface {
	Get(ctx context.Context, sessionID string) (domain.Wallet, error)
	Put(ctx context.Context, wallet domain.Wallet) error
}

// OrderRepository persists the order history per session, newest first.
type OrderRepository interface {
	List(ctx context.Context, sessionID string) ([]domain.Receipt, error)
	FindByID(ctx context.Context, sessionID, receiptID string) (domain.Receipt, error)
	Insert(ctx context.Context, receipt domain.Receipt) error
	Update(ctx context.Context, receipt domain.Receipt) error
}

// ProfileRepository persists the stub account record per session.
type ProfileRepository interface {
	Get(ctx context.Context, sessionID string) (domain.Profile, error)
	Put(ctx context.Context, profile domain.Profile) error
}

// ChatRepository persists the assistant conversation per session.
type ChatRepository interface {
	Get(ctx context.Context, sessionID string) (domain.ChatState, error)
	Put(ctx context.Context, state domain.ChatState) error
	Delete(ctx context.Context, sessionID string) error
}

// RecentlyViewedRepository persists the recently viewed product list per session.
type RecentlyViewedRepository interface {
	Get(ctx context.Context, sessionID string) ([]domain.Product, error)
	Put(ctx context.Context, sessionID string, products []domain.Product) error
}

// HealthRepository verifies downstream persistence connectivity for readiness probes.
type HealthRepository interface {
	Ping(ctx context.Context) error
}
