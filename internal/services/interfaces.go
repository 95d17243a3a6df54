package services

import (
	"context"

	domain "github.com/vibe-commerce/api/internal/domain"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Product     = domain.Product
	Rating      = domain.Rating
	Cart        = domain.Cart
	CartItem    = domain.CartItem
	CartTotals  = domain.CartTotals
	CouponState = domain.CouponState
	Wallet      = domain.Wallet
	Customer    = domain.Customer
	Receipt     = domain.Receipt
	OrderStatus = domain.OrderStatus
	Profile     = domain.Profile
	ChatMessage = domain.ChatMessage
	ChatState   = domain.ChatState
)

// ProductCatalog abstracts the upstream catalog client so services can be
// tested against stubs.
type ProductCatalog interface {
	Products(ctx context.Context) ([]Product, error)
	Product(ctx context.Context, id int) (Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// CartView pairs the cart document with its recomputed totals. Totals are
// derived, never stored.
type CartView struct {
	Cart   Cart
	Totals CartTotals
}

// StorefrontService serves the browsing surface: product listings, single
// products, categories, and the per-session recently viewed trail.
type StorefrontService interface {
	ListProducts(ctx context.Context, query ProductQuery) ([]Product, error)
	GetProduct(ctx context.Context, cmd GetProductCommand) (Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	RecentProducts(ctx context.Context, sessionID string) ([]Product, error)
}

// CartService manages the server-authoritative cart and enforces stock rules.
type CartService interface {
	GetCart(ctx context.Context, sessionID string) (CartView, error)
	AddItem(ctx context.Context, cmd AddCartItemCommand) (CartView, error)
	UpdateQuantity(ctx context.Context, cmd UpdateCartQuantityCommand) (CartView, error)
	RemoveItem(ctx context.Context, cmd RemoveCartItemCommand) (CartView, error)
	Clear(ctx context.Context, sessionID string) (CartView, error)
	ApplyCoupon(ctx context.Context, cmd ApplyCouponCommand) (CartView, error)
}

// WishlistService manages the saved-products list.
type WishlistService interface {
	List(ctx context.Context, sessionID string) ([]Product, error)
	Toggle(ctx context.Context, cmd ToggleWishlistCommand) ([]Product, error)
	MoveToCart(ctx context.Context, cmd MoveToCartCommand) (MoveToCartResult, error)
}

// WalletService manages the demo spending balance.
type WalletService interface {
	Get(ctx context.Context, sessionID string) (Wallet, error)
	Credit(ctx context.Context, cmd CreditWalletCommand) (Wallet, error)
	Debit(ctx context.Context, cmd DebitWalletCommand) (Wallet, error)
}

// CheckoutService turns a cart into a receipt, debiting the wallet.
type CheckoutService interface {
	Checkout(ctx context.Context, cmd CheckoutCommand) (Receipt, error)
}

// OrderService exposes order history, tracking, and status transitions.
type OrderService interface {
	ListOrders(ctx context.Context, sessionID string) ([]Receipt, error)
	GetOrder(ctx context.Context, sessionID, receiptID string) (Receipt, error)
	TrackOrder(ctx context.Context, sessionID, receiptID string) (Receipt, error)
	AdvanceOrder(ctx context.Context, sessionID, receiptID string) (Receipt, error)
	Shutdown()
}

// ChatService drives the scripted storefront assistant.
type ChatService interface {
	History(ctx context.Context, sessionID string) (ChatState, error)
	Send(ctx context.Context, cmd SendChatMessageCommand) (ChatState, error)
	Reset(ctx context.Context, sessionID string) error
}

// ProfileService manages the stub account record.
type ProfileService interface {
	Get(ctx context.Context, sessionID string) (Profile, error)
	Update(ctx context.Context, cmd UpdateProfileCommand) (Profile, error)
}

// ProductQuery filters product listings.
type ProductQuery struct {
	Category string
	Search   string
}

// GetProductCommand fetches one product, recording the view against the
// session when one is present.
type GetProductCommand struct {
	SessionID string
	ProductID int
}

type AddCartItemCommand struct {
	SessionID string
	ProductID int
	Quantity  int
}

type UpdateCartQuantityCommand struct {
	SessionID string
	ProductID int
	Quantity  int
}

type RemoveCartItemCommand struct {
	SessionID string
	ProductID int
}

type ApplyCouponCommand struct {
	SessionID string
	Code      string
}

type ToggleWishlistCommand struct {
	SessionID string
	ProductID int
}

type MoveToCartCommand struct {
	SessionID string
	ProductID int
}

// MoveToCartResult reports both sides of a successful move.
type MoveToCartResult struct {
	Cart     CartView
	Wishlist []Product
}

type CreditWalletCommand struct {
	SessionID string
	Amount    float64
}

type DebitWalletCommand struct {
	SessionID string
	Amount    float64
}

type CheckoutCommand struct {
	SessionID string
	Name      string
	Email     string
}

type SendChatMessageCommand struct {
	SessionID string
	Text      string
}

type UpdateProfileCommand struct {
	SessionID string
	Name      string
	Email     string
}
