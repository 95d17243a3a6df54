package domain

import (
	"time"
)

// Rating captures the upstream catalog's review aggregate for a product.
type Rating struct {
	Rate  float64
	Count int
}

// Product is a catalog entry enriched with storefront stock and sale data.
type Product struct {
	ID          int
	Title       string
	Price       float64
	Description string
	Category    string
	Image       string
	Rating      Rating
	Stock       int
	OnSale      bool
	OldPrice    float64
}

// CartItem is one cart line. Price, title, image and stock are snapshots of
// the catalog entry at the time the line was created or last merged.
type CartItem struct {
	ProductID int
	Title     string
	Price     float64
	Image     string
	Quantity  int
	Stock     int
}

// CouponState records the promotion attached to a cart. Applied is false for
// carts that never saw a valid coupon or whose coupon has been cleared.
type CouponState struct {
	Code    string
	Rate    float64
	Applied bool
}

// Cart is the server-authoritative cart document for one session.
type Cart struct {
	SessionID string
	Items     []CartItem
	Coupon    CouponState
	UpdatedAt time.Time
}

// CartTotals holds the monetary summary recomputed after every cart mutation.
type CartTotals struct {
	Subtotal float64
	Discount float64
	Total    float64
}

// Wallet tracks the session's demo spending balance.
type Wallet struct {
	SessionID string
	Balance   float64
	UpdatedAt time.Time
}

// Customer is the checkout contact snapshot stored on a receipt.
type Customer struct {
	Name  string
	Email string
}

// OrderStatus enumerates the receipt fulfilment lifecycle.
type OrderStatus string

const (
	// OrderStatusProcessing marks a freshly placed order awaiting shipment.
	OrderStatusProcessing OrderStatus = "Processing"
	// OrderStatusShipped marks an order handed to the carrier.
	OrderStatusShipped OrderStatus = "Shipped"
	// OrderStatusOutForDelivery marks an order on the last leg.
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	// OrderStatusDelivered is the terminal state.
	OrderStatusDelivered OrderStatus = "Delivered"
)

// Receipt is the immutable snapshot produced by a successful checkout.
// Items, prices and totals never change after the order is placed; only
// Status and UpdatedAt advance.
type Receipt struct {
	ReceiptID    string
	TrackingID   string
	SessionID    string
	Items        []CartItem
	Subtotal     float64
	DiscountRate float64
	Total        float64
	Customer     Customer
	Status       OrderStatus
	PlacedAt     time.Time
	UpdatedAt    time.Time
}

// Profile is the stub account record kept per session.
type Profile struct {
	SessionID string
	Name      string
	Email     string
	UpdatedAt time.Time
}

// MessageSender distinguishes the two chat message variants.
type MessageSender string

const (
	// SenderBot marks messages produced by the scripted assistant.
	SenderBot MessageSender = "bot"
	// SenderUser marks messages typed by the visitor.
	SenderUser MessageSender = "user"
)

// ChatMessage is one transcript entry. Options is only ever populated on
// bot messages; user messages carry text alone.
type ChatMessage struct {
	ID      string
	Sender  MessageSender
	Text    string
	Options []string
	SentAt  time.Time
}

// ChatPhase enumerates the trivia script's conversation states.
type ChatPhase string

const (
	// ChatPhaseIdle means no trivia round is in progress.
	ChatPhaseIdle ChatPhase = "idle"
	// ChatPhaseAwaitingTrivia means the bot offered a round and waits for yes/no.
	ChatPhaseAwaitingTrivia ChatPhase = "awaiting_trivia"
	// ChatPhaseAwaitingAnswer means a question is outstanding.
	ChatPhaseAwaitingAnswer ChatPhase = "awaiting_answer"
	// ChatPhaseAwaitingNext means the bot asked whether to continue.
	ChatPhaseAwaitingNext ChatPhase = "awaiting_next"
)

// ChatState is the persisted conversation document for one session.
type ChatState struct {
	SessionID   string
	Phase       ChatPhase
	QuestionIdx int
	Messages    []ChatMessage
	UpdatedAt   time.Time
}
