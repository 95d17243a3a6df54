package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	domain "github.com/vibe-commerce/api/internal/domain"
	"github.com/vibe-commerce/api/internal/repositories"
)

const (
	receiptIDPrefix  = "VIBE-"
	trackingIDPrefix = "TRK-"
)

var (
	// ErrCheckoutValidation indicates the customer details failed validation.
	ErrCheckoutValidation = errors.New("checkout: invalid customer details")
	// ErrCheckoutCartEmpty indicates there is nothing to check out.
	ErrCheckoutCartEmpty = errors.New("checkout: cart is empty")
	// ErrCheckoutInFlight indicates another checkout for the session is still running.
	ErrCheckoutInFlight = errors.New("checkout: already in progress")
	// ErrCheckoutUnavailable indicates a checkout dependency failed mid-flow.
	ErrCheckoutUnavailable = errors.New("checkout: unavailable")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CheckoutValidationError carries per-field validation messages alongside
// ErrCheckoutValidation.
type CheckoutValidationError struct {
	Fields map[string]string
}

func (e *CheckoutValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return fmt.Sprintf("checkout: invalid customer details (%s)", strings.Join(keys, ", "))
}

func (e *CheckoutValidationError) Unwrap() error { return ErrCheckoutValidation }

// CheckoutServiceDeps wires the dependencies required by the checkout service.
type CheckoutServiceDeps struct {
	Carts       repositories.CartRepository
	Orders      repositories.OrderRepository
	Catalog     ProductCatalog
	Wallet      WalletService
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(ctx context.Context, event string, fields map[string]any)
}

type checkoutService struct {
	carts   repositories.CartRepository
	orders  repositories.OrderRepository
	catalog ProductCatalog
	wallet  WalletService
	now     func() time.Time
	newID   func() string
	logger  func(ctx context.Context, event string, fields map[string]any)

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewCheckoutService constructs a CheckoutService validating required dependencies.
func NewCheckoutService(deps CheckoutServiceDeps) (CheckoutService, error) {
	if deps.Carts == nil {
		return nil, errors.New("checkout service: cart repository is required")
	}
	if deps.Orders == nil {
		return nil, errors.New("checkout service: order repository is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("checkout service: product catalog is required")
	}
	if deps.Wallet == nil {
		return nil, errors.New("checkout service: wallet service is required")
	}
	if deps.IDGenerator == nil {
		return nil, errors.New("checkout service: id generator is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &checkoutService{
		carts:   deps.Carts,
		orders:  deps.Orders,
		catalog: deps.Catalog,
		wallet:  deps.Wallet,
		now: func() time.Time {
			return clock().UTC()
		},
		newID:    deps.IDGenerator,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}, nil
}

// Checkout re-prices the cart against the live catalog, debits the wallet, and
// records an immutable receipt snapshot. A failure after the debit credits the
// amount back.
func (s *checkoutService) Checkout(ctx context.Context, cmd CheckoutCommand) (Receipt, error) {
	sid := strings.TrimSpace(cmd.SessionID)
	if sid == "" {
		return Receipt{}, ErrCheckoutValidation
	}
	customer, err := validateCustomer(cmd)
	if err != nil {
		return Receipt{}, err
	}

	if !s.begin(sid) {
		return Receipt{}, ErrCheckoutInFlight
	}
	defer s.finish(sid)

	cart, err := s.loadCart(ctx, sid)
	if err != nil {
		return Receipt{}, err
	}
	if len(cart.Items) == 0 {
		return Receipt{}, ErrCheckoutCartEmpty
	}

	if err := s.reprice(ctx, &cart); err != nil {
		return Receipt{}, err
	}
	totals := domain.ComputeTotals(cart)

	if _, err := s.wallet.Debit(ctx, DebitWalletCommand{SessionID: sid, Amount: totals.Total}); err != nil {
		if errors.Is(err, ErrWalletInsufficientFunds) {
			return Receipt{}, err
		}
		s.logger(ctx, "checkout.debit_failed", map[string]any{
			"sessionID": sid,
			"error":     err.Error(),
		})
		return Receipt{}, ErrCheckoutUnavailable
	}

	now := s.now()
	receipt := domain.Receipt{
		ReceiptID:    receiptIDPrefix + s.newID(),
		TrackingID:   trackingIDPrefix + s.newID(),
		SessionID:    sid,
		Items:        append([]domain.CartItem{}, cart.Items...),
		Subtotal:     totals.Subtotal,
		DiscountRate: couponRate(cart.Coupon),
		Total:        totals.Total,
		Customer:     customer,
		Status:       domain.OrderStatusProcessing,
		PlacedAt:     now,
		UpdatedAt:    now,
	}

	if err := s.orders.Insert(ctx, receipt); err != nil {
		s.refund(ctx, sid, totals.Total, "order_insert_failed")
		s.logger(ctx, "checkout.order_insert_failed", map[string]any{
			"sessionID": sid,
			"receiptID": receipt.ReceiptID,
			"error":     err.Error(),
		})
		return Receipt{}, ErrCheckoutUnavailable
	}

	// The order exists and the wallet is settled at this point; a failed cart
	// reset only leaves stale lines behind.
	if err := s.carts.Delete(ctx, sid); err != nil {
		s.logger(ctx, "checkout.cart_clear_failed", map[string]any{
			"sessionID": sid,
			"receiptID": receipt.ReceiptID,
			"error":     err.Error(),
		})
	}

	s.logger(ctx, "checkout.completed", map[string]any{
		"sessionID": sid,
		"receiptID": receipt.ReceiptID,
		"total":     receipt.Total,
	})
	return receipt, nil
}

func (s *checkoutService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *checkoutService) finish(sessionID string) {
	s.mu.Lock()
	delete(s.inFlight, sessionID)
	s.mu.Unlock()
}

func (s *checkoutService) loadCart(ctx context.Context, sessionID string) (domain.Cart, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		if isRepoNotFound(err) {
			return domain.Cart{}, ErrCheckoutCartEmpty
		}
		return domain.Cart{}, ErrCheckoutUnavailable
	}
	return cart, nil
}

// reprice replaces every stored line price with the catalog's current price
// and re-checks the stock ceiling. Client-supplied prices never survive.
func (s *checkoutService) reprice(ctx context.Context, cart *domain.Cart) error {
	for i, item := range cart.Items {
		product, err := s.catalog.Product(ctx, item.ProductID)
		if err != nil {
			if isCatalogNotFound(err) {
				return ErrCartItemNotFound
			}
			s.logger(ctx, "checkout.reprice_failed", map[string]any{
				"sessionID": cart.SessionID,
				"productID": item.ProductID,
				"error":     err.Error(),
			})
			return ErrCatalogUnavailable
		}
		if product.Stock < 1 {
			return ErrCartOutOfStock
		}
		if item.Quantity > product.Stock {
			return ErrCartInsufficientStock
		}
		cart.Items[i].Price = product.Price
		cart.Items[i].Stock = product.Stock
		cart.Items[i].Title = product.Title
		cart.Items[i].Image = product.Image
	}
	return nil
}

func (s *checkoutService) refund(ctx context.Context, sessionID string, amount float64, reason string) {
	if amount <= 0 {
		return
	}
	if _, err := s.wallet.Credit(ctx, CreditWalletCommand{SessionID: sessionID, Amount: amount}); err != nil {
		s.logger(ctx, "checkout.refund_failed", map[string]any{
			"sessionID": sessionID,
			"amount":    amount,
			"reason":    reason,
			"error":     err.Error(),
		})
	}
}

func validateCustomer(cmd CheckoutCommand) (domain.Customer, error) {
	name := strings.TrimSpace(cmd.Name)
	email := strings.TrimSpace(cmd.Email)

	fields := make(map[string]string)
	if name == "" {
		fields["name"] = "name is required"
	}
	if email == "" {
		fields["email"] = "email is required"
	} else if !emailPattern.MatchString(email) {
		fields["email"] = "email is not valid"
	}
	if len(fields) > 0 {
		return domain.Customer{}, &CheckoutValidationError{Fields: fields}
	}
	return domain.Customer{Name: name, Email: email}, nil
}

func couponRate(coupon domain.CouponState) float64 {
	if coupon.Applied {
		return coupon.Rate
	}
	return 0
}
