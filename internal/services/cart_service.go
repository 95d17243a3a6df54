package services

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/vibe-commerce/api/internal/domain"
	"github.com/vibe-commerce/api/internal/repositories"
)

var (
	errCartRepositoryRequired = errors.New("cart service: repository is required")
	errCartCatalogRequired    = errors.New("cart service: catalog is required")
	errCartClockRequired      = errors.New("cart service: clock is required")
)

// ErrCartInvalidInput indicates the caller supplied invalid input.
var ErrCartInvalidInput = errors.New("cart service: invalid input")

// ErrCartUnavailable indicates the cart service cannot fulfil the request due to backend issues.
var ErrCartUnavailable = errors.New("cart service: unavailable")

// ErrCartItemNotFound indicates the referenced cart line or product does not exist.
var ErrCartItemNotFound = errors.New("cart service: item not found")

// ErrCartOutOfStock indicates the product has no stock at all.
var ErrCartOutOfStock = errors.New("cart service: product out of stock")

// ErrCartInsufficientStock indicates the requested quantity exceeds the stock ceiling.
var ErrCartInsufficientStock = errors.New("cart service: insufficient stock")

// ErrCouponInvalid indicates the submitted coupon code is not recognised or
// cannot be applied to the current cart.
var ErrCouponInvalid = errors.New("cart service: invalid coupon")

// ErrCouponAlreadyApplied indicates a coupon is already active on the cart.
var ErrCouponAlreadyApplied = errors.New("cart service: coupon already applied")

// CartServiceDeps wires the repository and catalog dependencies for cart operations.
type CartServiceDeps struct {
	Repository repositories.CartRepository
	Catalog    ProductCatalog
	CouponCode string
	CouponRate float64
	Clock      func() time.Time
	Logger     func(context.Context, string, map[string]any)
}

type cartService struct {
	repo       repositories.CartRepository
	catalog    ProductCatalog
	couponCode string
	couponRate float64
	now        func() time.Time
	logger     func(context.Context, string, map[string]any)
}

// NewCartService constructs a CartService enforcing dependency validation.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Repository == nil {
		return nil, errCartRepositoryRequired
	}
	if deps.Catalog == nil {
		return nil, errCartCatalogRequired
	}
	if deps.Clock == nil {
		return nil, errCartClockRequired
	}
	couponCode := strings.ToUpper(strings.TrimSpace(deps.CouponCode))
	if couponCode == "" {
		return nil, errors.New("cart service: coupon code is required")
	}
	if deps.CouponRate < 0 || deps.CouponRate >= 1 {
		return nil, errors.New("cart service: coupon rate must be in [0, 1)")
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &cartService{
		repo:       deps.Repository,
		catalog:    deps.Catalog,
		couponCode: couponCode,
		couponRate: deps.CouponRate,
		now:        func() time.Time { return deps.Clock().UTC() },
		logger:     logger,
	}, nil
}

// GetCart loads the cart for the session. A session that never touched its
// cart gets an empty one.
func (s *cartService) GetCart(ctx context.Context, sessionID string) (CartView, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return CartView{}, ErrCartInvalidInput
	}

	cart, err := s.loadCart(ctx, sid)
	if err != nil {
		return CartView{}, err
	}
	return view(cart), nil
}

// AddItem puts the product in the cart or merges quantities into an existing
// line. All product fields come from the catalog, never from the client.
func (s *cartService) AddItem(ctx context.Context, cmd AddCartItemCommand) (CartView, error) {
	sid := strings.TrimSpace(cmd.SessionID)
	if sid == "" || cmd.ProductID <= 0 || cmd.Quantity < 1 {
		return CartView{}, ErrCartInvalidInput
	}

	product, err := s.catalog.Product(ctx, cmd.ProductID)
	if err != nil {
		return CartView{}, s.translateCatalogError(ctx, err)
	}
	if product.Stock < 1 {
		return CartView{}, ErrCartOutOfStock
	}

	cart, err := s.loadCart(ctx, sid)
	if err != nil {
		return CartView{}, err
	}

	idx := lineIndex(cart.Items, cmd.ProductID)
	newQty := cmd.Quantity
	if idx >= 0 {
		newQty += cart.Items[idx].Quantity
	}
	if newQty > product.Stock {
		return CartView{}, ErrCartInsufficientStock
	}

	line := domain.CartItem{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  newQty,
		Stock:     product.Stock,
	}
	if idx >= 0 {
		cart.Items[idx] = line
	} else {
		cart.Items = append(cart.Items, line)
	}

	if err := s.saveCart(ctx, &cart); err != nil {
		return CartView{}, err
	}

	s.logger(ctx, "cart.item_added", map[string]any{
		"sessionID": sid,
		"productID": cmd.ProductID,
		"quantity":  newQty,
	})
	return view(cart), nil
}

// UpdateQuantity sets the line quantity. Anything below one removes the line.
func (s *cartService) UpdateQuantity(ctx context.Context, cmd UpdateCartQuantityCommand) (CartView, error) {
	sid := strings.TrimSpace(cmd.SessionID)
	if sid == "" || cmd.ProductID <= 0 {
		return CartView{}, ErrCartInvalidInput
	}

	cart, err := s.loadCart(ctx, sid)
	if err != nil {
		return CartView{}, err
	}

	idx := lineIndex(cart.Items, cmd.ProductID)
	if idx < 0 {
		return CartView{}, ErrCartItemNotFound
	}

	if cmd.Quantity < 1 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		if cmd.Quantity > cart.Items[idx].Stock {
			return CartView{}, ErrCartInsufficientStock
		}
		cart.Items[idx].Quantity = cmd.Quantity
	}

	if err := s.saveCart(ctx, &cart); err != nil {
		return CartView{}, err
	}

	s.logger(ctx, "cart.quantity_updated", map[string]any{
		"sessionID": sid,
		"productID": cmd.ProductID,
		"quantity":  cmd.Quantity,
	})
	return view(cart), nil
}

// RemoveItem drops the line. Removing an absent line leaves the cart as is.
func (s *cartService) RemoveItem(ctx context.Context, cmd RemoveCartItemCommand) (CartView, error) {
	sid := strings.TrimSpace(cmd.SessionID)
	if sid == "" || cmd.ProductID <= 0 {
		return CartView{}, ErrCartInvalidInput
	}

	cart, err := s.loadCart(ctx, sid)
	if err != nil {
		return CartView{}, err
	}

	if idx := lineIndex(cart.Items, cmd.ProductID); idx >= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		if err := s.saveCart(ctx, &cart); err != nil {
			return CartView{}, err
		}
		s.logger(ctx, "cart.item_removed", map[string]any{
			"sessionID": sid,
			"productID": cmd.ProductID,
		})
	}
	return view(cart), nil
}

// Clear empties the cart and deactivates any coupon.
func (s *cartService) Clear(ctx context.Context, sessionID string) (CartView, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return CartView{}, ErrCartInvalidInput
	}

	cart := domain.Cart{SessionID: sid, Items: []domain.CartItem{}}
	if err := s.saveCart(ctx, &cart); err != nil {
		return CartView{}, err
	}

	s.logger(ctx, "cart.cleared", map[string]any{"sessionID": sid})
	return view(cart), nil
}

// ApplyCoupon validates the code against the configured coupon. A wrong code
// clears any active coupon; a duplicate apply leaves state untouched.
func (s *cartService) ApplyCoupon(ctx context.Context, cmd ApplyCouponCommand) (CartView, error) {
	sid := strings.TrimSpace(cmd.SessionID)
	code := strings.ToUpper(strings.TrimSpace(cmd.Code))
	if sid == "" {
		return CartView{}, ErrCartInvalidInput
	}

	cart, err := s.loadCart(ctx, sid)
	if err != nil {
		return CartView{}, err
	}

	if len(cart.Items) == 0 {
		return view(cart), ErrCouponInvalid
	}
	if cart.Coupon.Applied {
		return view(cart), ErrCouponAlreadyApplied
	}

	if code != s.couponCode {
		if cart.Coupon.Code != "" {
			cart.Coupon = domain.CouponState{}
			if err := s.saveCart(ctx, &cart); err != nil {
				return CartView{}, err
			}
		}
		s.logger(ctx, "cart.coupon_rejected", map[string]any{"sessionID": sid})
		return view(cart), ErrCouponInvalid
	}

	cart.Coupon = domain.CouponState{Code: s.couponCode, Rate: s.couponRate, Applied: true}
	if err := s.saveCart(ctx, &cart); err != nil {
		return CartView{}, err
	}

	s.logger(ctx, "cart.coupon_applied", map[string]any{
		"sessionID": sid,
		"code":      s.couponCode,
	})
	return view(cart), nil
}

func (s *cartService) loadCart(ctx context.Context, sessionID string) (domain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if isRepoNotFound(err) {
			return domain.Cart{SessionID: sessionID, Items: []domain.CartItem{}}, nil
		}
		return domain.Cart{}, s.translateRepoError(err)
	}
	cart.SessionID = sessionID
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return cart, nil
}

// saveCart enforces the empty-cart invariant before persisting: a cart with
// no items never keeps an active coupon.
func (s *cartService) saveCart(ctx context.Context, cart *domain.Cart) error {
	if len(cart.Items) == 0 {
		cart.Coupon = domain.CouponState{}
	}
	cart.UpdatedAt = s.now()
	if err := s.repo.Put(ctx, *cart); err != nil {
		return s.translateRepoError(err)
	}
	return nil
}

func (s *cartService) translateRepoError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		if repoErr.IsNotFound() {
			return ErrCartItemNotFound
		}
		return ErrCartUnavailable
	}
	return ErrCartUnavailable
}

func (s *cartService) translateCatalogError(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case isCatalogNotFound(err):
		return ErrCartItemNotFound
	case isCatalogFetchFailure(err):
		s.logger(ctx, "cart.catalog_fetch_failed", map[string]any{"error": err.Error()})
		return ErrCatalogUnavailable
	default:
		return err
	}
}

func lineIndex(items []domain.CartItem, productID int) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func view(cart domain.Cart) CartView {
	return CartView{Cart: cart, Totals: domain.ComputeTotals(cart)}
}
