package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	domain "github.com/vibe-commerce/api/internal/domain"
)

type checkoutFixture struct {
	carts   *memoryCartRepository
	orders  *memoryOrderRepository
	wallets *memoryWalletRepository
	svc     CheckoutService
}

type memoryOrderRepository struct {
	mu       sync.Mutex
	receipts map[string][]domain.Receipt
}

func newMemoryOrderRepository() *memoryOrderRepository {
	return &memoryOrderRepository{receipts: make(map[string][]domain.Receipt)}
}

func (m *memoryOrderRepository) List(ctx context.Context, sessionID string) ([]domain.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Receipt{}, m.receipts[sessionID]...), nil
}

func (m *memoryOrderRepository) FindByID(ctx context.Context, sessionID, receiptID string) (domain.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.receipts[sessionID] {
		if r.ReceiptID == receiptID {
			return r, nil
		}
	}
	return domain.Receipt{}, &repositoryErrorStub{notFound: true}
}

func (m *memoryOrderRepository) Insert(ctx context.Context, receipt domain.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts[receipt.SessionID] = append([]domain.Receipt{receipt}, m.receipts[receipt.SessionID]...)
	return nil
}

func (m *memoryOrderRepository) Update(ctx context.Context, receipt domain.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.receipts[receipt.SessionID] {
		if r.ReceiptID == receipt.ReceiptID {
			m.receipts[receipt.SessionID][i] = receipt
			return nil
		}
	}
	return &repositoryErrorStub{notFound: true}
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("01TEST%08d", n)
	}
}

func newCheckoutFixture(t *testing.T, cat ProductCatalog) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		carts:   newMemoryCartRepository(),
		orders:  newMemoryOrderRepository(),
		wallets: newMemoryWalletRepository(),
	}
	wallet := newTestWalletService(t, f.wallets)
	svc, err := NewCheckoutService(CheckoutServiceDeps{
		Carts:       f.carts,
		Orders:      f.orders,
		Catalog:     cat,
		Wallet:      wallet,
		Clock:       testClock,
		IDGenerator: sequentialIDs(),
	})
	if err != nil {
		t.Fatalf("NewCheckoutService returned error: %v", err)
	}
	f.svc = svc
	return f
}

func (f *checkoutFixture) seedCart(items ...domain.CartItem) {
	f.carts.carts["s1"] = domain.Cart{SessionID: "s1", Items: items}
}

func validCommand() CheckoutCommand {
	return CheckoutCommand{SessionID: "s1", Name: "Ada Lovelace", Email: "ada@example.com"}
}

func TestCheckoutProducesReceiptAndSettles(t *testing.T) {
	f := newCheckoutFixture(t, singleProductCatalog(backpack()))
	f.seedCart(domain.CartItem{ProductID: 1, Title: "Backpack", Price: 109.95, Quantity: 2, Stock: 7})

	receipt, err := f.svc.Checkout(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}

	if !strings.HasPrefix(receipt.ReceiptID, "VIBE-") {
		t.Fatalf("unexpected receipt id %q", receipt.ReceiptID)
	}
	if !strings.HasPrefix(receipt.TrackingID, "TRK-") {
		t.Fatalf("unexpected tracking id %q", receipt.TrackingID)
	}
	if receipt.Status != domain.OrderStatusProcessing {
		t.Fatalf("expected Processing status, got %q", receipt.Status)
	}
	if receipt.Subtotal != 219.9 || receipt.Total != 219.9 {
		t.Fatalf("unexpected totals: %+v", receipt)
	}
	if receipt.Customer.Name != "Ada Lovelace" || receipt.Customer.Email != "ada@example.com" {
		t.Fatalf("unexpected customer: %+v", receipt.Customer)
	}

	if f.wallets.wallets["s1"].Balance != 780.10 {
		t.Fatalf("expected debited balance 780.10, got %v", f.wallets.wallets["s1"].Balance)
	}
	if _, ok := f.carts.carts["s1"]; ok {
		t.Fatal("cart must be cleared after checkout")
	}
	if stored := f.orders.receipts["s1"]; len(stored) != 1 || stored[0].ReceiptID != receipt.ReceiptID {
		t.Fatalf("receipt not persisted: %+v", stored)
	}
}

func TestCheckoutAppliesCouponDiscount(t *testing.T) {
	f := newCheckoutFixture(t, singleProductCatalog(backpack()))
	f.carts.carts["s1"] = domain.Cart{
		SessionID: "s1",
		Items:     []domain.CartItem{{ProductID: 1, Price: 109.95, Quantity: 2, Stock: 7}},
		Coupon:    domain.CouponState{Code: "VIBE10", Rate: 0.10, Applied: true},
	}

	receipt, err := f.svc.Checkout(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}
	if receipt.DiscountRate != 0.10 {
		t.Fatalf("expected discount rate 0.10, got %v", receipt.DiscountRate)
	}
	if receipt.Total != 197.91 {
		t.Fatalf("expected total 197.91, got %v", receipt.Total)
	}
}

func TestCheckoutRepricesAgainstCatalog(t *testing.T) {
	product := backpack()
	product.Price = 99.00
	f := newCheckoutFixture(t, singleProductCatalog(product))
	// The stored line carries a stale (tampered) price.
	f.seedCart(domain.CartItem{ProductID: 1, Title: "Backpack", Price: 0.01, Quantity: 1, Stock: 7})

	receipt, err := f.svc.Checkout(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}
	if receipt.Total != 99.00 {
		t.Fatalf("checkout must use the catalog price, got total %v", receipt.Total)
	}
}

func TestCheckoutValidatesCustomer(t *testing.T) {
	f := newCheckoutFixture(t, singleProductCatalog(backpack()))
	f.seedCart(domain.CartItem{ProductID: 1, Price: 109.95, Quantity: 1, Stock: 7})

	cases := []struct {
		name  string
		cmd   CheckoutCommand
		field string
	}{
		{"missing name", CheckoutCommand{SessionID: "s1", Email: "ada@example.com"}, "name"},
		{"missing email", CheckoutCommand{SessionID: "s1", Name: "Ada"}, "email"},
		{"malformed email", CheckoutCommand{SessionID: "s1", Name: "Ada", Email: "not-an-email"}, "email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Checkout(context.Background(), tc.cmd)
			if !errors.Is(err, ErrCheckoutValidation) {
				t.Fatalf("expected ErrCheckoutValidation, got %v", err)
			}
			var verr *CheckoutValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected CheckoutValidationError, got %T", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected field %q in %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, singleProductCatalog(backpack()))

	_, err := f.svc.Checkout(context.Background(), validCommand())
	if !errors.Is(err, ErrCheckoutCartEmpty) {
		t.Fatalf("expected ErrCheckoutCartEmpty, got %v", err)
	}
}

func TestCheckoutInsufficientFundsLeavesStateIntact(t *testing.T) {
	f := newCheckoutFixture(t, singleProductCatalog(backpack()))
	f.seedCart(domain.CartItem{ProductID: 1, Price: 109.95, Quantity: 7, Stock: 7})
	f.wallets.wallets["s1"] = domain.Wallet{SessionID: "s1", Balance: 50}

	_, err := f.svc.Checkout(context.Background(), validCommand())
	if !errors.Is(err, ErrWalletInsufficientFunds) {
		t.Fatalf("expected ErrWalletInsufficientFunds, got %v", err)
	}
	if f.wallets.wallets["s1"].Balance != 50 {
		t.Fatalf("failed checkout must not debit, got %v", f.wallets.wallets["s1"].Balance)
	}
	if _, ok := f.carts.carts["s1"]; !ok {
		t.Fatal("failed checkout must keep the cart")
	}
	if len(f.orders.receipts["s1"]) != 0 {
		t.Fatalf("failed checkout must not record an order: %+v", f.orders.receipts["s1"])
	}
}

func TestCheckoutStockShrunkSinceAdd(t *testing.T) {
	product := backpack()
	product.Stock = 1
	f := newCheckoutFixture(t, singleProductCatalog(product))
	f.seedCart(domain.CartItem{ProductID: 1, Price: 109.95, Quantity: 3, Stock: 7})

	_, err := f.svc.Checkout(context.Background(), validCommand())
	if !errors.Is(err, ErrCartInsufficientStock) {
		t.Fatalf("expected ErrCartInsufficientStock, got %v", err)
	}
}

func TestCheckoutRefundsWhenOrderInsertFails(t *testing.T) {
	carts := newMemoryCartRepository()
	wallets := newMemoryWalletRepository()
	orders := &stubOrderRepository{
		insertFunc: func(context.Context, domain.Receipt) error {
			return &repositoryErrorStub{unavailable: true}
		},
	}
	wallet := newTestWalletService(t, wallets)
	svc, err := NewCheckoutService(CheckoutServiceDeps{
		Carts:       carts,
		Orders:      orders,
		Catalog:     singleProductCatalog(backpack()),
		Wallet:      wallet,
		Clock:       testClock,
		IDGenerator: sequentialIDs(),
	})
	if err != nil {
		t.Fatalf("NewCheckoutService returned error: %v", err)
	}
	carts.carts["s1"] = domain.Cart{
		SessionID: "s1",
		Items:     []domain.CartItem{{ProductID: 1, Price: 109.95, Quantity: 1, Stock: 7}},
	}

	_, err = svc.Checkout(context.Background(), validCommand())
	if !errors.Is(err, ErrCheckoutUnavailable) {
		t.Fatalf("expected ErrCheckoutUnavailable, got %v", err)
	}
	if wallets.wallets["s1"].Balance != 1000.00 {
		t.Fatalf("debit must be compensated, got balance %v", wallets.wallets["s1"].Balance)
	}
}

func TestCheckoutInFlightGuard(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	cat := &stubCatalog{
		productFunc: func(_ context.Context, id int) (domain.Product, error) {
			close(started)
			<-release
			return backpack(), nil
		},
	}
	f := newCheckoutFixture(t, cat)
	f.seedCart(domain.CartItem{ProductID: 1, Price: 109.95, Quantity: 1, Stock: 7})

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Checkout(context.Background(), validCommand())
		done <- err
	}()
	<-started

	if _, err := f.svc.Checkout(context.Background(), validCommand()); !errors.Is(err, ErrCheckoutInFlight) {
		t.Fatalf("expected ErrCheckoutInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first checkout returned error: %v", err)
	}
}
