package services

import (
	"context"
	"errors"

	domain "github.com/vibe-commerce/api/internal/domain"
)

// repositoryErrorStub mimics classified persistence failures.
type repositoryErrorStub struct {
	notFound    bool
	conflict    bool
	unavailable bool
}

func (e *repositoryErrorStub) Error() string       { return "repository error stub" }
func (e *repositoryErrorStub) IsNotFound() bool    { return e.notFound }
func (e *repositoryErrorStub) IsConflict() bool    { return e.conflict }
func (e *repositoryErrorStub) IsUnavailable() bool { return e.unavailable }

type stubCartRepository struct {
	getFunc    func(ctx context.Context, sessionID string) (domain.Cart, error)
	putFunc    func(ctx context.Context, cart domain.Cart) error
	deleteFunc func(ctx context.Context, sessionID string) error
}

func (s *stubCartRepository) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, sessionID)
	}
	return domain.Cart{}, &repositoryErrorStub{notFound: true}
}

func (s *stubCartRepository) Put(ctx context.Context, cart domain.Cart) error {
	if s.putFunc != nil {
		return s.putFunc(ctx, cart)
	}
	return nil
}

func (s *stubCartRepository) Delete(ctx context.Context, sessionID string) error {
	if s.deleteFunc != nil {
		return s.deleteFunc(ctx, sessionID)
	}
	return nil
}

type stubWishlistRepository struct {
	getFunc func(ctx context.Context, sessionID string) ([]domain.Product, error)
	putFunc func(ctx context.Context, sessionID string, products []domain.Product) error
}

func (s *stubWishlistRepository) Get(ctx context.Context, sessionID string) ([]domain.Product, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, sessionID)
	}
	return []domain.Product{}, nil
}

func (s *stubWishlistRepository) Put(ctx context.Context, sessionID string, products []domain.Product) error {
	if s.putFunc != nil {
		return s.putFunc(ctx, sessionID, products)
	}
	return nil
}

type stubWalletRepository struct {
	getFunc func(ctx context.Context, sessionID string) (domain.Wallet, error)
	putFunc func(ctx context.Context, wallet domain.Wallet) error
}

func (s *stubWalletRepository) Get(ctx context.Context, sessionID string) (domain.Wallet, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, sessionID)
	}
	return domain.Wallet{}, &repositoryErrorStub{notFound: true}
}

func (s *stubWalletRepository) Put(ctx context.Context, wallet domain.Wallet) error {
	if s.putFunc != nil {
		return s.putFunc(ctx, wallet)
	}
	return nil
}

type stubOrderRepository struct {
	listFunc   func(ctx context.Context, sessionID string) ([]domain.Receipt, error)
	findFunc   func(ctx context.Context, sessionID, receiptID string) (domain.Receipt, error)
	insertFunc func(ctx context.Context, receipt domain.Receipt) error
	updateFunc func(ctx context.Context, receipt domain.Receipt) error
}

func (s *stubOrderRepository) List(ctx context.Context, sessionID string) ([]domain.Receipt, error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, sessionID)
	}
	return []domain.Receipt{}, nil
}

func (s *stubOrderRepository) FindByID(ctx context.Context, sessionID, receiptID string) (domain.Receipt, error) {
	if s.findFunc != nil {
		return s.findFunc(ctx, sessionID, receiptID)
	}
	return domain.Receipt{}, &repositoryErrorStub{notFound: true}
}

func (s *stubOrderRepository) Insert(ctx context.Context, receipt domain.Receipt) error {
	if s.insertFunc != nil {
		return s.insertFunc(ctx, receipt)
	}
	return nil
}

func (s *stubOrderRepository) Update(ctx context.Context, receipt domain.Receipt) error {
	if s.updateFunc != nil {
		return s.updateFunc(ctx, receipt)
	}
	return nil
}

type stubProfileRepository struct {
	getFunc func(ctx context.Context, sessionID string) (domain.Profile, error)
	putFunc func(ctx context.Context, profile domain.Profile) error
}

func (s *stubProfileRepository) Get(ctx context.Context, sessionID string) (domain.Profile, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, sessionID)
	}
	return domain.Profile{}, &repositoryErrorStub{notFound: true}
}

func (s *stubProfileRepository) Put(ctx context.Context, profile domain.Profile) error {
	if s.putFunc != nil {
		return s.putFunc(ctx, profile)
	}
	return nil
}

type stubChatRepository struct {
	getFunc    func(ctx context.Context, sessionID string) (domain.ChatState, error)
	putFunc    func(ctx context.Context, state domain.ChatState) error
	deleteFunc func(ctx context.Context, sessionID string) error
}

func (s *stubChatRepository) Get(ctx context.Context, sessionID string) (domain.ChatState, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, sessionID)
	}
	return domain.ChatState{}, &repositoryErrorStub{notFound: true}
}

func (s *stubChatRepository) Put(ctx context.Context, state domain.ChatState) error {
	if s.putFunc != nil {
		return s.putFunc(ctx, state)
	}
	return nil
}

func (s *stubChatRepository) Delete(ctx context.Context, sessionID string) error {
	if s.deleteFunc != nil {
		return s.deleteFunc(ctx, sessionID)
	}
	return nil
}

type stubRecentRepository struct {
	getFunc func(ctx context.Context, sessionID string) ([]domain.Product, error)
	putFunc func(ctx context.Context, sessionID string, products []domain.Product) error
}

func (s *stubRecentRepository) Get(ctx context.Context, sessionID string) ([]domain.Product, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, sessionID)
	}
	return []domain.Product{}, nil
}

func (s *stubRecentRepository) Put(ctx context.Context, sessionID string, products []domain.Product) error {
	if s.putFunc != nil {
		return s.putFunc(ctx, sessionID, products)
	}
	return nil
}

type stubCatalog struct {
	productsFunc   func(ctx context.Context) ([]domain.Product, error)
	productFunc    func(ctx context.Context, id int) (domain.Product, error)
	categoriesFunc func(ctx context.Context) ([]string, error)
}

func (s *stubCatalog) Products(ctx context.Context) ([]domain.Product, error) {
	if s.productsFunc != nil {
		return s.productsFunc(ctx)
	}
	return nil, errors.New("products not stubbed")
}

func (s *stubCatalog) Product(ctx context.Context, id int) (domain.Product, error) {
	if s.productFunc != nil {
		return s.productFunc(ctx, id)
	}
	return domain.Product{}, errors.New("product not stubbed")
}

func (s *stubCatalog) Categories(ctx context.Context) ([]string, error) {
	if s.categoriesFunc != nil {
		return s.categoriesFunc(ctx)
	}
	return nil, errors.New("categories not stubbed")
}

// memoryCartRepository keeps carts in a map for flow-style tests.
type memoryCartRepository struct {
	carts map[string]domain.Cart
}

func newMemoryCartRepository() *memoryCartRepository {
	return &memoryCartRepository{carts: make(map[string]domain.Cart)}
}

func (m *memoryCartRepository) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	cart, ok := m.carts[sessionID]
	if !ok {
		return domain.Cart{}, &repositoryErrorStub{notFound: true}
	}
	return cart, nil
}

func (m *memoryCartRepository) Put(ctx context.Context, cart domain.Cart) error {
	m.carts[cart.SessionID] = cart
	return nil
}

func (m *memoryCartRepository) Delete(ctx context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}
