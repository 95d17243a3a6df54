package kv

import (
	"context"
	"errors"

	domain "github.com/vibe-commerce/api/internal/domain"
	platformkv "github.com/vibe-commerce/api/internal/platform/kv"
)

// OrderRepository persists the order history per session. The history is a
// single document holding receipts newest first, mirroring how the
// storefront renders it.
type OrderRepository struct {
	store platformkv.Store
}

// NewOrderRepository constructs a store-backed order repository.
func NewOrderRepository(store platformkv.Store) (*OrderRepository, error) {
	if store == nil {
		return nil, errors.New("order repository requires a kv store")
	}
	return &OrderRepository{store: store}, nil
}

// List returns all receipts for the session, newest first. A missing
// document is an empty history.
func (r *OrderRepository) List(ctx context.Context, sessionID string) ([]domain.Receipt, error) {
	doc, err := r.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Receipt, 0, len(doc.Receipts))
	for _, receipt := range doc.Receipts {
		out = append(out, decodeReceipt(sessionID, receipt))
	}
	return out, nil
}

// FindByID returns a single receipt.
func (r *OrderRepository) FindByID(ctx context.Context, sessionID, receiptID string) (domain.Receipt, error) {
	doc, err := r.load(ctx, sessionID)
	if err != nil {
		return domain.Receipt{}, err
	}
	for _, receipt := range doc.Receipts {
		if receipt.ReceiptID == receiptID {
			return decodeReceipt(sessionID, receipt), nil
		}
	}
	return domain.Receipt{}, notFoundError("orders.find", receiptID)
}

// Insert prepends the receipt to the history.
func (r *OrderRepository) Insert(ctx context.Context, receipt domain.Receipt) error {
	doc, err := r.load(ctx, receipt.SessionID)
	if err != nil {
		return err
	}
	for _, existing := range doc.Receipts {
		if existing.ReceiptID == receipt.ReceiptID {
			return &Error{op: "orders.insert", err: errors.New("receipt already exists: " + receipt.ReceiptID), conflict: true}
		}
	}
	doc.Receipts = append([]receiptDocument{encodeReceipt(receipt)}, doc.Receipts...)
	return r.save(ctx, receipt.SessionID, doc)
}

// Update replaces the stored receipt matching the receipt ID.
func (r *OrderRepository) Update(ctx context.Context, receipt domain.Receipt) error {
	doc, err := r.load(ctx, receipt.SessionID)
	if err != nil {
		return err
	}
	for i, existing := range doc.Receipts {
		if existing.ReceiptID == receipt.ReceiptID {
			doc.Receipts[i] = encodeReceipt(receipt)
			return r.save(ctx, receipt.SessionID, doc)
		}
	}
	return notFoundError("orders.update", receipt.ReceiptID)
}

func (r *OrderRepository) load(ctx context.Context, sessionID string) (ordersDocument, error) {
	key, err := sessionKey(ordersKeyPrefix, sessionID)
	if err != nil {
		return ordersDocument{}, WrapError("orders.load", err)
	}
	var doc ordersDocument
	if err := getDocument(ctx, r.store, "orders.load", key, &doc); err != nil {
		var repoErr *Error
		if errors.As(err, &repoErr) && repoErr.IsNotFound() {
			return ordersDocument{}, nil
		}
		return ordersDocument{}, err
	}
	return doc, nil
}

func (r *OrderRepository) save(ctx context.Context, sessionID string, doc ordersDocument) error {
	key, err := sessionKey(ordersKeyPrefix, sessionID)
	if err != nil {
		return WrapError("orders.save", err)
	}
	return putDocument(ctx, r.store, "orders.save", key, doc)
}
