package kv

import (
	"context"
	"errors"

	domain "github.com/vibe-commerce/api/internal/domain"
	platformkv "github.com/vibe-commerce/api/internal/platform/kv"
)

// WalletRepository persists the demo wallet per session.
type WalletRepository struct {
	store platformkv.Store
}

// NewWalletRepository constructs a store-backed wallet repository.
func NewWalletRepository(store platformkv.Store) (*WalletRepository, error) {
	if store == nil {
		return nil, errors.New("wallet repository requires a kv store")
	}
	return &WalletRepository{store: store}, nil
}

// Get loads the wallet. A missing document is a not-found classified error;
// the service layer seeds the initial balance.
func (r *WalletRepository) Get(ctx context.Context, sessionID string) (domain.Wallet, error) {
	key, err := sessionKey(walletKeyPrefix, sessionID)
	if err != nil {
		return domain.Wallet{}, WrapError("wallets.get", err)
	}
	var doc walletDocument
	if err := getDocument(ctx, r.store, "wallets.get", key, &doc); err != nil {
		return domain.Wallet{}, err
	}
	return domain.Wallet{SessionID: sessionID, Balance: doc.Balance, UpdatedAt: doc.UpdatedAt}, nil
}

// Put stores the wallet document.
func (r *WalletRepository) Put(ctx context.Context, wallet domain.Wallet) error {
	key, err := sessionKey(walletKeyPrefix, wallet.SessionID)
	if err != nil {
		return WrapError("wallets.put", err)
	}
	doc := walletDocument{Balance: wallet.Balance, UpdatedAt: wallet.UpdatedAt.UTC()}
	return putDocument(ctx, r.store, "wallets.put", key, doc)
}
