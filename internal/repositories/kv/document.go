package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	platformkv "github.com/vibe-commerce/api/internal/platform/kv"
)

// Key prefixes for the per-session documents. One JSON document per key.
const (
	cartKeyPrefix     = "cart:"
	wishlistKeyPrefix = "wishlist:"
	walletKeyPrefix   = "wallet:"
	ordersKeyPrefix   = "orders:"
	profileKeyPrefix  = "profile:"
	chatKeyPrefix     = "chat:"
	recentKeyPrefix   = "recent:"
)

func sessionKey(prefix, sessionID string) (string, error) {
	trimmed := strings.TrimSpace(sessionID)
	if trimmed == "" {
		return "", errors.New("session id is required")
	}
	return prefix + trimmed, nil
}

// getDocument loads and decodes one JSON document. A missing key yields a
// not-found classified error; corrupt JSON is surfaced as unavailable so
// callers never silently reset state.
func getDocument(ctx context.Context, store platformkv.Store, op, key string, out any) error {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return WrapError(op, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return WrapError(op, fmt.Errorf("decode %s: %w", key, err))
	}
	return nil
}

func putDocument(ctx context.Context, store platformkv.Store, op, key string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return WrapError(op, fmt.Errorf("encode %s: %w", key, err))
	}
	return WrapError(op, store.Put(ctx, key, raw))
}

func deleteDocument(ctx context.Context, store platformkv.Store, op, key string) error {
	return WrapError(op, store.Delete(ctx, key))
}
