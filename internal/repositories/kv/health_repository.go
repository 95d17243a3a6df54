package kv

import (
	"context"
	"errors"

	platformkv "github.com/vibe-commerce/api/internal/platform/kv"
)

const healthProbeKey = "health:probe"

// HealthRepository verifies the store answers reads for readiness probes.
type HealthRepository struct {
	store platformkv.Store
}

// NewHealthRepository constructs a store-backed health repository.
func NewHealthRepository(store platformkv.Store) (*HealthRepository, error) {
	if store == nil {
		return nil, errors.New("health repository requires a kv store")
	}
	return &HealthRepository{store: store}, nil
}

// Ping issues a read against a reserved key. A clean miss proves the store
// is reachable; only transport failures surface as errors.
func (r *HealthRepository) Ping(ctx context.Context) error {
	_, err := r.store.Get(ctx, healthProbeKey)
	if err == nil || errors.Is(err, platformkv.ErrNotFound) {
		return nil
	}
	return WrapError("health.ping", err)
}
