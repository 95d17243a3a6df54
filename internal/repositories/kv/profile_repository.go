package kv

import (
	"context"
	"errors"

	domain "github.com/vibe-commerce/api/internal/domain"
	platformkv "github.com/vibe-commerce/api/internal/platform/kv"
)

// ProfileRepository persists the stub account record per session.
type ProfileRepository struct {
	store platformkv.Store
}

// NewProfileRepository constructs a store-backed profile repository.
func NewProfileRepository(store platformkv.Store) (*ProfileRepository, error) {
	if store == nil {
		return nil, errors.New("profile repository requires a kv store")
	}
	return &ProfileRepository{store: store}, nil
}

// Get loads the profile. A missing document is a not-found classified error.
func (r *ProfileRepository) Get(ctx context.Context, sessionID string) (domain.Profile, error) {
	key, err := sessionKey(profileKeyPrefix, sessionID)
	if err != nil {
		return domain.Profile{}, WrapError("profiles.get", err)
	}
	var doc profileDocument
	if err := getDocument(ctx, r.store, "profiles.get", key, &doc); err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{SessionID: sessionID, Name: doc.Name, Email: doc.Email, UpdatedAt: doc.UpdatedAt}, nil
}

// Put stores the profile document.
func (r *ProfileRepository) Put(ctx context.Context, profile domain.Profile) error {
	key, err := sessionKey(profileKeyPrefix, profile.SessionID)
	if err != nil {
		return WrapError("profiles.put", err)
	}
	doc := profileDocument{Name: profile.Name, Email: profile.Email, UpdatedAt: profile.UpdatedAt.UTC()}
	return putDocument(ctx, r.store, "profiles.put", key, doc)
}
