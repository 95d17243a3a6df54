package kv

import (
	"context"
	"errors"

	domain "github.com/vibe-commerce/api/internal/domain"
	platformkv "github.com/vibe-commerce/api/internal/platform/kv"
)

// ChatRepository persists the assistant conversation per session.
type ChatRepository struct {
	store platformkv.Store
}

// NewChatRepository constructs a store-backed chat repository.
func NewChatRepository(store platformkv.Store) (*ChatRepository, error) {
	if store == nil {
		return nil, errors.New("chat repository requires a kv store")
	}
	return &ChatRepository{store: store}, nil
}

// Get loads the conversation. A missing document is a not-found classified
// error; the service seeds the greeting.
func (r *ChatRepository) Get(ctx context.Context, sessionID string) (domain.ChatState, error) {
	key, err := sessionKey(chatKeyPrefix, sessionID)
	if err != nil {
		return domain.ChatState{}, WrapError("chats.get", err)
	}
	var doc chatDocument
	if err := getDocument(ctx, r.store, "chats.get", key, &doc); err != nil {
		return domain.ChatState{}, err
	}
	return decodeChatState(sessionID, doc), nil
}

// Put stores the full conversation document.
func (r *ChatRepository) Put(ctx context.Context, state domain.ChatState) error {
	key, err := sessionKey(chatKeyPrefix, state.SessionID)
	if err != nil {
		return WrapError("chats.put", err)
	}
	return putDocument(ctx, r.store, "chats.put", key, encodeChatState(state))
}

// Delete removes the conversation document.
func (r *ChatRepository) Delete(ctx context.Context, sessionID string) error {
	key, err := sessionKey(chatKeyPrefix, sessionID)
	if err != nil {
		return WrapError("chats.delete", err)
	}
	return deleteDocument(ctx, r.store, "chats.delete", key)
}
