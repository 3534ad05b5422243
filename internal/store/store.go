// Package store provides durable storage for conversations and messages.
package store

import (
	"context"
	"time"

	"github.com/websearch-rag/gateway/internal/domain"
)

// Store is the persistence interface used by the orchestration service.
// Lookup methods return (nil, nil) when the requested row does not exist.
type Store interface {
	CreateConversation(ctx context.Context, conv *domain.Conversation) error
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)
	ListConversations(ctx context.Context) ([]domain.Conversation, error)
	// SetTitleIfUnset replaces the conversation title only while it still
	// equals placeholder. Returns true when the update was applied.
	SetTitleIfUnset(ctx context.Context, id, title, placeholder string, updatedAt time.Time) (bool, error)
	// DeleteConversation removes the conversation and all of its messages.
	DeleteConversation(ctx context.Context, id string) error

	CreateMessage(ctx context.Context, msg *domain.Message) error
	GetMessages(ctx context.Context, conversationID string) ([]domain.Message, error)
	CountMessages(ctx context.Context, conversationID string) (int, error)

	Close() error
}
