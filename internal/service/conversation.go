package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/websearch-rag/gateway/internal/domain"
)

// CreateConversation inserts a new conversation. A blank title falls back
// to the placeholder, which also arms the one-shot title derivation.
func (s *Service) CreateConversation(ctx context.Context, title string) (*domain.Conversation, error) {
	if title == "" {
		title = DefaultTitle
	}
	now := time.Now()
	conv := &domain.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	s.log.Info("conversation created", zap.String("conversation_id", conv.ID))
	return conv, nil
}

// GetConversations lists all conversations, most recently active first.
func (s *Service) GetConversations(ctx context.Context) ([]domain.Conversation, error) {
	conversations, err := s.store.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// GetConversation retrieves a single conversation, or (nil, nil) when it
// does not exist.
func (s *Service) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conv, nil
}

// DeleteConversation deletes a conversation and all of its messages.
func (s *Service) DeleteConversation(ctx context.Context, id string) error {
	if err := s.store.DeleteConversation(ctx, id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	s.log.Info("conversation deleted", zap.String("conversation_id", id))
	return nil
}

// GetMessages returns a conversation's messages in chronological order.
func (s *Service) GetMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	messages, err := s.store.GetMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}
