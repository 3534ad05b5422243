// Package service implements the conversation/message orchestration core.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/websearch-rag/gateway/internal/adapter/ragclient"
	"github.com/websearch-rag/gateway/internal/store"
	"github.com/websearch-rag/gateway/policy"
)

// DefaultTitle is the placeholder title a conversation carries until the
// first user turn derives a real one.
const DefaultTitle = "New Conversation"

// Fixed assistant replies for the degraded branches. These are persisted
// as ordinary assistant messages, never surfaced as errors.
const (
	emptyQueryReply = "No search query provided. Please enter a specific question or topic you would like to look up."
	ragFailureReply = "Sorry, the service ran into a temporary problem. Please try again in a moment."
)

// titleMaxRunes bounds the auto-generated conversation title.
const titleMaxRunes = 50

// Service orchestrates conversations and messages against the store and
// the external RAG service. All observability flows through the injected
// logger; the service holds no mutable state between calls.
type Service struct {
	store  store.Store
	rag    *ragclient.Client
	policy *policy.Engine
	log    *zap.Logger
}

// New creates a new Service.
func New(st store.Store, rag *ragclient.Client, policyEngine *policy.Engine, log *zap.Logger) *Service {
	return &Service{
		store:  st,
		rag:    rag,
		policy: policyEngine,
		log:    log,
	}
}

// RAGHealthy reports whether the RAG service responds to its health probe.
func (s *Service) RAGHealthy(ctx context.Context) bool {
	if err := s.rag.Health(ctx); err != nil {
		s.log.Warn("rag health probe failed", zap.Error(err))
		return false
	}
	return true
}

// deriveTitle builds a conversation title from the first user turn:
// the first 50 runes, with an ellipsis when truncated.
func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) > titleMaxRunes {
		return string(runes[:titleMaxRunes]) + "..."
	}
	return content
}
