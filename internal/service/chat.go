package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/websearch-rag/gateway/internal/adapter/ragclient"
	"github.com/websearch-rag/gateway/internal/domain"
)

// SendMessage runs one chat turn: it persists the user message, forwards
// it to the RAG service, and persists the assistant reply. Every RAG
// failure degrades into a stored assistant message; only store failures
// are returned as errors.
func (s *Service) SendMessage(ctx context.Context, conversationID, content string, useWebSearch, useStructuredResponse bool) (*domain.SendResult, error) {
	trimmed := strings.TrimSpace(content)

	// A blank turn never reaches the RAG service and stores no user message.
	if trimmed == "" {
		msg, err := s.saveAssistant(ctx, conversationID, emptyQueryReply, []string{}, &domain.ContextInfo{})
		if err != nil {
			return nil, err
		}
		return &domain.SendResult{
			Message:  msg,
			Response: emptyQueryReply,
			Sources:  []string{},
		}, nil
	}

	// The user turn is made durable before any network call.
	userMsg := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        trimmed,
		Sources:        []string{},
		CreatedAt:      time.Now(),
	}
	if err := s.store.CreateMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	resp, err := s.chat(ctx, ragclient.ChatRequest{
		Message:        trimmed,
		ConversationID: conversationID,
		UseWebSearch:   useWebSearch,
	}, useStructuredResponse)
	if err != nil {
		s.log.Warn("rag chat failed",
			zap.String("conversation_id", conversationID),
			zap.Bool("structured", useStructuredResponse),
			zap.Error(err))
		msg, serr := s.saveAssistant(ctx, conversationID, ragFailureReply, []string{}, &domain.ContextInfo{})
		if serr != nil {
			return nil, serr
		}
		return &domain.SendResult{
			Message:  msg,
			Response: ragFailureReply,
			Sources:  []string{},
		}, nil
	}

	sources := resp.Sources
	if sources == nil {
		sources = []string{}
	}
	info := resp.ContextInfo
	if info == nil {
		// Without a structured breakdown, attribute the answer to the
		// returned sources.
		info = &domain.ContextInfo{WebSearch: len(sources)}
	}

	msg, err := s.saveAssistant(ctx, conversationID, resp.Response, sources, info)
	if err != nil {
		return nil, err
	}

	s.maybeSetTitle(ctx, conversationID, trimmed)

	return &domain.SendResult{
		Message:     msg,
		Response:    resp.Response,
		Sources:     sources,
		ContextInfo: *info,
	}, nil
}

func (s *Service) chat(ctx context.Context, req ragclient.ChatRequest, structured bool) (*ragclient.ChatResponse, error) {
	if structured {
		return s.rag.ChatStructured(ctx, req)
	}
	return s.rag.Chat(ctx, req)
}

func (s *Service) saveAssistant(ctx context.Context, conversationID, content string, sources []string, info *domain.ContextInfo) (*domain.Message, error) {
	msg := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        content,
		Sources:        sources,
		ContextInfo:    info,
		CreatedAt:      time.Now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}
	return msg, nil
}

// maybeSetTitle derives a title from the first user turn. The store
// applies it only while the title still equals the placeholder, so the
// derivation fires at most once per conversation even under concurrent
// first turns. A failure here never fails the send.
func (s *Service) maybeSetTitle(ctx context.Context, conversationID, content string) {
	title := deriveTitle(content)
	set, err := s.store.SetTitleIfUnset(ctx, conversationID, title, DefaultTitle, time.Now())
	if err != nil {
		s.log.Warn("failed to update conversation title",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		return
	}
	if set {
		s.log.Info("conversation title set",
			zap.String("conversation_id", conversationID),
			zap.String("title", title))
	}
}
