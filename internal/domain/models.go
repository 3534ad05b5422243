// Package domain defines the core domain models for the chat gateway.
package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContextInfo describes how much each memory tier contributed to an answer.
type ContextInfo struct {
	ShortTermMemory int `json:"shortTermMemory"`
	LongTermMemory  int `json:"longTermMemory"`
	WebSearch       int `json:"webSearch"`
}

// Conversation is a titled sequence of messages.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a single turn in a conversation. Messages are immutable
// once written; ordering within a conversation is by CreatedAt ascending.
type Message struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversation_id"`
	Role           Role         `json:"role"`
	Content        string       `json:"content"`
	Sources        []string     `json:"sources"`
	ContextInfo    *ContextInfo `json:"context_info,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// SendResult is the uniform result of sending a message. Every branch
// (empty query, success, downstream failure) produces the same shape.
type SendResult struct {
	Message     *Message    `json:"message"`
	Response    string      `json:"response"`
	Sources     []string    `json:"sources"`
	ContextInfo ContextInfo `json:"context_info"`
}

// SearchResult is a single web search hit returned by the RAG service.
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// IndexResult reports the outcome of a best-effort indexing request.
type IndexResult struct {
	Success      bool `json:"success"`
	IndexedCount int  `json:"indexed_count"`
}
