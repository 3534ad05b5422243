// Package ragclient provides an HTTP client for the external RAG service.
package ragclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/websearch-rag/gateway/internal/domain"
)

// ChatRequest is the request body for the chat endpoints.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	UseWebSearch   bool   `json:"use_web_search"`
}

// ChatResponse is the structured result of a chat turn. Sources and
// ContextInfo are optional on the wire.
type ChatResponse struct {
	Response    string              `json:"response"`
	Sources     []string            `json:"sources"`
	ContextInfo *domain.ContextInfo `json:"context_info"`
}

// SearchResponse is the result of a web search request.
type SearchResponse struct {
	Results []domain.SearchResult `json:"results"`
	Total   int                   `json:"total"`
}

// IndexResponse is the result of an indexing request.
type IndexResponse struct {
	IndexedCount int `json:"indexed_count"`
}

// Client is an HTTP client for the RAG service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new RAG client. The timeout bounds every request,
// including the potentially slow chat calls.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Chat sends a conversational chat turn.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.postJSON(ctx, "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChatStructured sends a chat turn to the structured-response variant.
func (c *Client) ChatStructured(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.postJSON(ctx, "/chat/structured", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search runs a best-effort web search preview.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (*SearchResponse, error) {
	req := struct {
		Query      string `json:"query"`
		MaxResults int    `json:"max_results"`
	}{Query: query, MaxResults: maxResults}

	var resp SearchResponse
	if err := c.postJSON(ctx, "/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Index submits a batch of URLs for ingestion. The body is a bare JSON
// array of URL strings.
func (c *Client) Index(ctx context.Context, urls []string) (*IndexResponse, error) {
	var resp IndexResponse
	if err := c.postJSON(ctx, "/index", urls, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health probes the RAG service health endpoint.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to reach rag service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rag service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call rag service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("rag service returned status %d: %s", resp.StatusCode, string(excerpt))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
