package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetMessages retrieves a conversation's messages in chronological order.
// GET /v1/conversations/:id/messages
func (h *Handler) GetMessages(c echo.Context) error {
	id := c.Param("id")

	messages, err := h.service.GetMessages(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}

// SendMessage runs a chat turn and publishes the assistant reply to
// subscribers of the conversation.
// POST /v1/conversations/:id/messages
func (h *Handler) SendMessage(c echo.Context) error {
	id := c.Param("id")

	var req struct {
		Content               string `json:"content"`
		UseWebSearch          *bool  `json:"use_web_search"`
		UseStructuredResponse bool   `json:"use_structured_response"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	// Web search is on unless explicitly disabled.
	useWebSearch := true
	if req.UseWebSearch != nil {
		useWebSearch = *req.UseWebSearch
	}

	ctx := c.Request().Context()

	conv, err := h.service.GetConversation(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if conv == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
	}

	result, err := h.service.SendMessage(ctx, id, req.Content, useWebSearch, req.UseStructuredResponse)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	// Best-effort push to live subscribers.
	if err := h.hub.BroadcastJSON(id, map[string]interface{}{
		"type":            "message_added",
		"conversation_id": id,
		"message":         result.Message,
	}); err != nil {
		h.log.Warn("failed to broadcast message", zap.String("conversation_id", id), zap.Error(err))
	}

	return c.JSON(http.StatusOK, result)
}
