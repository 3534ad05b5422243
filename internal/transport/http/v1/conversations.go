package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CreateConversation creates a new conversation.
// POST /v1/conversations
func (h *Handler) CreateConversation(c echo.Context) error {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	conv, err := h.service.CreateConversation(c.Request().Context(), req.Title)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, conv)
}

// ListConversations lists all conversations, most recently active first.
// GET /v1/conversations
func (h *Handler) ListConversations(c echo.Context) error {
	conversations, err := h.service.GetConversations(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"conversations": conversations,
	})
}

// GetConversation retrieves a single conversation.
// GET /v1/conversations/:id
func (h *Handler) GetConversation(c echo.Context) error {
	id := c.Param("id")

	conv, err := h.service.GetConversation(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if conv == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
	}
	return c.JSON(http.StatusOK, conv)
}

// DeleteConversation deletes a conversation and its messages.
// DELETE /v1/conversations/:id
func (h *Handler) DeleteConversation(c echo.Context) error {
	id := c.Param("id")

	if err := h.service.DeleteConversation(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
