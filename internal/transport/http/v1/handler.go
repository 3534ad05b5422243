// Package v1 provides the HTTP API for the chat gateway.
package v1

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/websearch-rag/gateway/internal/hub"
	"github.com/websearch-rag/gateway/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service  *service.Service
	hub      *hub.Hub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, h *hub.Hub, log *zap.Logger) *Handler {
	return &Handler{
		service: svc,
		hub:     h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/conversations", h.CreateConversation)
	e.GET("/v1/conversations", h.ListConversations)
	e.GET("/v1/conversations/:id", h.GetConversation)
	e.DELETE("/v1/conversations/:id", h.DeleteConversation)

	e.GET("/v1/conversations/:id/messages", h.GetMessages)
	e.POST("/v1/conversations/:id/messages", h.SendMessage)
	e.GET("/v1/conversations/:id/ws", h.Subscribe)

	e.POST("/v1/search", h.SearchWeb)
	e.POST("/v1/index", h.IndexURLs)

	e.GET("/health", h.Health)
}

// Health reports gateway health, including RAG service reachability.
func (h *Handler) Health(c echo.Context) error {
	ragStatus := "healthy"
	if !h.service.RAGHealthy(c.Request().Context()) {
		ragStatus = "unreachable"
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":      "healthy",
		"rag_service": ragStatus,
	})
}
