package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SearchWeb proxies a best-effort web search preview.
// POST /v1/search
func (h *Handler) SearchWeb(c echo.Context) error {
	var req struct {
		Query      string `json:"query"`
		MaxResults int    `json:"max_results"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	results := h.service.SearchWeb(c.Request().Context(), req.Query, req.MaxResults)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"results": results,
		"total":   len(results),
	})
}

// IndexURLs forwards a batch of URLs for ingestion.
// POST /v1/index
func (h *Handler) IndexURLs(c echo.Context) error {
	var req struct {
		URLs []string `json:"urls"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result := h.service.IndexURLs(c.Request().Context(), req.URLs)
	return c.JSON(http.StatusOK, result)
}
