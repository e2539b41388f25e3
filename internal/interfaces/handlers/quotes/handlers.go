package quotes

import (
	quotesvc "papertrade-backend/internal/application/quotes"
	"papertrade-backend/internal/pkg/response"
	"papertrade-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Handlers exposes the price oracle for quote and symbol search.
type Handlers struct {
	Client quotesvc.Client
}

// Quote GET /api/v1/quotes/:symbol
func (h *Handlers) Quote(c *fiber.Ctx) error {
	symbol := validation.NormalizeSymbol(c.Params("symbol"))
	if symbol == "" {
		return response.Error(c, "You must provide a symbol", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidSymbol(symbol) {
		return response.Error(c, "Invalid stock symbol", fiber.StatusBadRequest, nil)
	}

	q, err := h.Client.Lookup(c.Context(), symbol)
	if err != nil {
		return response.Error(c, "Invalid stock symbol. Use the search function to look for suitable symbols.", fiber.StatusBadRequest, nil)
	}
	return response.Success(c, "Quote", q)
}

// Search GET /api/v1/quotes/search?q=
func (h *Handlers) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return response.Error(c, "You must provide a symbol", fiber.StatusBadRequest, nil)
	}

	results, err := h.Client.Search(c.Context(), query)
	if err != nil {
		return response.Error(c, "Search is unavailable right now", fiber.StatusBadGateway, nil)
	}
	return response.Success(c, "Search results", fiber.Map{"results": results})
}
