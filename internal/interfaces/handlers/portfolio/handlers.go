package portfolio

import (
	"papertrade-backend/internal/application/portfolio"
	"papertrade-backend/internal/application/quotes"
	"papertrade-backend/internal/middleware"
	"papertrade-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers exposes portfolio valuation and transaction history.
type Handlers struct {
	Service *portfolio.Service
}

// Portfolio GET /api/v1/portfolio
func (h *Handlers) Portfolio(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	p, err := h.Service.Portfolio(c.Context(), userID)
	if err != nil {
		switch err {
		case quotes.ErrUnavailable:
			// A held symbol no longer resolves; the whole read fails.
			return response.Error(c, err.Error(), fiber.StatusBadGateway, nil)
		case portfolio.ErrUserNotFound:
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Portfolio", p)
}

// History GET /api/v1/portfolio/history
func (h *Handlers) History(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	txs, err := h.Service.History(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Transaction history", fiber.Map{"transactions": txs})
}
