package trading

import (
	"papertrade-backend/internal/application/quotes"
	"papertrade-backend/internal/application/settlement"
	"papertrade-backend/internal/middleware"
	"papertrade-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers exposes the settlement engine over HTTP.
type Handlers struct {
	Service *settlement.Service
}

type orderRequest struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

// statusFor maps settlement errors to HTTP statuses. Insufficient cash is
// 403; everything else user-correctable is 400.
func statusFor(err error) int {
	switch err {
	case settlement.ErrSymbolRequired,
		settlement.ErrInvalidShares,
		settlement.ErrStockNotOwned,
		settlement.ErrInsufficientShares,
		settlement.ErrInvalidDeposit,
		quotes.ErrUnavailable:
		return fiber.StatusBadRequest
	case settlement.ErrInsufficientCash:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// Buy POST /api/v1/trading/buy
func (h *Handlers) Buy(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body orderRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, settlement.ErrInvalidShares.Error(), fiber.StatusBadRequest, nil)
	}

	receipt, err := h.Service.Buy(c.Context(), userID, body.Symbol, body.Shares)
	if err != nil {
		code := statusFor(err)
		if code == fiber.StatusInternalServerError {
			return response.Error(c, "Internal Server Error", code, nil)
		}
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Success(c, "Purchase settled", receipt)
}

// Sell POST /api/v1/trading/sell
func (h *Handlers) Sell(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body orderRequest
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, settlement.ErrInvalidShares.Error(), fiber.StatusBadRequest, nil)
	}

	receipt, err := h.Service.Sell(c.Context(), userID, body.Symbol, body.Shares)
	if err != nil {
		code := statusFor(err)
		if code == fiber.StatusInternalServerError {
			return response.Error(c, "Internal Server Error", code, nil)
		}
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Success(c, "Sale settled", receipt)
}

// Deposit POST /api/v1/trading/deposit — simulated cash top-up.
func (h *Handlers) Deposit(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, settlement.ErrInvalidDeposit.Error(), fiber.StatusBadRequest, nil)
	}

	cash, err := h.Service.Deposit(c.Context(), userID, body.Amount)
	if err != nil {
		code := statusFor(err)
		if code == fiber.StatusInternalServerError {
			return response.Error(c, "Internal Server Error", code, nil)
		}
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Success(c, "Deposit applied", fiber.Map{"cash": cash})
}
