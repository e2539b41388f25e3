package user

import (
	usersvc "papertrade-backend/internal/application/user"
	"papertrade-backend/internal/middleware"
	"papertrade-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers holds dependencies for account endpoints.
type Handlers struct {
	Service *usersvc.Service
	Config  middleware.SessionConfig
}

type registerRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

// Register POST /api/v1/users/register — create account and log the new
// user in (session set, cookie issued).
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, usersvc.ErrUsernameRequired.Error(), fiber.StatusBadRequest, nil)
	}

	u, err := h.Service.Register(c.Context(), req.Username, req.Password, req.Confirmation)
	if err != nil {
		switch err {
		case usersvc.ErrUsernameRequired, usersvc.ErrPasswordRequired,
			usersvc.ErrPasswordMismatch, usersvc.ErrUserExists:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   u.ID,
		Username: u.Username,
	})
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)

	return response.SuccessCreated(c, "Account created", fiber.Map{
		"user": fiber.Map{
			"id":       u.ID,
			"username": u.Username,
			"cash":     u.Cash,
		},
	})
}

type changePasswordRequest struct {
	Password     string `json:"password"`
	NewPassword  string `json:"newpassword"`
	Confirmation string `json:"confirmation"`
}

// ChangePassword PATCH /api/v1/users/change-password
func (h *Handlers) ChangePassword(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, usersvc.ErrPasswordRequired.Error(), fiber.StatusBadRequest, nil)
	}

	if err := h.Service.ChangePassword(c.Context(), userID, req.Password, req.NewPassword, req.Confirmation); err != nil {
		switch err {
		case usersvc.ErrPasswordRequired, usersvc.ErrPasswordMismatch:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case usersvc.ErrInvalidPassword:
			return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Password updated", fiber.Map{})
}
