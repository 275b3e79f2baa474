package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/approval-api/internal/service"
)

// UserHandler serves the signed-in operator's own account.
type UserHandler struct {
	s service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{s: service}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	operatorID := GetUserID(c)
	if operatorID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	operator, err := h.s.GetUserInfo(c.Context(), operatorID)
	if errors.Is(err, service.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load account",
		})
	}

	return c.Status(fiber.StatusOK).JSON(operator)
}

// RemoveAccount deletes the operator and their API keys. Clients and posts
// are shared by the agency and stay in place.
func (h *UserHandler) RemoveAccount(c *fiber.Ctx) error {
	operatorID := GetUserID(c)
	if operatorID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	err := h.s.RemoveUser(c.Context(), operatorID)
	if errors.Is(err, service.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to remove account",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
