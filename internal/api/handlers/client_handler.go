package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/approval-api/internal/service"
	"github.com/maheshrc27/approval-api/internal/transfer"
)

type ClientHandler struct {
	s service.ClientService
}

func NewClientHandler(service service.ClientService) *ClientHandler {
	return &ClientHandler{s: service}
}

func (h *ClientHandler) ListClients(c *fiber.Ctx) error {
	clients, err := h.s.List(c.Context(), c.QueryBool("hidden", false))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list clients",
		})
	}
	return c.JSON(clients)
}

func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	client, err := h.s.Get(c.Context(), c.Params("id"))
	if err != nil {
		return clientError(c, err)
	}
	return c.JSON(client)
}

func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	var in transfer.ClientInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	client, err := h.s.Create(c.Context(), &in)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

func (h *ClientHandler) UpdateClient(c *fiber.Ctx) error {
	var in transfer.ClientInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	client, err := h.s.Update(c.Context(), c.Params("id"), &in)
	if err != nil {
		return clientError(c, err)
	}
	return c.JSON(client)
}

func (h *ClientHandler) RemoveClient(c *fiber.Ctx) error {
	if err := h.s.Remove(c.Context(), c.Params("id")); err != nil {
		return clientError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *ClientHandler) SetGroupMembers(c *fiber.Ctx) error {
	var in transfer.GroupMembers
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	client, err := h.s.SetGroupMembers(c.Context(), c.Params("id"), in.Names)
	if err != nil {
		return clientError(c, err)
	}
	return c.JSON(client)
}

func clientError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrClientNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}
