package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/approval-api/internal/service"
	"github.com/maheshrc27/approval-api/internal/transfer"
)

// ReviewHandler serves the share-link page. Routes are public: the link id is
// the only credential.
type ReviewHandler struct {
	s service.ReviewService
}

func NewReviewHandler(service service.ReviewService) *ReviewHandler {
	return &ReviewHandler{s: service}
}

func (h *ReviewHandler) GetBoard(c *fiber.Ctx) error {
	board, err := h.s.Board(c.Context(), c.Params("link"))
	if err != nil {
		return reviewError(c, err)
	}
	return c.JSON(board)
}

func (h *ReviewHandler) ApproveGroup(c *fiber.Ctx) error {
	var in transfer.GroupAction
	if err := c.BodyParser(&in); err != nil || in.GroupKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "group_key is required",
		})
	}

	board, err := h.s.ApproveGroup(c.Context(), c.Params("link"), in.GroupKey)
	if err != nil {
		return reviewError(c, err)
	}
	return c.JSON(board)
}

func (h *ReviewHandler) RequestChange(c *fiber.Ctx) error {
	var in transfer.ChangeRequestInput
	if err := c.BodyParser(&in); err != nil || in.GroupKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "group_key is required",
		})
	}

	board, err := h.s.RequestChange(c.Context(), c.Params("link"), &in)
	if err != nil {
		return reviewError(c, err)
	}
	return c.JSON(board)
}

func (h *ReviewHandler) ApprovePost(c *fiber.Ctx) error {
	board, err := h.s.ApprovePost(c.Context(), c.Params("link"), c.Params("id"))
	if err != nil {
		return reviewError(c, err)
	}
	return c.JSON(board)
}
