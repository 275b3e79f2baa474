package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/approval-api/internal/service"
)

func GetUserID(c *fiber.Ctx) int64 {
	raw, _ := c.Locals("user_id").(string)
	userID, _ := strconv.ParseInt(raw, 10, 64)
	return userID
}

// reviewError maps service errors on the public review routes to a response.
// Load failures get a distinct state so the page can offer a retry instead of
// an empty board.
func reviewError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrLoadFailed):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"state": "load_failed",
			"error": "Unable to load posts",
		})
	case errors.Is(err, service.ErrClientNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Link not found",
		})
	case errors.Is(err, service.ErrGroupNotFound), errors.Is(err, service.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrInvalidChangeRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to save your review, please try again",
		})
	}
}

func readFiles(files []*multipart.FileHeader) ([][]byte, error) {
	out := make([][]byte, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("error opening %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", fh.Filename, err)
		}
		out = append(out, data)
	}
	return out, nil
}
