package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/approval-api/internal/queue"
	"github.com/maheshrc27/approval-api/internal/service"
	"github.com/maheshrc27/approval-api/internal/transfer"
)

type PostHandler struct {
	s           service.PostService
	AsynqClient queue.Enqueuer
}

func NewPostHandler(service service.PostService, asynqClient queue.Enqueuer) *PostHandler {
	return &PostHandler{s: service, AsynqClient: asynqClient}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files selected",
		})
	}

	files, err := readFiles(headers)
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read files",
		})
	}

	pc := &transfer.PostCreation{
		ClientIDs:        c.FormValue("client_ids"),
		PostType:         c.FormValue("post_type"),
		Caption:          c.FormValue("caption"),
		CaptionOverrides: c.FormValue("caption_overrides"),
		ScheduledTime:    c.FormValue("scheduled_time"),
		CropFormat:       c.FormValue("crop_format"),
	}

	// a plain JSON response cannot stream progress, so the last value is
	// logged as it arrives and returned with the result
	uploaded := 0
	progress := func(pct int) {
		uploaded = pct
		slog.Debug("upload progress", "percent", pct)
	}

	postIDs, delay, err := h.s.CreatePost(c.Context(), pc, files, progress)
	if err != nil {
		var upErr *service.UploadError
		if errors.As(err, &upErr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":           "Media upload failed",
				"upload_status":   upErr.StatusCode,
				"upload_progress": uploaded,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	err = queue.EnqueuePublishDue(h.AsynqClient, queue.PublishDuePayload{PostIDs: postIDs}, delay)
	if err != nil {
		// the periodic sweep still publishes these posts
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"post_ids":        postIDs,
			"upload_progress": uploaded,
			"error":           "Error scheduling post",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"post_ids":        postIDs,
		"upload_progress": uploaded,
		"message":         "Post created successfully",
	})
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.s.List(c.Context(), c.Query("client_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) UpdateCaption(c *fiber.Ctx) error {
	var in transfer.CaptionUpdate
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	err := h.s.UpdateCaption(c.Context(), c.Params("id"), in.Caption)
	if errors.Is(err, service.ErrPostNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to update caption",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	err := h.s.Remove(c.Context(), c.Query("id"))
	if errors.Is(err, service.ErrPostNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to remove post",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
