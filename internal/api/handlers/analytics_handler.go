package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/approval-api/internal/service"
)

type AnalyticsHandler struct {
	s service.AnalyticsService
}

func NewAnalyticsHandler(service service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{s: service}
}

// WeeklyQuota reports quota usage for the week containing ?date=YYYY-MM-DD,
// or the current week.
func (h *AnalyticsHandler) WeeklyQuota(c *fiber.Ctx) error {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "date must be YYYY-MM-DD",
			})
		}
		day = parsed
	}

	report, err := h.s.WeeklyQuota(c.Context(), day)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load weekly quota",
		})
	}
	return c.JSON(report)
}
