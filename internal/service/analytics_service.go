package service

import (
	"context"
	"fmt"
	"time"

	"github.com/maheshrc27/approval-api/internal/models"
	"github.com/maheshrc27/approval-api/internal/repository"
)

type QuotaUsage struct {
	Client    *models.Client `json:"client"`
	Quota     int            `json:"quota"`
	Scheduled int            `json:"scheduled"`
	Remaining int            `json:"remaining"`
}

type WeeklyReport struct {
	WeekStart time.Time     `json:"week_start"`
	WeekEnd   time.Time     `json:"week_end"`
	Usage     []*QuotaUsage `json:"usage"`
}

type AnalyticsService interface {
	WeeklyQuota(ctx context.Context, day time.Time) (*WeeklyReport, error)
}

type analyticsService struct {
	cr repository.ClientRepository
	pr repository.PostRepository
}

func NewAnalyticsService(cr repository.ClientRepository, pr repository.PostRepository) AnalyticsService {
	return &analyticsService{cr: cr, pr: pr}
}

// WeekBounds returns the Monday 00:00 UTC that starts day's week and the
// following Monday.
func WeekBounds(day time.Time) (time.Time, time.Time) {
	day = day.UTC()
	offset := (int(day.Weekday()) + 6) % 7
	start := time.Date(day.Year(), day.Month(), day.Day()-offset, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 7)
}

func (s *analyticsService) WeeklyQuota(ctx context.Context, day time.Time) (*WeeklyReport, error) {
	start, end := WeekBounds(day)

	clients, err := s.cr.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("error getting clients: %w", err)
	}
	counts, err := s.pr.CountScheduledBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("error counting posts: %w", err)
	}

	report := &WeeklyReport{WeekStart: start, WeekEnd: end, Usage: []*QuotaUsage{}}
	for _, c := range clients {
		if c.WeeklyPostQuota == nil {
			continue
		}
		scheduled := counts[c.ID]
		remaining := *c.WeeklyPostQuota - scheduled
		if remaining < 0 {
			remaining = 0
		}
		report.Usage = append(report.Usage, &QuotaUsage{
			Client:    c,
			Quota:     *c.WeeklyPostQuota,
			Scheduled: scheduled,
			Remaining: remaining,
		})
	}
	return report, nil
}
