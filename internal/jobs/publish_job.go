package job

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Publisher interface {
	PublishDue(ctx context.Context) error
}

// PublishJob is the periodic sweep behind the per-post queue tasks. It
// catches posts whose task was lost or that were approved after their date.
type PublishJob struct {
	pr      Publisher
	timeout time.Duration
	mu      sync.Mutex
}

func NewPublishJob(pr Publisher) *PublishJob {
	return &PublishJob{
		pr:      pr,
		timeout: time.Minute,
	}
}

// Run skips the sweep when the previous one is still going.
func (j *PublishJob) Run() {
	if !j.mu.TryLock() {
		slog.Info("publish sweep still running, skipping")
		return
	}
	defer j.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.pr.PublishDue(ctx); err != nil {
		slog.Info(err.Error())
		return
	}
	slog.Debug("publish sweep done")
}
