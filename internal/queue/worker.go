package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandlePublishDueTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := q.pr.PublishDue(ctx); err != nil {
		slog.Error("publish due posts failed", "posts", payload.PostIDs, "error", err)
		return err
	}

	slog.Info("published due posts", "posts", payload.PostIDs)
	return nil
}
