package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const TaskTypePublishDue = "posts:publish_due"

// Publisher moves approved posts whose date has passed to published.
// PostRepository satisfies it.
type Publisher interface {
	PublishDue(ctx context.Context) error
}

type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Queue struct {
	pr Publisher
}

func NewQueue(pr Publisher) *Queue {
	return &Queue{
		pr: pr,
	}
}

type PublishDuePayload struct {
	PostIDs []string `json:"post_ids"`
}

// EnqueuePublishDue schedules a maturation pass for the moment the posts
// fall due.
func EnqueuePublishDue(client Enqueuer, payload PublishDuePayload, delay time.Duration) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishDue, taskPayload, asynq.MaxRetry(3))

	info, err := client.Enqueue(task, asynq.ProcessIn(delay))
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	slog.Info("task scheduled", "task", info.ID, "posts", payload.PostIDs, "in", delay)
	return nil
}
