package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	calls int
	err   error
}

func (f *fakePublisher) PublishDue(ctx context.Context) error {
	f.calls++
	return f.err
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{ID: "t1", Type: task.Type()}, nil
}

func TestEnqueuePublishDue(t *testing.T) {
	e := &fakeEnqueuer{}

	err := EnqueuePublishDue(e, PublishDuePayload{PostIDs: []string{"p1", "p2"}}, time.Hour)

	require.NoError(t, err)
	require.Len(t, e.tasks, 1)
	assert.Equal(t, TaskTypePublishDue, e.tasks[0].Type())

	var payload PublishDuePayload
	require.NoError(t, json.Unmarshal(e.tasks[0].Payload(), &payload))
	assert.Equal(t, []string{"p1", "p2"}, payload.PostIDs)

	require.Len(t, e.opts[0], 1)
	assert.Equal(t, asynq.ProcessInOpt, e.opts[0][0].Type())
	assert.Equal(t, time.Hour, e.opts[0][0].Value())
}

func TestEnqueuePublishDue_ClientError(t *testing.T) {
	e := &fakeEnqueuer{err: errors.New("redis down")}

	err := EnqueuePublishDue(e, PublishDuePayload{}, 0)

	assert.Error(t, err)
}

func TestHandlePublishDueTask(t *testing.T) {
	p := &fakePublisher{}
	q := NewQueue(p)
	payload, _ := json.Marshal(PublishDuePayload{PostIDs: []string{"p1"}})

	require.NoError(t, q.HandlePublishDueTask(context.Background(), asynq.NewTask(TaskTypePublishDue, payload)))
	assert.Equal(t, 1, p.calls)

	p.err = errors.New("timeout")
	assert.Error(t, q.HandlePublishDueTask(context.Background(), asynq.NewTask(TaskTypePublishDue, payload)))
}

func TestHandlePublishDueTask_BadPayloadSkipsRetry(t *testing.T) {
	p := &fakePublisher{}
	q := NewQueue(p)

	err := q.HandlePublishDueTask(context.Background(), asynq.NewTask(TaskTypePublishDue, []byte("{")))

	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Zero(t, p.calls)
}
