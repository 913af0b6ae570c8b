package queue

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmarco/medtextanalyze/internal/models"
)

func TestNewAsynqQueueRequiresAddr(t *testing.T) {
	_, err := NewAsynqQueue(&Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis address")
}

func TestNewAsynqQueueDefaults(t *testing.T) {
	cfg := &Config{RedisAddr: "localhost:6379"}
	q, err := NewAsynqQueue(cfg)
	require.NoError(t, err)
	defer q.Close()

	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Minute, cfg.RetryDelay)
	assert.Equal(t, 30*time.Minute, cfg.Timeout)
}

func TestStatusKey(t *testing.T) {
	assert.Equal(t, "task_status:abc", statusKey("abc"))
}

func TestFromTaskInfo(t *testing.T) {
	done := time.Now()

	tests := []struct {
		state     asynq.TaskState
		wantState string
	}{
		{asynq.TaskStateActive, string(models.TaskStateRunning)},
		{asynq.TaskStateCompleted, string(models.TaskStateCompleted)},
		{asynq.TaskStateRetry, string(models.TaskStateFailed)},
		{asynq.TaskStateArchived, string(models.TaskStateFailed)},
		{asynq.TaskStatePending, string(models.TaskStatePending)},
		{asynq.TaskStateScheduled, string(models.TaskStatePending)},
	}

	for _, tt := range tests {
		status := fromTaskInfo(&asynq.TaskInfo{
			ID:          "task-1",
			State:       tt.state,
			LastErr:     "boom",
			CompletedAt: done,
		})
		assert.Equal(t, "task-1", status.TaskID)
		assert.Equal(t, tt.wantState, status.State, "state %v", tt.state)
	}

	completed := fromTaskInfo(&asynq.TaskInfo{ID: "task-1", State: asynq.TaskStateCompleted, CompletedAt: done})
	assert.Equal(t, 1.0, completed.Progress)
	assert.Equal(t, done, completed.FinishedAt)

	failed := fromTaskInfo(&asynq.TaskInfo{ID: "task-1", State: asynq.TaskStateRetry, LastErr: "boom"})
	assert.Equal(t, "boom", failed.Error)
}
