package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/getmarco/medtextanalyze/internal/models"
)

// TaskTypePDFAnalyze is the queued task kind for background PDF analysis.
const TaskTypePDFAnalyze = "pdf:analyze"

const statusTTL = 24 * time.Hour

// Task is the payload enqueued for a background analysis.
type Task struct {
	ID        string                    `json:"id"`
	Type      string                    `json:"type"`
	Document  models.DocumentReference  `json:"document"`
	Strategy  models.ExtractionStrategy `json:"strategy"`
	CreatedAt time.Time                 `json:"createdAt"`
}

// TaskStatus is the persisted state of a background analysis.
type TaskStatus struct {
	TaskID     string    `json:"taskId"`
	State      string    `json:"state"`
	Progress   float64   `json:"progress"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
}

// Queue is the task queue boundary.
type Queue interface {
	Enqueue(ctx context.Context, task *Task) error
	Status(ctx context.Context, taskID string) (*TaskStatus, error)
	Cancel(ctx context.Context, taskID string) error
	SaveStatus(ctx context.Context, status *TaskStatus) error
}

// Config defines queue connection and retry behavior.
type Config struct {
	RedisAddr  string
	RedisDB    int
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// AsynqQueue implements Queue over asynq with task status persisted in
// redis.
type AsynqQueue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	redis     *redis.Client
	cfg       *Config
}

// NewAsynqQueue connects the queue. No defaults are read from the
// environment; the caller provides the full config.
func NewAsynqQueue(cfg *Config) (*AsynqQueue, error) {
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("queue config missing redis address")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB}
	return &AsynqQueue{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		redis:     redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB}),
		cfg:       cfg,
	}, nil
}

// Enqueue schedules the task on the default queue under its own ID.
func (q *AsynqQueue) Enqueue(ctx context.Context, task *Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	t := asynq.NewTask(task.Type, payload,
		asynq.MaxRetry(q.cfg.MaxRetries),
		asynq.Timeout(q.cfg.Timeout),
		asynq.TaskID(task.ID),
	)
	if _, err := q.client.EnqueueContext(ctx, t); err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}
	return nil
}

// Status reads the persisted status, falling back to the queue inspector
// for tasks that have not reported yet.
func (q *AsynqQueue) Status(ctx context.Context, taskID string) (*TaskStatus, error) {
	key := statusKey(taskID)
	data, err := q.redis.Get(ctx, key).Bytes()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("read task status: %w", err)
	}
	if err == nil {
		var status TaskStatus
		if err := json.Unmarshal(data, &status); err != nil {
			return nil, fmt.Errorf("unmarshal task status: %w", err)
		}
		return &status, nil
	}

	info, err := q.inspector.GetTaskInfo("default", taskID)
	if err != nil {
		return nil, fmt.Errorf("task %s not found: %w", taskID, err)
	}
	return fromTaskInfo(info), nil
}

// Cancel removes a pending task from the queue.
func (q *AsynqQueue) Cancel(ctx context.Context, taskID string) error {
	if err := q.inspector.DeleteTask("default", taskID); err != nil {
		return fmt.Errorf("cancel task: %w", err)
	}
	return q.SaveStatus(ctx, &TaskStatus{
		TaskID:     taskID,
		State:      string(models.TaskStateCancelled),
		FinishedAt: time.Now(),
	})
}

// SaveStatus persists the status with a bounded TTL; task state is request
// plumbing, not a data store.
func (q *AsynqQueue) SaveStatus(ctx context.Context, status *TaskStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal task status: %w", err)
	}
	if err := q.redis.Set(ctx, statusKey(status.TaskID), data, statusTTL).Err(); err != nil {
		return fmt.Errorf("save task status: %w", err)
	}
	return nil
}

// Close releases the underlying connections.
func (q *AsynqQueue) Close() error {
	if err := q.client.Close(); err != nil {
		return err
	}
	return q.redis.Close()
}

func statusKey(taskID string) string {
	return fmt.Sprintf("task_status:%s", taskID)
}

func fromTaskInfo(info *asynq.TaskInfo) *TaskStatus {
	status := &TaskStatus{TaskID: info.ID}
	switch info.State {
	case asynq.TaskStateActive:
		status.State = string(models.TaskStateRunning)
	case asynq.TaskStateCompleted:
		status.State = string(models.TaskStateCompleted)
		status.Progress = 1.0
		status.FinishedAt = info.CompletedAt
	case asynq.TaskStateRetry, asynq.TaskStateArchived:
		status.State = string(models.TaskStateFailed)
		status.Error = info.LastErr
	default:
		status.State = string(models.TaskStatePending)
	}
	return status
}
