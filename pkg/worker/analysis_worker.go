package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/getmarco/medtextanalyze/internal/service/analyze"
	"github.com/getmarco/medtextanalyze/pkg/logger"
	"github.com/getmarco/medtextanalyze/pkg/queue"
)

// AnalysisWorker runs queued PDF analyses through the service pipeline.
type AnalysisWorker struct {
	BaseWorker
	service analyze.Service
}

// NewAnalysisWorker creates a worker bound to the given service.
func NewAnalysisWorker(cfg *Config, service analyze.Service, log logger.Logger) (*AnalysisWorker, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Minute
			},
		},
	)

	w := &AnalysisWorker{
		BaseWorker: BaseWorker{
			server: server,
			mux:    asynq.NewServeMux(),
			logger: log,
		},
		service: service,
	}
	w.mux.HandleFunc(queue.TaskTypePDFAnalyze, w.handlePDFAnalyze)
	return w, nil
}

func (w *AnalysisWorker) handlePDFAnalyze(ctx context.Context, t *asynq.Task) error {
	var task queue.Task
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("failed to unmarshal task",
			logger.String("payload", string(t.Payload())),
			logger.Error(err),
		)
		return fmt.Errorf("unmarshal task: %w", err)
	}

	w.logger.Info("processing analysis task",
		logger.String("taskId", task.ID),
		logger.String("bucket", task.Document.Bucket),
		logger.String("key", task.Document.Key),
		logger.String("strategy", string(task.Strategy)),
	)

	if err := w.service.HandlePDFTask(ctx, &task); err != nil {
		w.logger.Error("analysis task failed",
			logger.String("taskId", task.ID),
			logger.Error(err),
		)
		return err
	}
	return nil
}

// Start runs the worker until the context is cancelled.
func (w *AnalysisWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("worker server stopped", logger.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}
