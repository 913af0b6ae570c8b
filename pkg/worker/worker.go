package worker

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/getmarco/medtextanalyze/pkg/logger"
)

// Worker consumes queued analysis tasks.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
}

// Config defines worker connection and concurrency settings.
type Config struct {
	RedisAddr   string
	RedisDB     int
	Concurrency int
}

// BaseWorker holds the asynq server plumbing shared by task workers.
type BaseWorker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger logger.Logger
}

// Stop shuts the asynq server down.
func (w *BaseWorker) Stop() error {
	w.server.Stop()
	w.server.Shutdown()
	return nil
}
