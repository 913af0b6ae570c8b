package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/getmarco/medtextanalyze/config"
	"github.com/getmarco/medtextanalyze/internal/app"
	"github.com/getmarco/medtextanalyze/pkg/logger"
	"github.com/getmarco/medtextanalyze/pkg/worker"
)

func main() {
	cfg, err := config.Load(os.Getenv("MED_CONFIG_FILE"))
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(
		logger.WithLevel(cfg.Log.Level),
		logger.WithEncoding(cfg.Log.Encoding),
		logger.WithOutputPaths(cfg.Log.OutputPaths),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	service, err := app.BuildService(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("failed to build analysis service", logger.Error(err))
	}

	analysisWorker, err := worker.NewAnalysisWorker(&worker.Config{
		RedisAddr:   cfg.Redis.Addr,
		RedisDB:     cfg.Redis.DB,
		Concurrency: cfg.Worker.Concurrency,
	}, service, log)
	if err != nil {
		log.Fatal("failed to create analysis worker", logger.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := analysisWorker.Start(ctx); err != nil {
		log.Fatal("failed to start worker", logger.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down worker...")
	analysisWorker.Stop()
	log.Info("worker stopped")
}
