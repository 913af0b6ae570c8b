package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/getmarco/medtextanalyze/api/handlers"
	"github.com/getmarco/medtextanalyze/api/routes"
	"github.com/getmarco/medtextanalyze/config"
	"github.com/getmarco/medtextanalyze/internal/app"
	"github.com/getmarco/medtextanalyze/pkg/logger"
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

	h := handlers.NewHandlers(service, log)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		log.Info("server starting", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", logger.Error(err))
	}
	log.Info("server stopped")
}
