package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-admin/internal/handler"
	"github.com/noah-isme/sma-adp-admin/internal/models"
	"github.com/noah-isme/sma-adp-admin/internal/repository"
	"github.com/noah-isme/sma-adp-admin/internal/service"
	"github.com/noah-isme/sma-adp-admin/internal/session"
	"github.com/noah-isme/sma-adp-admin/internal/view"
	"github.com/noah-isme/sma-adp-admin/pkg/config"
	"github.com/noah-isme/sma-adp-admin/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	kinds := []models.Kind{
		models.TeacherKind(cfg.Backend.TeacherPath),
		models.StudentKind(cfg.Backend.StudentPath),
	}

	backend := repository.NewBackendClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	stores := make(map[string]view.RecordStore, len(kinds))
	for _, kind := range kinds {
		stores[kind.Name] = repository.NewRecordRepository(backend, kind, metrics, logr)
	}

	sessions := session.NewRegistry(func(kind models.Kind) *view.Controller {
		return view.New(kind, stores[kind.Name], validate, logr)
	}, cfg.Session.TTL, metrics, logr)

	router, err := handler.NewRouter(handler.RouterDeps{
		Config:   cfg,
		Logger:   logr,
		Metrics:  metrics,
		Sessions: sessions,
		Exports:  service.NewExportService(logr),
		Kinds:    kinds,
	})
	if err != nil {
		logr.Fatal("failed to build router", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeperDone := make(chan struct{})
	go func() {
		sessions.Run(ctx, cfg.Session.SweepInterval)
		close(sweeperDone)
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting",
			"addr", srv.Addr,
			"env", cfg.Env,
			"backend", cfg.Backend.BaseURL,
			"teacher_path", cfg.Backend.TeacherPath,
			"student_path", cfg.Backend.StudentPath,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Errorw("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	<-sweeperDone
}
