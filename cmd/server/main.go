package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/essenciabjj/trial/internal/config"
	"github.com/essenciabjj/trial/internal/handlers"
	"github.com/essenciabjj/trial/internal/logger"
	"github.com/essenciabjj/trial/internal/schedule"
	"github.com/essenciabjj/trial/internal/services"
	"github.com/essenciabjj/trial/internal/web"
	"github.com/essenciabjj/trial/internal/wizard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()
	if cfg.EnvFile != "" {
		zl.Info("Loaded configuration from file", zap.String("file", cfg.EnvFile))
	}

	store, closeStore, err := services.OpenStore(cfg, zl)
	if err != nil {
		zl.Fatal("Failed to open registration store", zap.Error(err))
	}
	defer closeStore()

	svc := services.NewRegistrationService(store, zl)
	table := schedule.Default()
	wizLog := zl.Named("wizard")
	sessions := handlers.NewSessions(func() *wizard.Wizard {
		return wizard.New(table, svc, wizard.WithLogger(wizLog))
	}, cfg.SessionTTL, zl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sessions.RunSweeper(ctx, time.Minute)

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: web.Router(web.Deps{
			Sessions: sessions,
			Table:    table,
			Logger:   zl,
			CSRFKey:  cfg.CSRFKey,
			Secure:   cfg.IsProduction(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("Trial booking listening", zap.String("addr", cfg.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Graceful shutdown failed", zap.Error(err))
	}
}
