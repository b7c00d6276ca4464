package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/salachat/salachat/internal/logging"
	"github.com/salachat/salachat/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := server.NewConfigFromEnv()

	logger, err := logging.New(cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	hub := server.NewHub(*cfg, logger)
	go hub.Run()

	router := server.NewRouter(hub, *cfg, logger)
	httpServer := server.CreateServer(cfg.Port, router.Routes())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.StartServer(httpServer)
	}()
	logger.Info("server listening", zap.String("addr", cfg.Port))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	if err := server.ShutdownServer(httpServer, shutdownTimeout); err != nil {
		logger.Warn("HTTP server shutdown error", zap.Error(err))
	}
	if err := hub.Shutdown(shutdownTimeout); err != nil {
		logger.Warn("hub shutdown error", zap.Error(err))
	}
}
