package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/telehealth-api/api"
	"github.com/linesmerrill/telehealth-api/api/handlers"
	"github.com/linesmerrill/telehealth-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	api.InitMetrics(ctx, 10000, time.Hour)

	//initialize database and router
	if err := a.Initialize(); err != nil {
		zap.S().Fatalw("failed to initialize telehealth-api", "error", err)
	}

	port := a.Config.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zap.S().Infow("telehealth-api is up and running",
			"port", port,
			"url", a.Config.BaseURL,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.S().Warnw("graceful shutdown failed", "error", err)
	}
	a.Close(shutdownCtx)
}
