package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SUJAY300/medi-vault-web-app/domain"
	"github.com/SUJAY300/medi-vault-web-app/internal/config"
	httpx "github.com/SUJAY300/medi-vault-web-app/internal/http"
	"github.com/SUJAY300/medi-vault-web-app/internal/http/handlers"
)

const shutdownTimeout = 10 * time.Second

// Run wires the service and serves HTTP until SIGINT or SIGTERM
func Run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Warn("failed to close connections", zap.Error(err))
		}
	}()

	if cfg.SeedDemoAdmin {
		if err := container.SeedDemoAdmin(ctx); err != nil {
			return fmt.Errorf("seed demo admin: %w", err)
		}
	}

	go RunReaper(ctx, container.Reapers(), cfg.ReaperInterval, logger)

	router, err := NewRouter(container)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}

// NewRouter builds the HTTP router over the container's auth service
func NewRouter(container *Container) (*gin.Engine, error) {
	gin.SetMode(container.Config.GinMode)
	authH := handlers.NewAuthHandlers(container.AuthSvc, container.Logger)
	return httpx.BuildRouter(authH, container.Logger)
}

// RunReaper deletes expired challenges from every reaper on each tick until ctx is done
func RunReaper(ctx context.Context, reapers []domain.ChallengeReaper, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reapOnce(ctx, reapers, logger)
		}
	}
}

func reapOnce(ctx context.Context, reapers []domain.ChallengeReaper, logger *zap.Logger) {
	for _, reaper := range reapers {
		if err := reaper.DeleteExpired(ctx); err != nil {
			logger.Warn("failed to delete expired otp challenges", zap.Error(err))
		}
	}
}
