// Command todo-server starts the todo HTTP API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/todoapp/todo-server/internal/config"
	"github.com/todoapp/todo-server/internal/limiter"
	"github.com/todoapp/todo-server/internal/migrate"
	"github.com/todoapp/todo-server/internal/repository/postgres"
	httpserver "github.com/todoapp/todo-server/internal/server/http"
	"github.com/todoapp/todo-server/internal/service"
	"github.com/todoapp/todo-server/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, runs migrations, and starts the HTTP server.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	tokens, err := token.NewManager([]byte(cfg.SigningKey), cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		logger.Fatal("token manager", zap.Error(err))
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	todoRepo := postgres.NewTodoRepo(db)
	lim := limiter.NewPG(db.Pool, cfg.LoginWindow, cfg.LoginMaxFails, cfg.LoginBlockFor)

	// Services
	authSvc := service.NewAuthService(userRepo, tokens, lim)
	todoSvc := service.NewTodoService(todoRepo)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	app := httpserver.New(authSvc, todoSvc, tokens, userRepo)
	app.Register(e, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- e.Start(cfg.Addr)
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
			_ = e.Close()
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
