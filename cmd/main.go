package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"packaging_cell/internal/config"
	"packaging_cell/internal/handlers"
	"packaging_cell/internal/logger"
	"packaging_cell/internal/repository"
	"packaging_cell/internal/repository/db"
	"packaging_cell/internal/server"
	"packaging_cell/internal/service"

	"github.com/spf13/afero"
)

const shutdownTimeout = 10 * time.Second

// @title                       Packaging Cell API
// @version                     1.0
// @description                 Operator API for the packaging cell: robot session, sensors, order verification and event log.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.Log.Level)

	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer closeDB(conn, log)

	// wire dependencies
	repos := repository.NewRepository(conn, afero.NewOsFs(), cfg.Programs.Dir)
	services := service.NewService(repos, cfg, log)
	apiHandler := handlers.NewHandler(services, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seed(ctx, services, cfg, log)

	go services.Poller.Run(ctx, cfg.Poller.Interval)

	srv := &server.Server{}
	serveErr, err := srv.Start(cfg.Port, apiHandler.InitRoutes())
	if err != nil {
		log.Fatalw("error starting server", "port", cfg.Port, "err", err)
	}
	log.Infow("server started", "addr", srv.Addr(), "robot_host", cfg.Robot.Host)

	waitForShutdown(cancel, srv, services, serveErr, log)
}

// seed creates the admin account and, when configured, the demo orders.
func seed(ctx context.Context, services *service.Service, cfg config.Config, log *logger.Logger) {
	if err := services.Authorization.EnsureAdminSeed(ctx); err != nil {
		log.Fatalw("failed to seed admin account", "err", err)
	}
	if !cfg.DB.SeedDemo {
		return
	}
	seeded, err := services.Orders.Seed(ctx, false)
	if err != nil {
		log.Warnw("failed to seed demo orders", "err", err)
		return
	}
	log.Infow("demo orders", "seeded", seeded)
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// waitForShutdown blocks until a signal or a serve failure, then stops the
// poller, drops the robot session and drains HTTP requests.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, services *service.Service, serveErr <-chan error, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infow("shutting down server...", "signal", sig.String())
	case err := <-serveErr:
		log.Errorw("server stopped unexpectedly", "err", err)
	}

	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := services.Robot.Disconnect(ctx); err != nil {
		log.Warnw("robot disconnect on shutdown failed", "err", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
