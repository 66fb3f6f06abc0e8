package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"garden_panel/internal/backend"
	"garden_panel/internal/config"
	"garden_panel/internal/handlers"
	"garden_panel/internal/logger"
	"garden_panel/internal/metrics"
	"garden_panel/internal/panel"
	"garden_panel/internal/repository"
	"garden_panel/internal/repository/db"
	"garden_panel/internal/server"
	"garden_panel/internal/service"
	"garden_panel/internal/tui"

	_ "garden_panel/docs"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	shutdownTimeout = 10 * time.Second
	tuiLogFile      = "garden_panel.log"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yml")
	withTUI := flag.Bool("tui", false, "run the terminal panel in the foreground")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log, closeLog := newLogger(cfg.LogLevel, *withTUI)
	defer closeLog()

	// open DB
	sqlDB, err := openDB(cfg.DB.Path, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	m := metrics.New(prometheus.DefaultRegisterer)
	store := panel.NewStore()
	services := service.NewService(service.Deps{
		Repos:   repository.NewRepository(sqlDB),
		Backend: backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, m),
		Panel:   store,
		Metrics: m,
		Log:     log,
		Options: service.Options{
			CameraEnabled: cfg.Panel.CameraEnabled,
			CameraMS:      cfg.Panel.CameraMS,
			PinMock:       cfg.Panel.PinMock,
			Auth: service.AuthOptions{
				SigningKey: cfg.Auth.SigningKey,
				TokenTTL:   cfg.Auth.TokenTTL,
			},
		},
	})
	apiHandler := handlers.NewHandler(services, log, prometheus.DefaultGatherer)

	// context for background goroutines
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := services.FlowPoller.Restore(ctx); err != nil {
		log.Warnw("flow watermark not restored", "err", err)
	}
	startPollers(ctx, services, cfg.Interval)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	if *withTUI {
		runTUI(ctx, services, store, log)
		cancel()
	}

	// graceful shutdown
	<-ctx.Done()
	shutdown(services, srv, log)
}

// newLogger returns the stdout logger, or a file logger when the terminal
// panel owns the screen.
func newLogger(level string, withTUI bool) (*logger.Logger, func()) {
	if !withTUI {
		return logger.Get(level), func() {}
	}
	f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.Get(level).Fatalw("failed to open log file", "path", tuiLogFile, "err", err)
	}
	return logger.New(level, f), func() { _ = f.Close() }
}

// openDB initializes the SQLite database using configuration.
func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "garden.db")
		path = "garden.db"
	}
	return db.InitDB(path)
}

// startPollers launches the camera, status and flow loops. They stop with ctx.
func startPollers(ctx context.Context, services *service.Service, iv config.IntervalConfig) {
	go services.Camera.Run(ctx, iv.Camera)
	go services.StatusPoller.Run(ctx, iv.Status)
	go services.FlowPoller.Run(ctx, iv.Flow)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// runTUI blocks until the operator quits the terminal panel.
func runTUI(ctx context.Context, services *service.Service, store *panel.Store, log *logger.Logger) {
	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()

	model := tui.NewModel(ctx, tui.NewController(services), store.Snapshot(), updates)
	if err := tui.Run(ctx, model); err != nil {
		log.Errorw("terminal panel failed", "err", err)
	}
}

// shutdown stops the simulation and lets in-flight requests complete.
func shutdown(services *service.Service, srv *server.Server, log *logger.Logger) {
	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	services.Simulator.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
