package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pratik-mahalle/voltcast-alerts/internal/api/handlers"
	"github.com/pratik-mahalle/voltcast-alerts/internal/api/router"
	"github.com/pratik-mahalle/voltcast-alerts/internal/config"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/logger"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/validator"
	"github.com/pratik-mahalle/voltcast-alerts/internal/repository/postgres"
	"github.com/pratik-mahalle/voltcast-alerts/internal/services"
	"github.com/pratik-mahalle/voltcast-alerts/internal/worker"
	"github.com/pratik-mahalle/voltcast-alerts/migrations"
)

// @title VoltCast Alerting API
// @version 1.0
// @description Threshold alert rules evaluated against solar and battery telemetry.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	dialect := postgres.DialectFor(cfg.Database.Driver)
	if cfg.Database.AutoMigrate {
		migrationsFS, err := migrations.GetFS(cfg.Database.Driver)
		if err != nil {
			log.Fatalf("Failed to load migrations: %v", err)
		}
		applied, err := postgres.RunMigrations(db, dialect, migrationsFS)
		if err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Infof("Applied %d migrations", applied)
	}

	ruleRepo := postgres.NewRuleRepository(db, dialect)

	delivery := services.NewDeliveryService(cfg.Email, services.NewEmailTransport(cfg.Email), log)
	if !cfg.Email.Configured() {
		log.Warn("EMAIL_API_KEY not set, email alerts will be skipped")
	}

	pool := worker.NewPool(worker.PoolConfig{
		Dispatcher: delivery,
		Workers:    cfg.Dispatch.Workers,
		QueueSize:  cfg.Dispatch.QueueSize,
		Logger:     log,
	})
	pool.Start()

	ingestion := services.NewIngestionService(ruleRepo, pool, delivery, log)
	val := validator.New()

	handler := router.New(cfg, log, &router.Handlers{
		Health: handlers.NewHealthHandler(db, log),
		Rule:   handlers.NewRuleHandler(services.NewRuleService(ruleRepo, log), log, val),
		Ingest: handlers.NewIngestHandler(ingestion, log, val),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var background sync.WaitGroup
	if cfg.Poller.Enabled {
		poller := worker.NewPoller(db, dialect, worker.DefaultSources(cfg.Poller), delivery, cfg.Poller, log)
		background.Add(1)
		go func() {
			defer background.Done()
			poller.Run(ctx)
		}()
	}

	housekeeper := worker.NewHousekeeper(ruleRepo, pool, cfg.Scheduler.HousekeepingSchedule, log)
	if err := housekeeper.Start(ctx); err != nil {
		log.Fatalf("Failed to start housekeeper: %v", err)
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"addr":        server.Addr,
			"environment": cfg.Server.Environment,
			"driver":      cfg.Database.Driver,
			"auth":        cfg.Auth.Enabled(),
		}).Info("Starting VoltCast alerting service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	housekeeper.Stop()
	background.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Server forced to shutdown")
	}

	pool.Stop()
	ingestion.Wait()

	log.Info("Server stopped")
}
