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

	"crmhr_backend/internal/attendance"
	"crmhr_backend/internal/auth"
	"crmhr_backend/internal/documents"
	"crmhr_backend/internal/email"
	"crmhr_backend/internal/events"
	apphttp "crmhr_backend/internal/http"
	"crmhr_backend/internal/http/router"
	"crmhr_backend/internal/leads"
	"crmhr_backend/internal/leave"
	"crmhr_backend/internal/notification"
	"crmhr_backend/internal/payroll"
	"crmhr_backend/internal/users"
	"crmhr_backend/platform/config"
	"crmhr_backend/platform/db"
	"crmhr_backend/platform/logger"
	"crmhr_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender := email.NewSenderFromConfig(cfg)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, log, val)
	usersModule := users.NewModule(pool, val)

	sheetClient := &http.Client{Timeout: cfg.GetSheetFetchTimeout()}
	leadsModule := leads.NewModule(pool, usersModule.Service(), eventBus, log, val, sheetClient)

	attendanceModule := attendance.NewModule(pool, eventBus, log, val)
	leaveModule := leave.NewModule(pool, eventBus, val)
	payrollModule := payroll.NewModule(pool, usersModule.Repository(), attendanceModule.Repository(), leaveModule.Repository(), log, val)

	modules := []apphttp.Module{
		authModule,
		usersModule,
		leadsModule,
		attendanceModule,
		leaveModule,
		payrollModule,
	}

	// Document storage needs MinIO; the rest of the API works without it.
	if cfg.IsMinIOEnabled() {
		documentsModule, err := documents.NewModule(ctx, pool, cfg, eventBus, log, val)
		if err != nil {
			log.Error("failed to initialize documents module", "error", err)
			panic("failed to initialize documents module: " + err.Error())
		}
		modules = append(modules, documentsModule)
		log.Info("document storage initialized", "bucket", cfg.GetMinioBucketEmployeeDocuments())
	} else {
		log.Warn("MinIO not configured; document endpoints disabled")
	}

	// Notification module subscribes to domain events and serves the in-app feed
	notificationModule := notification.New(pool, notification.NewUserDirectory(usersModule.Repository()), sender, log)
	notificationModule.RegisterHandlers(eventBus)
	modules = append(modules, notificationModule)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
