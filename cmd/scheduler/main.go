package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crmhr_backend/internal/attendance"
	"crmhr_backend/internal/email"
	"crmhr_backend/internal/events"
	"crmhr_backend/internal/leave"
	"crmhr_backend/internal/notification"
	"crmhr_backend/internal/payroll"
	"crmhr_backend/internal/scheduler"
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

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	if cfg.GetRedisURL() == "" {
		panic("REDIS_URL is required for the scheduler")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)
	sender := email.NewSenderFromConfig(cfg)
	val := validator.New()

	// Auto clock-out publishes events; subscribe notifications so affected
	// employees hear about closed sessions.
	usersModule := users.NewModule(pool, val)
	notificationModule := notification.New(pool, notification.NewUserDirectory(usersModule.Repository()), sender, log)
	notificationModule.RegisterHandlers(eventBus)

	attendanceModule := attendance.NewModule(pool, eventBus, log, val)
	leaveModule := leave.NewModule(pool, eventBus, val)
	payrollModule := payroll.NewModule(pool, usersModule.Repository(), attendanceModule.Repository(), leaveModule.Repository(), log, val)

	cutoff := cfg.GetAutoLogoutCutoff()

	periodic, err := scheduler.NewPeriodic(cfg, cutoff, log)
	if err != nil {
		log.Error("failed to initialize periodic scheduler", "error", err)
		panic("failed to initialize periodic scheduler: " + err.Error())
	}
	go periodic.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, attendanceModule.Service(), payrollModule.Service(), cutoff, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
