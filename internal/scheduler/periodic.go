package scheduler

import (
	"context"
	"fmt"
	"time"

	"crmhr_backend/platform/config"
	"crmhr_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Periodic registers the recurring jobs: the nightly auto-logout sweep a few
// minutes after the cutoff, and the payroll close for the previous month in
// the night of the 1st.
type Periodic struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

const autoLogoutGraceMinutes = 5

func NewPeriodic(cfg config.SchedulerConfig, cutoff string, log *logger.Logger) (*Periodic, error) {
	opt, queue, err := connectionSettings(cfg)
	if err != nil {
		return nil, err
	}

	cutoffTime, err := time.Parse("15:04", cutoff)
	if err != nil {
		return nil, fmt.Errorf("invalid auto-logout cutoff %q: %w", cutoff, err)
	}
	sweepAt := cutoffTime.Add(autoLogoutGraceMinutes * time.Minute)

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: time.UTC,
	})

	autoLogoutCron := fmt.Sprintf("%d %d * * *", sweepAt.Minute(), sweepAt.Hour())
	if _, err := scheduler.Register(autoLogoutCron, NewAttendanceAutoLogoutTask(), asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("register auto-logout job: %w", err)
	}

	// Empty payload makes the worker close the previous calendar month.
	monthCloseTask, err := NewPayrollMonthCloseTask(PayrollMonthClosePayload{})
	if err != nil {
		return nil, err
	}
	if _, err := scheduler.Register("0 2 1 * *", monthCloseTask, asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("register payroll close job: %w", err)
	}

	log.Info("periodic jobs registered", "autoLogoutCron", autoLogoutCron, "payrollCloseCron", "0 2 1 * *")
	return &Periodic{scheduler: scheduler, log: log}, nil
}

// Run drives the cron entries until the context is cancelled.
func (p *Periodic) Run(ctx context.Context) {
	if p == nil || p.scheduler == nil {
		return
	}

	go func() {
		<-ctx.Done()
		p.scheduler.Shutdown()
	}()

	if err := p.scheduler.Run(); err != nil {
		p.log.Error("periodic scheduler stopped", "error", err)
	}
}
