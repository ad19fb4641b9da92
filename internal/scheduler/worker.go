package scheduler

import (
	"context"
	"time"

	payrolltransport "crmhr_backend/internal/payroll/transport"
	"crmhr_backend/platform/apperr"
	"crmhr_backend/platform/config"
	"crmhr_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// AttendanceCloser closes open attendance sessions past the cutoff time.
type AttendanceCloser interface {
	AutoClose(ctx context.Context, cutoff string) (int, error)
}

// PayrollCloser generates payroll entries for a period.
type PayrollCloser interface {
	CloseMonth(ctx context.Context, year int, month time.Month) (payrolltransport.CloseResult, error)
}

type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	attendance AttendanceCloser
	payroll    PayrollCloser
	cutoff     string
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, attendance AttendanceCloser, payroll PayrollCloser, cutoff string, log *logger.Logger) (*Worker, error) {
	opt, queue, err := connectionSettings(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	w := &Worker{
		server:     server,
		mux:        asynq.NewServeMux(),
		attendance: attendance,
		payroll:    payroll,
		cutoff:     cutoff,
		log:        log,
	}
	w.mux.HandleFunc(TaskAttendanceAutoLogout, w.handleAutoLogout)
	w.mux.HandleFunc(TaskPayrollMonthClose, w.handleMonthClose)

	return w, nil
}

// Run serves tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleAutoLogout(ctx context.Context, _ *asynq.Task) error {
	closed, err := w.attendance.AutoClose(ctx, w.cutoff)
	if err != nil {
		w.log.Error("attendance auto-logout failed", "error", err)
		return err
	}
	w.log.Info("attendance auto-logout completed", "closedSessions", closed, "cutoff", w.cutoff)
	return nil
}

func (w *Worker) handleMonthClose(ctx context.Context, task *asynq.Task) error {
	payload, err := ParsePayrollMonthClosePayload(task)
	if err != nil {
		return err
	}

	year, month := payload.Year, time.Month(payload.Month)
	if year == 0 {
		year, month = previousMonth(time.Now().UTC())
	}

	result, err := w.payroll.CloseMonth(ctx, year, month)
	if apperr.Is(err, apperr.KindConflict) {
		// Period already closed; the scheduled run raced a manual close.
		w.log.Info("payroll period already closed", "year", year, "month", int(month))
		return nil
	}
	if err != nil {
		w.log.Error("payroll month close failed", "year", year, "month", int(month), "error", err)
		return err
	}
	w.log.Info("payroll month closed", "year", year, "month", int(month), "entries", result.Entries, "totalCents", result.TotalCents)
	return nil
}

func previousMonth(now time.Time) (int, time.Month) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	previous := firstOfMonth.AddDate(0, 0, -1)
	return previous.Year(), previous.Month()
}
