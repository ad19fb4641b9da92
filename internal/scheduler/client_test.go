package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
	queue    string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 2 }

func TestClientEnqueuesTasks(t *testing.T) {
	redis := miniredis.RunT(t)
	cfg := testSchedulerConfig{redisURL: "redis://" + redis.Addr(), queue: "jobs"}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	defer client.Close()

	if err := client.EnqueueAutoLogout(context.Background()); err != nil {
		t.Fatalf("enqueue auto-logout failed: %v", err)
	}
	if err := client.EnqueueMonthClose(context.Background(), 2026, 8); err != nil {
		t.Fatalf("enqueue month close failed: %v", err)
	}

	opt, _, err := connectionSettings(cfg)
	if err != nil {
		t.Fatalf("connection settings failed: %v", err)
	}
	inspector := asynq.NewInspector(opt)
	defer inspector.Close()

	pending, err := inspector.ListPendingTasks("jobs")
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending tasks, got %d", len(pending))
	}

	types := map[string]bool{}
	for _, task := range pending {
		types[task.Type] = true
	}
	if !types[TaskAttendanceAutoLogout] || !types[TaskPayrollMonthClose] {
		t.Fatalf("unexpected task types: %v", types)
	}
}

func TestMonthClosePayloadRoundTrip(t *testing.T) {
	task, err := NewPayrollMonthCloseTask(PayrollMonthClosePayload{Year: 2026, Month: 8})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	payload, err := ParsePayrollMonthClosePayload(task)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if payload.Year != 2026 || payload.Month != 8 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestEmptyMonthClosePayloadMeansPreviousMonth(t *testing.T) {
	payload, err := ParsePayrollMonthClosePayload(NewAttendanceAutoLogoutTask())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if payload.Year != 0 {
		t.Fatalf("empty payload must parse to zero value, got %+v", payload)
	}

	year, month := previousMonth(time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC))
	if year != 2025 || month != time.December {
		t.Fatalf("expected December 2025, got %v %v", year, month)
	}
}

func TestRedisClientOptRejectsBadURL(t *testing.T) {
	if _, err := redisClientOpt("not-a-redis-url", false); err == nil {
		t.Fatalf("expected error for invalid redis url")
	}
}
