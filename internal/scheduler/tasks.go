// Package scheduler runs background jobs over asynq: the attendance
// auto-logout sweep and the monthly payroll close.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// TaskAttendanceAutoLogout closes open attendance sessions past the cutoff.
	TaskAttendanceAutoLogout = "attendance.autologout"

	// TaskPayrollMonthClose generates payroll entries for a period. An empty
	// payload means the previous calendar month.
	TaskPayrollMonthClose = "payroll.monthclose"
)

type PayrollMonthClosePayload struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func NewAttendanceAutoLogoutTask() *asynq.Task {
	return asynq.NewTask(TaskAttendanceAutoLogout, nil)
}

func NewPayrollMonthCloseTask(payload PayrollMonthClosePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPayrollMonthClose, data), nil
}

func ParsePayrollMonthClosePayload(task *asynq.Task) (PayrollMonthClosePayload, error) {
	if len(task.Payload()) == 0 {
		return PayrollMonthClosePayload{}, nil
	}
	var payload PayrollMonthClosePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return PayrollMonthClosePayload{}, err
	}
	return payload, nil
}
