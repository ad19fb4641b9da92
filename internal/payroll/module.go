// Package payroll provides monthly payroll generation from attendance and
// leave data.
package payroll

import (
	"context"
	"time"

	attendancerepo "crmhr_backend/internal/attendance/repository"
	apphttp "crmhr_backend/internal/http"
	leaverepo "crmhr_backend/internal/leave/repository"
	"crmhr_backend/internal/payroll/handler"
	"crmhr_backend/internal/payroll/repository"
	"crmhr_backend/internal/payroll/service"
	usersrepo "crmhr_backend/internal/users/repository"
	"crmhr_backend/platform/logger"
	"crmhr_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the payroll bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires payroll against the users, attendance and leave stores.
func NewModule(pool *pgxpool.Pool, users *usersrepo.Repository, attendance *attendancerepo.Repository, leave *leaverepo.Repository, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo,
		&staffAdapter{users: users},
		attendance,
		&leaveAdapter{leave: leave},
		log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "payroll"
}

// Service exposes the payroll service for the scheduler's month-close task.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts payroll routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected, ctx.Admin)
}

type staffAdapter struct {
	users *usersrepo.Repository
}

func (a *staffAdapter) ListActivePayees(ctx context.Context) ([]service.Payee, error) {
	users, err := a.users.ListActiveIDsWithSalary(ctx)
	if err != nil {
		return nil, err
	}
	payees := make([]service.Payee, len(users))
	for i, u := range users {
		payees[i] = service.Payee{UserID: u.ID, BaseCents: u.BaseSalaryCents}
	}
	return payees, nil
}

type leaveAdapter struct {
	leave *leaverepo.Repository
}

func (a *leaveAdapter) ApprovedLeaveRanges(ctx context.Context, userID uuid.UUID, from, to time.Time) ([][2]time.Time, error) {
	requests, err := a.leave.ListApprovedInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	ranges := make([][2]time.Time, len(requests))
	for i, r := range requests {
		ranges[i] = [2]time.Time{r.FromDate, r.ToDate}
	}
	return ranges, nil
}

func (a *leaveAdapter) Holidays(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	holidays, err := a.leave.ListHolidays(ctx, from, to)
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, len(holidays))
	for i, h := range holidays {
		dates[i] = h.Date
	}
	return dates, nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
