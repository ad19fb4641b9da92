// Package attendance provides geofenced clock-in/out, office management and
// the auto-logout reconciliation used by the scheduler.
package attendance

import (
	"crmhr_backend/internal/attendance/handler"
	"crmhr_backend/internal/attendance/repository"
	"crmhr_backend/internal/attendance/service"
	"crmhr_backend/internal/events"
	apphttp "crmhr_backend/internal/http"
	"crmhr_backend/platform/logger"
	"crmhr_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the attendance bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repository: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "attendance"
}

// Service exposes the attendance service for the scheduler's auto-logout
// task and for payroll's worked-day aggregation.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes the attendance repository for payroll aggregation.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes mounts attendance routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected, ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
