// Package leave provides the leave request and holiday calendar module.
package leave

import (
	"crmhr_backend/internal/events"
	apphttp "crmhr_backend/internal/http"
	"crmhr_backend/internal/leave/handler"
	"crmhr_backend/internal/leave/repository"
	"crmhr_backend/internal/leave/service"
	"crmhr_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leave bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	repository *repository.Repository
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus)
	h := handler.New(svc, val)

	return &Module{handler: h, repository: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leave"
}

// Repository exposes the leave repository for payroll aggregation.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes mounts leave routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected, ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
