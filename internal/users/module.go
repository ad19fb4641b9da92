// Package users provides the user administration bounded context module.
package users

import (
	apphttp "crmhr_backend/internal/http"
	"crmhr_backend/internal/users/handler"
	"crmhr_backend/internal/users/repository"
	"crmhr_backend/internal/users/service"
	"crmhr_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the users bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule creates and initializes the users module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repository: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "users"
}

// Service returns the users service for external use (import assignee resolution).
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes the users repository for payroll and notification wiring.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes mounts user administration routes on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/users"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
