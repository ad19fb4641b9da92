// Package auth provides the authentication bounded context module.
package auth

import (
	"crmhr_backend/internal/auth/handler"
	"crmhr_backend/internal/auth/repository"
	"crmhr_backend/internal/auth/service"
	apphttp "crmhr_backend/internal/http"
	"crmhr_backend/platform/config"
	"crmhr_backend/platform/logger"
	"crmhr_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/auth")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	protected := ctx.Protected.Group("/auth")
	m.handler.RegisterRoutes(public, protected)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
