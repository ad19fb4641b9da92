// Package documents provides employee document upload, storage and
// verification.
package documents

import (
	"context"
	"fmt"

	"crmhr_backend/internal/adapters/storage"
	"crmhr_backend/internal/documents/handler"
	"crmhr_backend/internal/documents/repository"
	"crmhr_backend/internal/documents/service"
	"crmhr_backend/internal/events"
	apphttp "crmhr_backend/internal/http"
	"crmhr_backend/platform/config"
	"crmhr_backend/platform/logger"
	"crmhr_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the documents bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the documents module against MinIO. It fails when MinIO is
// not configured or the bucket cannot be prepared, so callers can leave the
// module out instead of serving broken endpoints.
func NewModule(ctx context.Context, pool *pgxpool.Pool, cfg config.MinIOConfig, bus events.Bus, log *logger.Logger, val *validator.Validator) (*Module, error) {
	store, err := storage.NewMinIOStore(cfg)
	if err != nil {
		return nil, err
	}

	bucket := cfg.GetMinioBucketEmployeeDocuments()
	if err := store.EnsureBucket(ctx, bucket); err != nil {
		return nil, fmt.Errorf("prepare documents bucket: %w", err)
	}

	repo := repository.New(pool)
	svc := service.New(repo, store, bucket, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "documents"
}

// RegisterRoutes mounts document routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected, ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
