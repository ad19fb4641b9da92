// Package leads provides the lead management bounded context module:
// CRUD, filtering, assignment history, notes, duplicate quarantine and the
// import reconciliation engine.
package leads

import (
	"context"
	"net/http"

	"crmhr_backend/internal/events"
	apphttp "crmhr_backend/internal/http"
	"crmhr_backend/internal/leads/handler"
	"crmhr_backend/internal/leads/importer"
	"crmhr_backend/internal/leads/management"
	"crmhr_backend/internal/leads/notes"
	"crmhr_backend/internal/leads/repository"
	usersservice "crmhr_backend/internal/users/service"
	"crmhr_backend/platform/apperr"
	"crmhr_backend/platform/logger"
	"crmhr_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	importHandler *handler.ImportHandler
	notesHandler  *handler.NotesHandler
}

// NewModule wires the leads module. The users service supplies assignee
// resolution for both manual assignment and row-based import assignment.
func NewModule(pool *pgxpool.Pool, users *usersservice.Service, bus events.Bus, log *logger.Logger, val *validator.Validator, sheetClient *http.Client) *Module {
	repo := repository.New(pool)
	directory := &userDirectory{users: users}

	engine := importer.NewService(repo, directory, log)
	importSvc := management.NewImportService(engine, importer.NewSheetFetcher(sheetClient), bus)

	svc := management.NewService(repo, directory, bus, log)
	notesSvc := notes.NewService(repo)

	return &Module{
		handler:       handler.New(svc, val),
		importHandler: handler.NewImportHandler(importSvc),
		notesHandler:  handler.NewNotesHandler(notesSvc),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes mounts lead, note and import routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected, ctx.Admin)
	m.notesHandler.RegisterRoutes(ctx.Protected)
	m.importHandler.RegisterRoutes(ctx.Admin)
}

// userDirectory adapts the users service to the narrow interfaces the lead
// services depend on.
type userDirectory struct {
	users *usersservice.Service
}

func (d *userDirectory) IsActiveUser(ctx context.Context, id uuid.UUID) (bool, error) {
	user, err := d.users.Get(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsActive, nil
}

// ResolveByName maps a free-text assignee name from an import row to an
// active user id. Unresolved names are not errors.
func (d *userDirectory) ResolveByName(ctx context.Context, name string) (*uuid.UUID, error) {
	user, err := d.users.ResolveAssigneeByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return &user.ID, nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
