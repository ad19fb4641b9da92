// Package notes implements the lead note ledger. Notes are append-only:
// the service exposes add and list only, never update or delete.
package notes

import (
	"context"
	"errors"

	"crmhr_backend/internal/leads/repository"
	"crmhr_backend/internal/leads/transport"
	"crmhr_backend/platform/apperr"
	"crmhr_backend/platform/httpkit"

	"github.com/google/uuid"
)

// Store is the repository surface the notes service uses.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	CreateNote(ctx context.Context, leadID, authorID uuid.UUID, body string) (repository.Note, error)
	ListNotes(ctx context.Context, leadID uuid.UUID) ([]repository.Note, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Add appends a note to a lead. Only admins and the lead's current assignee
// may write notes.
func (s *Service) Add(ctx context.Context, caller httpkit.Identity, leadID uuid.UUID, req transport.CreateNoteRequest) (transport.NoteResponse, error) {
	if err := s.requireNoteAccess(ctx, caller, leadID); err != nil {
		return transport.NoteResponse{}, err
	}

	note, err := s.store.CreateNote(ctx, leadID, caller.UserID(), req.Content)
	if err != nil {
		return transport.NoteResponse{}, err
	}
	return transport.NewNoteResponse(note), nil
}

func (s *Service) List(ctx context.Context, caller httpkit.Identity, leadID uuid.UUID) ([]transport.NoteResponse, error) {
	if err := s.requireNoteAccess(ctx, caller, leadID); err != nil {
		return nil, err
	}

	items, err := s.store.ListNotes(ctx, leadID)
	if err != nil {
		return nil, err
	}

	out := make([]transport.NoteResponse, len(items))
	for i, item := range items {
		out[i] = transport.NewNoteResponse(item)
	}
	return out, nil
}

func (s *Service) requireNoteAccess(ctx context.Context, caller httpkit.Identity, leadID uuid.UUID) error {
	lead, err := s.store.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	if err != nil {
		return err
	}

	if caller.IsAdmin() {
		return nil
	}
	if lead.AssignedTo != nil && *lead.AssignedTo == caller.UserID() {
		return nil
	}
	return apperr.Forbidden("only admins or the lead's assignee can access notes")
}
