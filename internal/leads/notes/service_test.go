package notes

import (
	"context"
	"testing"

	"crmhr_backend/internal/leads/repository"
	"crmhr_backend/internal/leads/transport"
	"crmhr_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeStore struct {
	leads map[uuid.UUID]repository.Lead
	notes map[uuid.UUID]repository.Note
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		leads: make(map[uuid.UUID]repository.Lead),
		notes: make(map[uuid.UUID]repository.Note),
	}
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	if lead, ok := f.leads[id]; ok {
		return lead, nil
	}
	return repository.Lead{}, repository.ErrNotFound
}

func (f *fakeStore) CreateNote(_ context.Context, leadID, authorID uuid.UUID, body string) (repository.Note, error) {
	note := repository.Note{ID: uuid.New(), LeadID: leadID, AuthorID: authorID, Body: body}
	f.notes[note.ID] = note
	return note, nil
}

func (f *fakeStore) ListNotes(_ context.Context, leadID uuid.UUID) ([]repository.Note, error) {
	var out []repository.Note
	for _, note := range f.notes {
		if note.LeadID == leadID {
			out = append(out, note)
		}
	}
	return out, nil
}

type testIdentity struct {
	id    uuid.UUID
	admin bool
}

func (t testIdentity) UserID() uuid.UUID     { return t.id }
func (t testIdentity) Role() string          { return map[bool]string{true: "admin", false: "user"}[t.admin] }
func (t testIdentity) IsAdmin() bool         { return t.admin }
func (t testIdentity) IsAuthenticated() bool { return true }

func TestAddNoteAllowedForAssignee(t *testing.T) {
	store := newFakeStore()
	assignee := uuid.New()
	lead := repository.Lead{ID: uuid.New(), AssignedTo: &assignee}
	store.leads[lead.ID] = lead

	svc := NewService(store)
	note, err := svc.Add(context.Background(), testIdentity{id: assignee}, lead.ID, transport.CreateNoteRequest{Content: "called them"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.CreatedBy != assignee || note.Content != "called them" {
		t.Fatalf("unexpected note: %+v", note)
	}
}

func TestAddNoteForbiddenForOtherUser(t *testing.T) {
	store := newFakeStore()
	assignee := uuid.New()
	lead := repository.Lead{ID: uuid.New(), AssignedTo: &assignee}
	store.leads[lead.ID] = lead

	svc := NewService(store)
	_, err := svc.Add(context.Background(), testIdentity{id: uuid.New()}, lead.ID, transport.CreateNoteRequest{Content: "x"})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAddNoteAdminBypassesAssignment(t *testing.T) {
	store := newFakeStore()
	lead := repository.Lead{ID: uuid.New()}
	store.leads[lead.ID] = lead

	svc := NewService(store)
	if _, err := svc.Add(context.Background(), testIdentity{id: uuid.New(), admin: true}, lead.ID, transport.CreateNoteRequest{Content: "x"}); err != nil {
		t.Fatalf("admin should always be able to add notes: %v", err)
	}
}

func TestAddNoteUnknownLead(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.Add(context.Background(), testIdentity{id: uuid.New(), admin: true}, uuid.New(), transport.CreateNoteRequest{Content: "x"})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// The note ledger is append-only: entries written once must come back
// verbatim on every later read, and the service offers no way to change or
// remove them.
func TestNotesLedgerIsAppendOnly(t *testing.T) {
	store := newFakeStore()
	assignee := uuid.New()
	lead := repository.Lead{ID: uuid.New(), AssignedTo: &assignee}
	store.leads[lead.ID] = lead

	svc := NewService(store)
	caller := testIdentity{id: assignee}
	first, err := svc.Add(context.Background(), caller, lead.ID, transport.CreateNoteRequest{Content: "original"})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if _, err := svc.Add(context.Background(), caller, lead.ID, transport.CreateNoteRequest{Content: "follow-up"}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	listed, err := svc.List(context.Background(), caller, lead.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(listed))
	}
	for _, note := range listed {
		if note.ID == first.ID && note.Content != "original" {
			t.Fatalf("ledger entry changed after write: %q", note.Content)
		}
	}
}
