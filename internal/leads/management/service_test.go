package management

import (
	"context"
	"testing"

	"crmhr_backend/internal/events"
	"crmhr_backend/internal/leads/domain"
	"crmhr_backend/internal/leads/repository"
	"crmhr_backend/internal/leads/scoring"
	"crmhr_backend/internal/leads/transport"
	"crmhr_backend/platform/apperr"
	"crmhr_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	leads        map[uuid.UUID]repository.Lead
	history      []domain.HistorySource
	lastFilter   repository.ListFilter
	lastRestrict *uuid.UUID
	conflict     bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{leads: make(map[uuid.UUID]repository.Lead)}
}

func (f *fakeStore) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	if f.conflict {
		return repository.Lead{}, repository.ErrIdentityConflict
	}
	lead := repository.Lead{
		ID:         uuid.New(),
		Name:       params.Name,
		Email:      params.Email,
		Phone:      params.Phone,
		Position:   params.Position,
		Status:     params.Status,
		Source:     params.Source,
		Priority:   params.Priority,
		Folder:     params.Folder,
		LeadScore:  params.LeadScore,
		AssignedTo: params.AssignedTo,
		AssignedBy: params.AssignedBy,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	if lead, ok := f.leads[id]; ok {
		return lead, nil
	}
	return repository.Lead{}, repository.ErrNotFound
}

func (f *fakeStore) List(_ context.Context, filter repository.ListFilter) ([]repository.Lead, int, error) {
	f.lastFilter = filter
	out := make([]repository.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		out = append(out, lead)
	}
	return out, len(out), nil
}

func (f *fakeStore) Update(_ context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	if params.Name != nil {
		lead.Name = *params.Name
	}
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeStore) SetStatus(_ context.Context, id uuid.UUID, status string, score int) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Status = status
	lead.LeadScore = score
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeStore) BulkSetStatus(_ context.Context, ids []uuid.UUID, status string, score int) (int, error) {
	affected := 0
	for _, id := range ids {
		if lead, ok := f.leads[id]; ok {
			lead.Status = status
			lead.LeadScore = score
			f.leads[id] = lead
			affected++
		}
	}
	return affected, nil
}

func (f *fakeStore) Assign(_ context.Context, leadID, assignedTo, assignedBy uuid.UUID, source domain.HistorySource) error {
	lead, ok := f.leads[leadID]
	if !ok {
		return repository.ErrNotFound
	}
	lead.AssignedTo = &assignedTo
	lead.AssignedBy = &assignedBy
	f.leads[leadID] = lead
	f.history = append(f.history, source)
	return nil
}

func (f *fakeStore) AppendHistory(_ context.Context, _, _ uuid.UUID, _ *uuid.UUID, source domain.HistorySource) error {
	f.history = append(f.history, source)
	return nil
}

func (f *fakeStore) BulkAssign(_ context.Context, ids []uuid.UUID, assignedTo, assignedBy uuid.UUID) (int, error) {
	affected := 0
	for _, id := range ids {
		if lead, ok := f.leads[id]; ok {
			lead.AssignedTo = &assignedTo
			lead.AssignedBy = &assignedBy
			f.leads[id] = lead
			affected++
		}
	}
	return affected, nil
}

func (f *fakeStore) BulkUnassign(_ context.Context, ids []uuid.UUID) (int, error) {
	affected := 0
	for _, id := range ids {
		if lead, ok := f.leads[id]; ok {
			lead.AssignedTo = nil
			lead.AssignedBy = nil
			f.leads[id] = lead
			affected++
		}
	}
	return affected, nil
}

func (f *fakeStore) ListHistory(_ context.Context, _ uuid.UUID) ([]repository.AssignmentHistory, error) {
	return nil, nil
}

func (f *fakeStore) ListDuplicates(_ context.Context, _, _ int) ([]repository.DuplicateLead, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) DeleteDuplicate(_ context.Context, _ uuid.UUID) error {
	return repository.ErrNotFound
}

func (f *fakeStore) CountByColumn(_ context.Context, column string, restrictTo *uuid.UUID) (map[string]int, error) {
	f.lastRestrict = restrictTo
	return map[string]int{"New": 2}, nil
}

type fakeDirectory struct {
	active map[uuid.UUID]bool
}

func (f *fakeDirectory) IsActiveUser(_ context.Context, id uuid.UUID) (bool, error) {
	return f.active[id], nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

type testIdentity struct {
	id    uuid.UUID
	admin bool
}

func (t testIdentity) UserID() uuid.UUID     { return t.id }
func (t testIdentity) Role() string          { return map[bool]string{true: "admin", false: "user"}[t.admin] }
func (t testIdentity) IsAdmin() bool         { return t.admin }
func (t testIdentity) IsAuthenticated() bool { return true }

func newTestService(store *fakeStore, users *fakeDirectory, bus *recordingBus) *Service {
	return NewService(store, users, bus, logger.New("development"))
}

func TestCreateAssignedLeadRecordsHistoryAndPublishes(t *testing.T) {
	store := newFakeStore()
	assignee := uuid.New()
	users := &fakeDirectory{active: map[uuid.UUID]bool{assignee: true}}
	bus := &recordingBus{}
	svc := newTestService(store, users, bus)
	admin := testIdentity{id: uuid.New(), admin: true}

	lead, err := svc.Create(context.Background(), admin, transport.CreateLeadRequest{
		Name:       "Jordan Vries",
		Email:      "jordan@example.com",
		Phone:      "+31612345678",
		AssignedTo: &assignee,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if lead.Status != domain.StatusNew || lead.LeadScore != scoring.Score(domain.StatusNew) {
		t.Fatalf("unexpected status/score: %q %d", lead.Status, lead.LeadScore)
	}
	if len(store.history) != 1 || store.history[0] != domain.HistoryManual {
		t.Fatalf("expected one Manual history entry, got %v", store.history)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.published))
	}
	assigned, ok := bus.published[0].(events.LeadAssigned)
	if !ok || assigned.AssignedTo != assignee {
		t.Fatalf("unexpected event: %+v", bus.published[0])
	}
}

func TestCreateRejectsInvalidPriority(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeDirectory{}, &recordingBus{})
	_, err := svc.Create(context.Background(), testIdentity{admin: true}, transport.CreateLeadRequest{
		Name: "x", Email: "x@example.com", Phone: "+31612345678", Priority: "Urgent",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateDuplicateIdentityIsConflict(t *testing.T) {
	store := newFakeStore()
	store.conflict = true
	svc := newTestService(store, &fakeDirectory{}, &recordingBus{})
	_, err := svc.Create(context.Background(), testIdentity{admin: true}, transport.CreateLeadRequest{
		Name: "x", Email: "x@example.com", Phone: "+31612345678",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestListPinsNonAdminToOwnAssignments(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeDirectory{}, &recordingBus{})
	me := uuid.New()

	if _, _, err := svc.List(context.Background(), testIdentity{id: me}, repository.ListFilter{}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if store.lastFilter.RestrictTo == nil || *store.lastFilter.RestrictTo != me {
		t.Fatalf("non-admin filter must be pinned to the caller, got %v", store.lastFilter.RestrictTo)
	}

	if _, _, err := svc.List(context.Background(), testIdentity{id: me, admin: true}, repository.ListFilter{}); err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if store.lastFilter.RestrictTo != nil {
		t.Fatalf("admin filter must not be pinned")
	}
}

func TestGetForbiddenForOtherUsersLead(t *testing.T) {
	store := newFakeStore()
	other := uuid.New()
	lead := repository.Lead{ID: uuid.New(), AssignedTo: &other}
	store.leads[lead.ID] = lead
	svc := newTestService(store, &fakeDirectory{}, &recordingBus{})

	if _, err := svc.Get(context.Background(), testIdentity{id: uuid.New()}, lead.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), testIdentity{id: other}, lead.ID); err != nil {
		t.Fatalf("assignee must see own lead: %v", err)
	}
}

func TestAssignRejectsInactiveUser(t *testing.T) {
	store := newFakeStore()
	lead := repository.Lead{ID: uuid.New()}
	store.leads[lead.ID] = lead
	svc := newTestService(store, &fakeDirectory{active: map[uuid.UUID]bool{}}, &recordingBus{})

	_, err := svc.Assign(context.Background(), testIdentity{id: uuid.New(), admin: true}, lead.ID, uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for inactive assignee, got %v", err)
	}
}

func TestBulkAssignSkipsHistory(t *testing.T) {
	store := newFakeStore()
	assignee := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	for _, id := range ids {
		store.leads[id] = repository.Lead{ID: id}
	}
	bus := &recordingBus{}
	svc := newTestService(store, &fakeDirectory{active: map[uuid.UUID]bool{assignee: true}}, bus)

	result, err := svc.BulkAssign(context.Background(), testIdentity{id: uuid.New(), admin: true}, transport.BulkAssignRequest{
		LeadIDs: ids,
		UserID:  assignee,
	})
	if err != nil {
		t.Fatalf("bulk assign failed: %v", err)
	}
	if result.Affected != 2 {
		t.Fatalf("expected 2 affected, got %d", result.Affected)
	}
	if len(store.history) != 0 {
		t.Fatalf("bulk assign must not write history, got %v", store.history)
	}
	if len(bus.published) != 0 {
		t.Fatalf("bulk assign must not publish per-lead events, got %d", len(bus.published))
	}
}

func TestUpdateStatusRecomputesScore(t *testing.T) {
	store := newFakeStore()
	lead := repository.Lead{ID: uuid.New(), Status: domain.StatusNew, LeadScore: scoring.Score(domain.StatusNew)}
	store.leads[lead.ID] = lead
	svc := newTestService(store, &fakeDirectory{}, &recordingBus{})

	updated, err := svc.UpdateStatus(context.Background(), testIdentity{id: uuid.New(), admin: true}, lead.ID, "Qualified")
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.LeadScore != scoring.Score("Qualified") {
		t.Fatalf("score not recomputed: got %d want %d", updated.LeadScore, scoring.Score("Qualified"))
	}
}

func TestDashboardRestrictsNonAdmin(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeDirectory{}, &recordingBus{})
	me := uuid.New()

	if _, err := svc.Dashboard(context.Background(), testIdentity{id: me}); err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if store.lastRestrict == nil || *store.lastRestrict != me {
		t.Fatalf("non-admin dashboard must be restricted to the caller")
	}
}
