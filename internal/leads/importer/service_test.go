package importer

import (
	"context"
	"strings"
	"testing"

	"crmhr_backend/internal/leads/domain"
	"crmhr_backend/internal/leads/repository"
	"crmhr_backend/platform/apperr"
	"crmhr_backend/platform/logger"

	"github.com/google/uuid"
)

type historyEntry struct {
	leadID     uuid.UUID
	assignedTo uuid.UUID
	source     domain.HistorySource
}

type fakeStore struct {
	leads      []repository.Lead
	history    []historyEntry
	duplicates map[uuid.UUID]repository.UpsertDuplicateParams
}

func newFakeStore() *fakeStore {
	return &fakeStore{duplicates: make(map[uuid.UUID]repository.UpsertDuplicateParams)}
}

func (f *fakeStore) FindByEmailOrPhone(_ context.Context, email, phoneNumber string) (repository.Lead, error) {
	for _, l := range f.leads {
		if strings.EqualFold(l.Email, email) || l.Phone == phoneNumber {
			return l, nil
		}
	}
	return repository.Lead{}, repository.ErrNotFound
}

func (f *fakeStore) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	lead := repository.Lead{
		ID:         uuid.New(),
		Name:       params.Name,
		Email:      strings.ToLower(params.Email),
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
	f.leads = append(f.leads, lead)
	return lead, nil
}

func (f *fakeStore) SetFolder(_ context.Context, id uuid.UUID, folder string) error {
	for i := range f.leads {
		if f.leads[i].ID == id {
			f.leads[i].Folder = folder
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeStore) Assign(_ context.Context, leadID, assignedTo, assignedBy uuid.UUID, source domain.HistorySource) error {
	for i := range f.leads {
		if f.leads[i].ID == leadID {
			f.leads[i].AssignedTo = &assignedTo
			f.leads[i].AssignedBy = &assignedBy
			f.history = append(f.history, historyEntry{leadID: leadID, assignedTo: assignedTo, source: source})
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeStore) AppendHistory(_ context.Context, leadID, assignedTo uuid.UUID, _ *uuid.UUID, source domain.HistorySource) error {
	f.history = append(f.history, historyEntry{leadID: leadID, assignedTo: assignedTo, source: source})
	return nil
}

func (f *fakeStore) UpsertDuplicate(_ context.Context, params repository.UpsertDuplicateParams) (repository.DuplicateLead, error) {
	f.duplicates[params.ExistingLeadID] = params
	return repository.DuplicateLead{ID: uuid.New(), ExistingLeadID: params.ExistingLeadID, Reason: params.Reason}, nil
}

func (f *fakeStore) historyFor(leadID uuid.UUID) []historyEntry {
	var out []historyEntry
	for _, h := range f.history {
		if h.leadID == leadID {
			out = append(out, h)
		}
	}
	return out
}

type fakeResolver struct {
	users map[string]uuid.UUID
}

func (f fakeResolver) ResolveByName(_ context.Context, name string) (*uuid.UUID, error) {
	if id, ok := f.users[strings.ToLower(name)]; ok {
		return &id, nil
	}
	return nil, nil
}

func newTestService(store *fakeStore, resolver fakeResolver) *Service {
	return NewService(store, resolver, logger.New("test"))
}

func row(name, email, phoneNumber string, extra ...string) Row {
	r := Row{"name": name, "email": email, "phone": phoneNumber}
	for i := 0; i+1 < len(extra); i += 2 {
		r[extra[i]] = extra[i+1]
	}
	return r
}

func TestRunInsertsFreshRows(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, fakeResolver{})

	summary, err := svc.Run(context.Background(), uuid.New(), []Row{
		row("A", "a@x.com", "111111"),
		row("B", "b@x.com", "222222"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.InsertedCount != 2 || summary.UpdatedCount != 0 || summary.DuplicateCount != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(store.leads) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(store.leads))
	}
	for _, l := range store.leads {
		if l.Status != domain.StatusNew || l.Source != string(domain.SourceImport) || l.Priority != string(domain.PriorityMedium) {
			t.Fatalf("unexpected defaults on inserted lead: %+v", l)
		}
	}
	if len(store.history) != 0 {
		t.Fatalf("unassigned inserts must not write history, got %d entries", len(store.history))
	}
}

func TestRunInsertWithResolvedAssigneeWritesImportHistory(t *testing.T) {
	store := newFakeStore()
	jane := uuid.New()
	svc := newTestService(store, fakeResolver{users: map[string]uuid.UUID{"jane": jane}})

	summary, err := svc.Run(context.Background(), uuid.New(), []Row{
		row("A", "a@x.com", "111111", "assignedto", "Jane"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.InsertedCount != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	lead := store.leads[0]
	if lead.AssignedTo == nil || *lead.AssignedTo != jane {
		t.Fatalf("expected lead assigned to jane, got %+v", lead.AssignedTo)
	}
	entries := store.historyFor(lead.ID)
	if len(entries) != 1 || entries[0].source != domain.HistoryImport {
		t.Fatalf("expected one Import history entry, got %+v", entries)
	}
}

func TestRunAssignsUnassignedExistingLead(t *testing.T) {
	store := newFakeStore()
	existing, _ := store.Create(context.Background(), repository.CreateLeadParams{
		Name: "A", Email: "a@x.com", Phone: "111111",
	})
	jane := uuid.New()
	svc := newTestService(store, fakeResolver{users: map[string]uuid.UUID{"jane": jane}})

	summary, err := svc.Run(context.Background(), uuid.New(), []Row{
		row("A2", "a@x.com", "999999", "assignedto", "Jane"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.UpdatedCount != 1 || summary.InsertedCount != 0 || summary.DuplicateCount != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	updated := store.leads[0]
	if updated.Folder != domain.FolderDuplicate {
		t.Fatalf("expected folder marker on touched lead, got %q", updated.Folder)
	}
	if updated.AssignedTo == nil || *updated.AssignedTo != jane {
		t.Fatalf("expected assignment to jane, got %+v", updated.AssignedTo)
	}
	entries := store.historyFor(existing.ID)
	if len(entries) != 1 || entries[0].source != domain.HistoryImport {
		t.Fatalf("expected one Import history entry, got %+v", entries)
	}
}

func TestRunReimportReaffirmsCurrentAssignee(t *testing.T) {
	store := newFakeStore()
	bob := uuid.New()
	existing, _ := store.Create(context.Background(), repository.CreateLeadParams{
		Name: "A", Email: "a@x.com", Phone: "111111", AssignedTo: &bob,
	})
	jane := uuid.New()
	svc := newTestService(store, fakeResolver{users: map[string]uuid.UUID{"jane": jane}})

	summary, err := svc.Run(context.Background(), uuid.New(), []Row{
		row("A2", "a@x.com", "999999", "assignedto", "Jane"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.UpdatedCount != 1 || summary.DuplicateCount != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	entries := store.historyFor(existing.ID)
	if len(entries) != 1 || entries[0].source != domain.HistoryReimport {
		t.Fatalf("expected one Reimport entry, got %+v", entries)
	}
	if entries[0].assignedTo != bob {
		t.Fatalf("reimport must re-affirm bob, got %v", entries[0].assignedTo)
	}
	if len(store.duplicates) != 0 {
		t.Fatalf("assigned lead must not be quarantined")
	}
}

func TestRunFailsFastOnMissingRequiredField(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, fakeResolver{})

	_, err := svc.Run(context.Background(), uuid.New(), []Row{
		row("A", "a@x.com", "111111"),
		row("B", "b@x.com", ""),
		row("C", "c@x.com", "333333"),
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "row 3") || !strings.Contains(msg, "phone") {
		t.Fatalf("error must name the row and field: %q", msg)
	}
	// Rows before the failing one stay committed, rows after it are never
	// processed.
	if len(store.leads) != 1 || store.leads[0].Email != "a@x.com" {
		t.Fatalf("expected only the first row committed, got %+v", store.leads)
	}
}

func TestRunSharedPhoneWithinBatchNeverDoubleInserts(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, fakeResolver{})

	summary, err := svc.Run(context.Background(), uuid.New(), []Row{
		row("A", "a@x.com", "555555"),
		row("B", "b@x.com", "555555"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.InsertedCount != 1 || summary.DuplicateCount != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(store.leads) != 1 {
		t.Fatalf("expected a single lead, got %d", len(store.leads))
	}
	if summary.DuplicateLeads[0].Reason != string(domain.ReasonPhoneExists) {
		t.Fatalf("expected PHONE_EXISTS, got %q", summary.DuplicateLeads[0].Reason)
	}
	if summary.DuplicateLeads[0].Row != 3 {
		t.Fatalf("duplicate record should carry source row number, got %d", summary.DuplicateLeads[0].Row)
	}
}

func TestRunQuarantineUpsertsByExistingLead(t *testing.T) {
	store := newFakeStore()
	existing, _ := store.Create(context.Background(), repository.CreateLeadParams{
		Name: "A", Email: "a@x.com", Phone: "111111",
	})
	svc := newTestService(store, fakeResolver{})

	batch := []Row{row("A2", "a@x.com", "111111")}
	for i := 0; i < 3; i++ {
		if _, err := svc.Run(context.Background(), uuid.New(), batch); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}

	if len(store.duplicates) != 1 {
		t.Fatalf("expected exactly one quarantine record per existing lead, got %d", len(store.duplicates))
	}
	record := store.duplicates[existing.ID]
	if record.Reason != domain.ReasonEmailPhoneExists {
		t.Fatalf("expected EMAIL_PHONE_EXISTS, got %q", record.Reason)
	}
}

// The quarantine snapshot must carry the whole source row, including columns
// the importer itself has no use for, so nothing from the colliding row is
// lost to triage.
func TestRunQuarantineCapturesWholeSourceRow(t *testing.T) {
	store := newFakeStore()
	existing, _ := store.Create(context.Background(), repository.CreateLeadParams{
		Name: "A", Email: "a@x.com", Phone: "111111",
	})
	svc := newTestService(store, fakeResolver{})

	_, err := svc.Run(context.Background(), uuid.New(), []Row{
		row("A2", "a@x.com", "111111",
			"assignedto", "Jane",
			"campaign", "spring-fair",
			"referral", "booth 12"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record := store.duplicates[existing.ID]
	if record.OriginalData == nil {
		t.Fatalf("quarantine record lost the source row")
	}
	for key, want := range map[string]string{
		"name":       "A2",
		"assignedto": "Jane",
		"campaign":   "spring-fair",
		"referral":   "booth 12",
	} {
		if got := record.OriginalData[key]; got != want {
			t.Fatalf("snapshot[%q] = %q, want %q", key, got, want)
		}
	}
}

func TestRunSecondPassNeverInserts(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, fakeResolver{})
	batch := []Row{
		row("A", "a@x.com", "111111"),
		row("B", "b@x.com", "222222"),
	}

	first, err := svc.Run(context.Background(), uuid.New(), batch)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := svc.Run(context.Background(), uuid.New(), batch)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if first.InsertedCount != 2 {
		t.Fatalf("unexpected first summary: %+v", first)
	}
	if second.InsertedCount != 0 || second.DuplicateCount != 2 {
		t.Fatalf("second run must not insert: %+v", second)
	}
	if len(store.leads) != 2 {
		t.Fatalf("expected 2 leads after both runs, got %d", len(store.leads))
	}
}

func TestClassifyDuplicateReasonCodes(t *testing.T) {
	lead := repository.Lead{Email: "a@x.com", Phone: "111111"}
	cases := []struct {
		row  Row
		want domain.DuplicateReason
	}{
		{row("A", "a@x.com", "999999"), domain.ReasonEmailExists},
		{row("A", "other@x.com", "111111"), domain.ReasonPhoneExists},
		{row("A", "a@x.com", "111111"), domain.ReasonEmailPhoneExists},
	}
	for _, tc := range cases {
		if got := classifyDuplicate(lead, tc.row); got != tc.want {
			t.Fatalf("classifyDuplicate(%v) = %q, want %q", tc.row, got, tc.want)
		}
	}
}
