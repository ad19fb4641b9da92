package notification

import (
	"context"
	"testing"
	"time"

	"crmhr_backend/internal/events"
	"crmhr_backend/internal/notification/inapp"
	"crmhr_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	created []inapp.CreateParams
}

func (f *fakeStore) Create(_ context.Context, params inapp.CreateParams) (inapp.Notification, error) {
	f.created = append(f.created, params)
	return inapp.Notification{ID: uuid.New(), UserID: params.UserID, Title: params.Title}, nil
}

type fakeDirectory struct {
	recipients map[uuid.UUID]Recipient
}

func (f fakeDirectory) Recipient(_ context.Context, id uuid.UUID) (Recipient, error) {
	r, ok := f.recipients[id]
	if !ok {
		return Recipient{}, context.Canceled
	}
	return r, nil
}

type recordingSender struct {
	leadEmails     []string
	leaveEmails    []string
	documentEmails []string
	welcomeEmails  []string
}

func (s *recordingSender) SendWelcomeEmail(_ context.Context, toEmail, _, _ string) error {
	s.welcomeEmails = append(s.welcomeEmails, toEmail)
	return nil
}

func (s *recordingSender) SendLeadAssignedEmail(_ context.Context, toEmail, _, _ string) error {
	s.leadEmails = append(s.leadEmails, toEmail)
	return nil
}

func (s *recordingSender) SendLeaveDecidedEmail(_ context.Context, toEmail, _, _, _, _ string) error {
	s.leaveEmails = append(s.leaveEmails, toEmail)
	return nil
}

func (s *recordingSender) SendDocumentReviewedEmail(_ context.Context, toEmail, _, _, _, _ string) error {
	s.documentEmails = append(s.documentEmails, toEmail)
	return nil
}

func TestLeadAssignedNotifiesAssignee(t *testing.T) {
	store := &fakeStore{}
	sender := &recordingSender{}
	assignee := uuid.New()
	m := newModule(store, fakeDirectory{recipients: map[uuid.UUID]Recipient{
		assignee: {Name: "Alice", Email: "alice@example.com"},
	}}, sender, logger.New("test"))

	err := m.Handle(context.Background(), events.LeadAssigned{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     uuid.New(),
		LeadName:   "Acme Corp",
		AssignedTo: assignee,
		AssignedBy: uuid.New(),
		Source:     "Manual",
	})
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(store.created) != 1 || store.created[0].UserID != assignee {
		t.Fatalf("expected one in-app notification for assignee, got %+v", store.created)
	}
	if len(sender.leadEmails) != 1 || sender.leadEmails[0] != "alice@example.com" {
		t.Fatalf("expected email to assignee, got %v", sender.leadEmails)
	}
}

func TestUnresolvableRecipientIsSkippedQuietly(t *testing.T) {
	store := &fakeStore{}
	sender := &recordingSender{}
	m := newModule(store, fakeDirectory{}, sender, logger.New("test"))

	err := m.Handle(context.Background(), events.LeaveDecided{
		BaseEvent: events.NewBaseEvent(),
		RequestID: uuid.New(),
		UserID:    uuid.New(),
		Status:    "approved",
		FromDate:  time.Now(),
		ToDate:    time.Now(),
	})
	if err != nil {
		t.Fatalf("missing recipient must not fail the handler: %v", err)
	}
	if len(store.created) != 0 || len(sender.leaveEmails) != 0 {
		t.Fatalf("nothing should be delivered for an unknown recipient")
	}
}

func TestDocumentReviewedDeliversBothChannels(t *testing.T) {
	store := &fakeStore{}
	sender := &recordingSender{}
	user := uuid.New()
	m := newModule(store, fakeDirectory{recipients: map[uuid.UUID]Recipient{
		user: {Name: "Bob", Email: "bob@example.com"},
	}}, sender, logger.New("test"))

	err := m.Handle(context.Background(), events.DocumentReviewed{
		BaseEvent:  events.NewBaseEvent(),
		DocumentID: uuid.New(),
		UserID:     user,
		ReviewedBy: uuid.New(),
		Kind:       "IdProof",
		Status:     "Verified",
	})
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one in-app notification, got %d", len(store.created))
	}
	if len(sender.documentEmails) != 1 {
		t.Fatalf("expected one email, got %d", len(sender.documentEmails))
	}
}

func TestAutoClockOutIsInAppOnly(t *testing.T) {
	store := &fakeStore{}
	sender := &recordingSender{}
	user := uuid.New()
	m := newModule(store, fakeDirectory{recipients: map[uuid.UUID]Recipient{
		user: {Name: "Cara", Email: "cara@example.com"},
	}}, sender, logger.New("test"))

	err := m.Handle(context.Background(), events.AttendanceAutoClosed{
		BaseEvent: events.NewBaseEvent(),
		SessionID: uuid.New(),
		UserID:    user,
		ClosedAt:  time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one in-app notification, got %d", len(store.created))
	}
	if len(sender.leadEmails)+len(sender.leaveEmails)+len(sender.documentEmails) != 0 {
		t.Fatalf("auto clock-out must not send email")
	}
}
