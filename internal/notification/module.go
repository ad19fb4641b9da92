// Package notification turns domain events into in-app notifications and
// emails. Domain modules publish events and stay unaware of delivery
// channels.
package notification

import (
	"context"
	"fmt"

	"crmhr_backend/internal/email"
	"crmhr_backend/internal/events"
	apphttp "crmhr_backend/internal/http"
	notifhandler "crmhr_backend/internal/notification/handler"
	"crmhr_backend/internal/notification/inapp"
	usersrepo "crmhr_backend/internal/users/repository"
	"crmhr_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Recipient is the contact surface of a user for notification delivery.
type Recipient struct {
	Name  string
	Email string
}

// UserDirectory resolves notification recipients.
type UserDirectory interface {
	Recipient(ctx context.Context, id uuid.UUID) (Recipient, error)
}

// NotificationWriter persists in-app notifications.
type NotificationWriter interface {
	Create(ctx context.Context, params inapp.CreateParams) (inapp.Notification, error)
}

// Module subscribes to domain events and delivers notifications.
type Module struct {
	store   NotificationWriter
	users   UserDirectory
	sender  email.Sender
	handler *notifhandler.Handler
	log     *logger.Logger
}

func New(pool *pgxpool.Pool, users UserDirectory, sender email.Sender, log *logger.Logger) *Module {
	repo := inapp.NewRepository(pool)
	m := newModule(repo, users, sender, log)
	m.handler = notifhandler.New(repo)
	return m
}

func newModule(store NotificationWriter, users UserDirectory, sender email.Sender, log *logger.Logger) *Module {
	return &Module{store: store, users: users, sender: sender, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes mounts the in-app notification routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	if m.handler == nil {
		return
	}
	m.handler.RegisterRoutes(ctx.Protected.Group("/notifications"))
}

// RegisterHandlers subscribes to the domain events this module reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadAssigned{}.EventName(), m)
	bus.Subscribe(events.LeaveDecided{}.EventName(), m)
	bus.Subscribe(events.DocumentReviewed{}.EventName(), m)
	bus.Subscribe(events.AttendanceAutoClosed{}.EventName(), m)
	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the matching delivery method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadAssigned:
		return m.handleLeadAssigned(ctx, e)
	case events.LeaveDecided:
		return m.handleLeaveDecided(ctx, e)
	case events.DocumentReviewed:
		return m.handleDocumentReviewed(ctx, e)
	case events.AttendanceAutoClosed:
		return m.handleAttendanceAutoClosed(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleLeadAssigned(ctx context.Context, e events.LeadAssigned) error {
	recipient, err := m.users.Recipient(ctx, e.AssignedTo)
	if err != nil {
		m.log.Warn("could not resolve lead assignment recipient", "userId", e.AssignedTo, "error", err)
		return nil
	}

	leadID := e.LeadID
	if _, err := m.store.Create(ctx, inapp.CreateParams{
		UserID:     e.AssignedTo,
		Title:      "New lead assigned",
		Content:    fmt.Sprintf("The lead %s has been assigned to you.", e.LeadName),
		Category:   "leads",
		ResourceID: &leadID,
	}); err != nil {
		m.log.Error("failed to store lead assignment notification", "leadId", e.LeadID, "error", err)
		return err
	}

	if err := m.sender.SendLeadAssignedEmail(ctx, recipient.Email, recipient.Name, e.LeadName); err != nil {
		m.log.Error("failed to send lead assignment email", "leadId", e.LeadID, "email", recipient.Email, "error", err)
		return err
	}
	return nil
}

func (m *Module) handleLeaveDecided(ctx context.Context, e events.LeaveDecided) error {
	recipient, err := m.users.Recipient(ctx, e.UserID)
	if err != nil {
		m.log.Warn("could not resolve leave decision recipient", "userId", e.UserID, "error", err)
		return nil
	}

	const dateFormat = "2006-01-02"
	fromDate := e.FromDate.Format(dateFormat)
	toDate := e.ToDate.Format(dateFormat)

	requestID := e.RequestID
	if _, err := m.store.Create(ctx, inapp.CreateParams{
		UserID:     e.UserID,
		Title:      "Leave request " + e.Status,
		Content:    fmt.Sprintf("Your leave request for %s through %s was %s.", fromDate, toDate, e.Status),
		Category:   "leave",
		ResourceID: &requestID,
	}); err != nil {
		m.log.Error("failed to store leave decision notification", "requestId", e.RequestID, "error", err)
		return err
	}

	if err := m.sender.SendLeaveDecidedEmail(ctx, recipient.Email, recipient.Name, e.Status, fromDate, toDate); err != nil {
		m.log.Error("failed to send leave decision email", "requestId", e.RequestID, "email", recipient.Email, "error", err)
		return err
	}
	return nil
}

func (m *Module) handleDocumentReviewed(ctx context.Context, e events.DocumentReviewed) error {
	recipient, err := m.users.Recipient(ctx, e.UserID)
	if err != nil {
		m.log.Warn("could not resolve document review recipient", "userId", e.UserID, "error", err)
		return nil
	}

	documentID := e.DocumentID
	if _, err := m.store.Create(ctx, inapp.CreateParams{
		UserID:     e.UserID,
		Title:      "Document " + e.Status,
		Content:    fmt.Sprintf("Your %s document was %s.", e.Kind, e.Status),
		Category:   "documents",
		ResourceID: &documentID,
	}); err != nil {
		m.log.Error("failed to store document review notification", "documentId", e.DocumentID, "error", err)
		return err
	}

	if err := m.sender.SendDocumentReviewedEmail(ctx, recipient.Email, recipient.Name, e.Kind, e.Status, ""); err != nil {
		m.log.Error("failed to send document review email", "documentId", e.DocumentID, "email", recipient.Email, "error", err)
		return err
	}
	return nil
}

// Auto-closed sessions only get an in-app nudge, no email.
func (m *Module) handleAttendanceAutoClosed(ctx context.Context, e events.AttendanceAutoClosed) error {
	sessionID := e.SessionID
	_, err := m.store.Create(ctx, inapp.CreateParams{
		UserID:     e.UserID,
		Title:      "Automatically clocked out",
		Content:    fmt.Sprintf("You forgot to clock out; your session was closed at %s.", e.ClosedAt.Format("15:04")),
		Category:   "attendance",
		ResourceID: &sessionID,
	})
	if err != nil {
		m.log.Error("failed to store auto clock-out notification", "sessionId", e.SessionID, "error", err)
	}
	return err
}

// NewUserDirectory adapts the users repository to the recipient lookup this
// module needs.
func NewUserDirectory(users *usersrepo.Repository) UserDirectory {
	return &userDirectory{users: users}
}

type userDirectory struct {
	users *usersrepo.Repository
}

func (d *userDirectory) Recipient(ctx context.Context, id uuid.UUID) (Recipient, error) {
	user, err := d.users.GetByID(ctx, id)
	if err != nil {
		return Recipient{}, err
	}
	return Recipient{Name: user.Name, Email: user.Email}, nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
