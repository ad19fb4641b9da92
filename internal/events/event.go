// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"crmhr_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadAssigned is published when a single lead is assigned to a user. Bulk
// assignment and import runs do not fan out per-lead events.
type LeadAssigned struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	LeadName   string    `json:"leadName"`
	AssignedTo uuid.UUID `json:"assignedTo"`
	AssignedBy uuid.UUID `json:"assignedBy"`
	Source     string    `json:"source"` // Manual, Bulk, Import, Reimport, System
}

func (e LeadAssigned) EventName() string { return "leads.assigned" }

// LeadImportCompleted is published after an import run finishes.
type LeadImportCompleted struct {
	BaseEvent
	RunBy          uuid.UUID `json:"runBy"`
	SourceKind     string    `json:"sourceKind"` // upload, sheet
	InsertedCount  int       `json:"insertedCount"`
	UpdatedCount   int       `json:"updatedCount"`
	DuplicateCount int       `json:"duplicateCount"`
}

func (e LeadImportCompleted) EventName() string { return "leads.import.completed" }

// =============================================================================
// Leave Domain Events
// =============================================================================

// LeaveDecided is published when an admin approves or rejects a leave request.
type LeaveDecided struct {
	BaseEvent
	RequestID uuid.UUID `json:"requestId"`
	UserID    uuid.UUID `json:"userId"`
	DecidedBy uuid.UUID `json:"decidedBy"`
	Status    string    `json:"status"` // approved, rejected
	FromDate  time.Time `json:"fromDate"`
	ToDate    time.Time `json:"toDate"`
}

func (e LeaveDecided) EventName() string { return "leave.decided" }

// =============================================================================
// Documents Domain Events
// =============================================================================

// DocumentReviewed is published when an admin verifies or rejects an
// employee document.
type DocumentReviewed struct {
	BaseEvent
	DocumentID uuid.UUID `json:"documentId"`
	UserID     uuid.UUID `json:"userId"`
	ReviewedBy uuid.UUID `json:"reviewedBy"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"` // Verified, Rejected
}

func (e DocumentReviewed) EventName() string { return "documents.reviewed" }

// =============================================================================
// Attendance Domain Events
// =============================================================================

// AttendanceAutoClosed is published when the auto-logout job closes a session
// the user forgot to clock out of.
type AttendanceAutoClosed struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	UserID    uuid.UUID `json:"userId"`
	ClosedAt  time.Time `json:"closedAt"`
}

func (e AttendanceAutoClosed) EventName() string { return "attendance.auto_closed" }
