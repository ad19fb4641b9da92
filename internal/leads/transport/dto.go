// Package transport defines the request and response shapes of the leads API.
package transport

import (
	"time"

	"crmhr_backend/internal/leads/domain"
	"crmhr_backend/internal/leads/repository"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	Name       string     `json:"name" binding:"required"`
	Email      string     `json:"email" binding:"required,email"`
	Phone      string     `json:"phone" binding:"required"`
	Position   string     `json:"position"`
	Source     string     `json:"source"`
	Priority   string     `json:"priority"`
	Folder     string     `json:"folder"`
	AssignedTo *uuid.UUID `json:"assignedTo"`
}

type UpdateLeadRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Position *string `json:"position"`
	Priority *string `json:"priority"`
	Folder   *string `json:"folder"`
	Source   *string `json:"source"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignLeadRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}

type BulkAssignRequest struct {
	LeadIDs []uuid.UUID `json:"leadIds" binding:"required,min=1"`
	UserID  uuid.UUID   `json:"userId" binding:"required"`
}

type BulkUnassignRequest struct {
	LeadIDs []uuid.UUID `json:"leadIds" binding:"required,min=1"`
}

type BulkStatusRequest struct {
	LeadIDs []uuid.UUID `json:"leadIds" binding:"required,min=1"`
	Status  string      `json:"status" binding:"required"`
}

type ImportSheetRequest struct {
	SheetURL string `json:"sheetUrl" binding:"required,url"`
}

type LeadResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Position   string     `json:"position,omitempty"`
	Status     string     `json:"status"`
	Source     string     `json:"source"`
	Priority   string     `json:"priority"`
	Folder     string     `json:"folder"`
	LeadScore  int        `json:"leadScore"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	AssignedBy *uuid.UUID `json:"assignedBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewLeadResponse maps a stored lead to its API shape. An empty folder is
// presented under its display label.
func NewLeadResponse(lead repository.Lead) LeadResponse {
	folder := lead.Folder
	if folder == "" {
		folder = domain.FolderUncategorized
	}
	return LeadResponse{
		ID:         lead.ID,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Position:   lead.Position,
		Status:     lead.Status,
		Source:     lead.Source,
		Priority:   lead.Priority,
		Folder:     folder,
		LeadScore:  lead.LeadScore,
		AssignedTo: lead.AssignedTo,
		AssignedBy: lead.AssignedBy,
		CreatedAt:  lead.CreatedAt,
		UpdatedAt:  lead.UpdatedAt,
	}
}

type AssignmentHistoryResponse struct {
	ID         uuid.UUID  `json:"id"`
	AssignedTo uuid.UUID  `json:"assignedTo"`
	AssignedBy *uuid.UUID `json:"assignedBy,omitempty"`
	Source     string     `json:"source"`
	AssignedAt time.Time  `json:"assignedAt"`
}

func NewAssignmentHistoryResponse(entry repository.AssignmentHistory) AssignmentHistoryResponse {
	return AssignmentHistoryResponse{
		ID:         entry.ID,
		AssignedTo: entry.AssignedTo,
		AssignedBy: entry.AssignedBy,
		Source:     entry.Source,
		AssignedAt: entry.CreatedAt,
	}
}

type DuplicateLeadResponse struct {
	ID             uuid.UUID         `json:"id"`
	ExistingLeadID uuid.UUID         `json:"existingLeadId"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	Position       string            `json:"position,omitempty"`
	Reason         string            `json:"reason"`
	Source         string            `json:"source"`
	OriginalData   map[string]string `json:"originalData"`
	CapturedAt     time.Time         `json:"capturedAt"`
}

func NewDuplicateLeadResponse(d repository.DuplicateLead) DuplicateLeadResponse {
	return DuplicateLeadResponse{
		ID:             d.ID,
		ExistingLeadID: d.ExistingLeadID,
		Name:           d.Name,
		Email:          d.Email,
		Phone:          d.Phone,
		Position:       d.Position,
		Reason:         string(d.Reason),
		Source:         d.Source,
		OriginalData:   d.OriginalData,
		CapturedAt:     d.UpdatedAt,
	}
}

type BulkResult struct {
	Affected int `json:"affected"`
}

type DashboardResponse struct {
	TotalLeads int            `json:"totalLeads"`
	ByStatus   map[string]int `json:"byStatus"`
	BySource   map[string]int `json:"bySource"`
	ByPriority map[string]int `json:"byPriority"`
}
