// Package management implements lead CRUD, assignment and dashboard
// operations on top of the lead repository.
package management

import (
	"context"
	"errors"

	"crmhr_backend/internal/events"
	"crmhr_backend/internal/leads/domain"
	"crmhr_backend/internal/leads/repository"
	"crmhr_backend/internal/leads/scoring"
	"crmhr_backend/internal/leads/transport"
	"crmhr_backend/platform/apperr"
	"crmhr_backend/platform/httpkit"
	"crmhr_backend/platform/logger"
	"crmhr_backend/platform/phone"

	"github.com/google/uuid"
)

// LeadStore is the repository surface the management service uses.
type LeadStore interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	List(ctx context.Context, filter repository.ListFilter) ([]repository.Lead, int, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status string, score int) (repository.Lead, error)
	BulkSetStatus(ctx context.Context, ids []uuid.UUID, status string, score int) (int, error)
	Assign(ctx context.Context, leadID, assignedTo, assignedBy uuid.UUID, source domain.HistorySource) error
	AppendHistory(ctx context.Context, leadID, assignedTo uuid.UUID, assignedBy *uuid.UUID, source domain.HistorySource) error
	BulkAssign(ctx context.Context, ids []uuid.UUID, assignedTo, assignedBy uuid.UUID) (int, error)
	BulkUnassign(ctx context.Context, ids []uuid.UUID) (int, error)
	ListHistory(ctx context.Context, leadID uuid.UUID) ([]repository.AssignmentHistory, error)
	ListDuplicates(ctx context.Context, page, limit int) ([]repository.DuplicateLead, int, error)
	DeleteDuplicate(ctx context.Context, id uuid.UUID) error
	CountByColumn(ctx context.Context, column string, restrictTo *uuid.UUID) (map[string]int, error)
}

// AssigneeDirectory answers whether a user id refers to an active user.
type AssigneeDirectory interface {
	IsActiveUser(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	store LeadStore
	users AssigneeDirectory
	bus   events.Bus
	log   *logger.Logger
}

func NewService(store LeadStore, users AssigneeDirectory, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, users: users, bus: bus, log: log}
}

func (s *Service) Create(ctx context.Context, caller httpkit.Identity, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	source := req.Source
	if source == "" {
		source = string(domain.SourceManual)
	}
	if !domain.ValidSources[domain.Source(source)] {
		return transport.LeadResponse{}, apperr.Validationf("invalid source %q", source)
	}

	priority := req.Priority
	if priority == "" {
		priority = string(domain.PriorityMedium)
	}
	if !domain.ValidPriorities[domain.Priority(priority)] {
		return transport.LeadResponse{}, apperr.Validationf("invalid priority %q", priority)
	}

	params := repository.CreateLeadParams{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     phone.NormalizeE164(req.Phone),
		Position:  req.Position,
		Status:    domain.StatusNew,
		Source:    source,
		Priority:  priority,
		Folder:    req.Folder,
		LeadScore: scoring.Score(domain.StatusNew),
	}

	if req.AssignedTo != nil {
		if err := s.requireActiveUser(ctx, *req.AssignedTo); err != nil {
			return transport.LeadResponse{}, err
		}
		actor := caller.UserID()
		params.AssignedTo = req.AssignedTo
		params.AssignedBy = &actor
	}

	lead, err := s.store.Create(ctx, params)
	if errors.Is(err, repository.ErrIdentityConflict) {
		return transport.LeadResponse{}, apperr.Conflict("duplicate lead detected: email or phone already exists")
	}
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if req.AssignedTo != nil {
		actor := caller.UserID()
		if err := s.store.AppendHistory(ctx, lead.ID, *req.AssignedTo, &actor, domain.HistoryManual); err != nil {
			return transport.LeadResponse{}, err
		}
		s.publishAssigned(ctx, lead, *req.AssignedTo, actor, domain.HistoryManual)
	}

	return transport.NewLeadResponse(lead), nil
}

func (s *Service) Get(ctx context.Context, caller httpkit.Identity, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.getVisible(ctx, caller, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return transport.NewLeadResponse(lead), nil
}

// List returns a filtered page of leads. Non-admin callers only ever see
// their own assignments, regardless of the filter they send.
func (s *Service) List(ctx context.Context, caller httpkit.Identity, filter repository.ListFilter) ([]transport.LeadResponse, int, error) {
	if !caller.IsAdmin() {
		me := caller.UserID()
		filter.RestrictTo = &me
	}

	leads, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		out[i] = transport.NewLeadResponse(lead)
	}
	return out, total, nil
}

func (s *Service) Update(ctx context.Context, caller httpkit.Identity, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	if _, err := s.getVisible(ctx, caller, id); err != nil {
		return transport.LeadResponse{}, err
	}

	if req.Priority != nil && !domain.ValidPriorities[domain.Priority(*req.Priority)] {
		return transport.LeadResponse{}, apperr.Validationf("invalid priority %q", *req.Priority)
	}
	if req.Source != nil && !domain.ValidSources[domain.Source(*req.Source)] {
		return transport.LeadResponse{}, apperr.Validationf("invalid source %q", *req.Source)
	}

	params := repository.UpdateLeadParams{
		Name:     req.Name,
		Email:    req.Email,
		Position: req.Position,
		Priority: req.Priority,
		Folder:   req.Folder,
		Source:   req.Source,
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}

	lead, err := s.store.Update(ctx, id, params)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, apperr.NotFound("lead not found")
	}
	if errors.Is(err, repository.ErrIdentityConflict) {
		return transport.LeadResponse{}, apperr.Conflict("duplicate lead detected: email or phone already exists")
	}
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return transport.NewLeadResponse(lead), nil
}

func (s *Service) UpdateStatus(ctx context.Context, caller httpkit.Identity, id uuid.UUID, status string) (transport.LeadResponse, error) {
	if _, err := s.getVisible(ctx, caller, id); err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.store.SetStatus(ctx, id, status, scoring.Score(status))
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return transport.NewLeadResponse(lead), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	return err
}

// Assign sets a single lead's assignee and records it in the ledger.
func (s *Service) Assign(ctx context.Context, caller httpkit.Identity, leadID, userID uuid.UUID) (transport.LeadResponse, error) {
	if err := s.requireActiveUser(ctx, userID); err != nil {
		return transport.LeadResponse{}, err
	}

	if err := s.store.Assign(ctx, leadID, userID, caller.UserID(), domain.HistoryManual); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	lead, err := s.store.GetByID(ctx, leadID)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	s.publishAssigned(ctx, lead, userID, caller.UserID(), domain.HistoryManual)
	return transport.NewLeadResponse(lead), nil
}

// BulkAssign sets assignment on many leads at once. Unlike the single-lead
// and import paths it does not write assignment history entries.
func (s *Service) BulkAssign(ctx context.Context, caller httpkit.Identity, req transport.BulkAssignRequest) (transport.BulkResult, error) {
	if err := s.requireActiveUser(ctx, req.UserID); err != nil {
		return transport.BulkResult{}, err
	}

	affected, err := s.store.BulkAssign(ctx, req.LeadIDs, req.UserID, caller.UserID())
	if err != nil {
		return transport.BulkResult{}, err
	}
	return transport.BulkResult{Affected: affected}, nil
}

func (s *Service) BulkUnassign(ctx context.Context, req transport.BulkUnassignRequest) (transport.BulkResult, error) {
	affected, err := s.store.BulkUnassign(ctx, req.LeadIDs)
	if err != nil {
		return transport.BulkResult{}, err
	}
	return transport.BulkResult{Affected: affected}, nil
}

// BulkStatus sets status, and with it the derived score, on many leads.
func (s *Service) BulkStatus(ctx context.Context, req transport.BulkStatusRequest) (transport.BulkResult, error) {
	affected, err := s.store.BulkSetStatus(ctx, req.LeadIDs, req.Status, scoring.Score(req.Status))
	if err != nil {
		return transport.BulkResult{}, err
	}
	return transport.BulkResult{Affected: affected}, nil
}

func (s *Service) History(ctx context.Context, caller httpkit.Identity, leadID uuid.UUID) ([]transport.AssignmentHistoryResponse, error) {
	if _, err := s.getVisible(ctx, caller, leadID); err != nil {
		return nil, err
	}

	entries, err := s.store.ListHistory(ctx, leadID)
	if err != nil {
		return nil, err
	}

	out := make([]transport.AssignmentHistoryResponse, len(entries))
	for i, entry := range entries {
		out[i] = transport.NewAssignmentHistoryResponse(entry)
	}
	return out, nil
}

func (s *Service) Duplicates(ctx context.Context, page, limit int) ([]transport.DuplicateLeadResponse, int, error) {
	items, total, err := s.store.ListDuplicates(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]transport.DuplicateLeadResponse, len(items))
	for i, item := range items {
		out[i] = transport.NewDuplicateLeadResponse(item)
	}
	return out, total, nil
}

func (s *Service) DeleteDuplicate(ctx context.Context, id uuid.UUID) error {
	err := s.store.DeleteDuplicate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("duplicate record not found")
	}
	return err
}

// Dashboard aggregates lead counts by classification. Non-admin callers see
// only their own slice of the data.
func (s *Service) Dashboard(ctx context.Context, caller httpkit.Identity) (transport.DashboardResponse, error) {
	var restrictTo *uuid.UUID
	if !caller.IsAdmin() {
		me := caller.UserID()
		restrictTo = &me
	}

	byStatus, err := s.store.CountByColumn(ctx, "status", restrictTo)
	if err != nil {
		return transport.DashboardResponse{}, err
	}
	bySource, err := s.store.CountByColumn(ctx, "source", restrictTo)
	if err != nil {
		return transport.DashboardResponse{}, err
	}
	byPriority, err := s.store.CountByColumn(ctx, "priority", restrictTo)
	if err != nil {
		return transport.DashboardResponse{}, err
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}

	return transport.DashboardResponse{
		TotalLeads: total,
		ByStatus:   byStatus,
		BySource:   bySource,
		ByPriority: byPriority,
	}, nil
}

// getVisible loads a lead and enforces that non-admin callers only reach
// leads assigned to themselves.
func (s *Service) getVisible(ctx context.Context, caller httpkit.Identity, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return repository.Lead{}, err
	}

	if !caller.IsAdmin() {
		if lead.AssignedTo == nil || *lead.AssignedTo != caller.UserID() {
			return repository.Lead{}, apperr.Forbidden("lead is not assigned to you")
		}
	}
	return lead, nil
}

func (s *Service) requireActiveUser(ctx context.Context, id uuid.UUID) error {
	active, err := s.users.IsActiveUser(ctx, id)
	if err != nil {
		return err
	}
	if !active {
		return apperr.NotFound("assignee does not exist or is inactive")
	}
	return nil
}

func (s *Service) publishAssigned(ctx context.Context, lead repository.Lead, assignedTo, assignedBy uuid.UUID, source domain.HistorySource) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		LeadName:   lead.Name,
		AssignedTo: assignedTo,
		AssignedBy: assignedBy,
		Source:     string(source),
	})
}
