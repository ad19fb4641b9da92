package importer

import (
	"context"
	"errors"
	"fmt"

	"crmhr_backend/internal/leads/domain"
	"crmhr_backend/internal/leads/repository"
	"crmhr_backend/internal/leads/scoring"
	"crmhr_backend/platform/apperr"
	"crmhr_backend/platform/logger"

	"github.com/google/uuid"
)

// LeadStore is the slice of the lead repository the reconciliation engine
// depends on.
type LeadStore interface {
	FindByEmailOrPhone(ctx context.Context, email, phoneNumber string) (repository.Lead, error)
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	SetFolder(ctx context.Context, id uuid.UUID, folder string) error
	Assign(ctx context.Context, leadID, assignedTo, assignedBy uuid.UUID, source domain.HistorySource) error
	AppendHistory(ctx context.Context, leadID, assignedTo uuid.UUID, assignedBy *uuid.UUID, source domain.HistorySource) error
	UpsertDuplicate(ctx context.Context, params repository.UpsertDuplicateParams) (repository.DuplicateLead, error)
}

// AssigneeResolver maps a free-text name from a row to an active user id.
// An unresolved name returns (nil, nil); it is not an error.
type AssigneeResolver interface {
	ResolveByName(ctx context.Context, name string) (*uuid.UUID, error)
}

// DuplicateRecord describes one quarantined row in the run summary.
type DuplicateRecord struct {
	Row    int    `json:"row"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Reason string `json:"reason"`
}

// Summary is the aggregated result of one import run.
type Summary struct {
	InsertedCount  int               `json:"insertedCount"`
	UpdatedCount   int               `json:"updatedCount"`
	DuplicateCount int               `json:"duplicateCount"`
	DuplicateLeads []DuplicateRecord `json:"duplicateLeads"`
}

type Service struct {
	store    LeadStore
	resolver AssigneeResolver
	log      *logger.Logger
}

func NewService(store LeadStore, resolver AssigneeResolver, log *logger.Logger) *Service {
	return &Service{store: store, resolver: resolver, log: log}
}

// Run reconciles the rows against the lead store, strictly in order.
//
// Row N's disposition may depend on row N-1's write (two rows sharing a
// phone), so rows are never processed in parallel. Required-field validation
// is fail-fast for the whole batch: the first invalid row aborts the run,
// and rows written before it stay committed since each row's mutation is an
// independent flushed operation.
//
// Row numbers in errors and duplicate records are source positions: the
// first data row is row 2, after the header.
func (s *Service) Run(ctx context.Context, actorID uuid.UUID, rows []Row) (Summary, error) {
	summary := Summary{DuplicateLeads: []DuplicateRecord{}}

	for i, row := range rows {
		rowNumber := i + 2

		if field := row.MissingRequiredField(); field != "" {
			return Summary{}, apperr.Validationf("row %d: missing required field %q", rowNumber, field)
		}

		if err := s.reconcileRow(ctx, actorID, row, rowNumber, &summary); err != nil {
			return Summary{}, err
		}
	}

	s.log.WithContext(ctx).ImportRun(string(domain.SourceImport),
		summary.InsertedCount, summary.UpdatedCount, summary.DuplicateCount)
	return summary, nil
}

func (s *Service) reconcileRow(ctx context.Context, actorID uuid.UUID, row Row, rowNumber int, summary *Summary) error {
	email := row.Email()
	phoneNumber := row.Phone()

	assignee, err := s.resolveAssignee(ctx, row.AssignedTo())
	if err != nil {
		return err
	}

	existing, err := s.store.FindByEmailOrPhone(ctx, email, phoneNumber)
	if errors.Is(err, repository.ErrNotFound) {
		return s.insertRow(ctx, actorID, row, assignee, summary)
	}
	if err != nil {
		return fmt.Errorf("row %d: lookup failed: %w", rowNumber, err)
	}

	// The row touched a pre-existing record. Flag the record for triage
	// before deciding how to treat the row itself.
	if err := s.store.SetFolder(ctx, existing.ID, domain.FolderDuplicate); err != nil {
		return fmt.Errorf("row %d: folder update failed: %w", rowNumber, err)
	}

	switch {
	case existing.AssignedTo != nil:
		// Already owned. Re-affirm the current assignee in the ledger.
		if err := s.store.AppendHistory(ctx, existing.ID, *existing.AssignedTo, &actorID, domain.HistoryReimport); err != nil {
			return fmt.Errorf("row %d: history append failed: %w", rowNumber, err)
		}
		summary.UpdatedCount++
		return nil

	case assignee != nil:
		// Unowned, and the row names someone. Enrich instead of quarantining.
		if err := s.store.Assign(ctx, existing.ID, *assignee, actorID, domain.HistoryImport); err != nil {
			return fmt.Errorf("row %d: assignment failed: %w", rowNumber, err)
		}
		summary.UpdatedCount++
		return nil

	default:
		return s.quarantineRow(ctx, existing, row, rowNumber, summary)
	}
}

func (s *Service) insertRow(ctx context.Context, actorID uuid.UUID, row Row, assignee *uuid.UUID, summary *Summary) error {
	params := repository.CreateLeadParams{
		Name:      row.Name(),
		Email:     row.Email(),
		Phone:     row.Phone(),
		Position:  row.Position(),
		Status:    domain.StatusNew,
		Source:    string(domain.SourceImport),
		Priority:  string(domain.PriorityMedium),
		LeadScore: scoring.Score(domain.StatusNew),
	}
	if assignee != nil {
		params.AssignedTo = assignee
		params.AssignedBy = &actorID
	}

	lead, err := s.store.Create(ctx, params)
	if err != nil {
		return err
	}

	if assignee != nil {
		if err := s.store.AppendHistory(ctx, lead.ID, *assignee, &actorID, domain.HistoryImport); err != nil {
			return err
		}
	}

	summary.InsertedCount++
	return nil
}

func (s *Service) quarantineRow(ctx context.Context, existing repository.Lead, row Row, rowNumber int, summary *Summary) error {
	reason := classifyDuplicate(existing, row)

	_, err := s.store.UpsertDuplicate(ctx, repository.UpsertDuplicateParams{
		ExistingLeadID: existing.ID,
		Name:           row.Name(),
		Email:          row.Email(),
		Phone:          row.Phone(),
		Position:       row.Position(),
		Reason:         reason,
		Source:         string(domain.SourceImport),
		OriginalData:   row,
	})
	if err != nil {
		return fmt.Errorf("row %d: quarantine failed: %w", rowNumber, err)
	}

	summary.DuplicateCount++
	summary.DuplicateLeads = append(summary.DuplicateLeads, DuplicateRecord{
		Row:    rowNumber,
		Name:   row.Name(),
		Email:  row.Email(),
		Phone:  row.Phone(),
		Reason: string(reason),
	})
	return nil
}

// classifyDuplicate codes which identity field collided. Both fields
// matching outranks either single match.
func classifyDuplicate(existing repository.Lead, row Row) domain.DuplicateReason {
	emailMatch := existing.Email == row.Email()
	phoneMatch := existing.Phone == row.Phone()
	switch {
	case emailMatch && phoneMatch:
		return domain.ReasonEmailPhoneExists
	case emailMatch:
		return domain.ReasonEmailExists
	case phoneMatch:
		return domain.ReasonPhoneExists
	default:
		return domain.ReasonEmailPhoneExists
	}
}

func (s *Service) resolveAssignee(ctx context.Context, name string) (*uuid.UUID, error) {
	if name == "" {
		return nil, nil
	}
	return s.resolver.ResolveByName(ctx, name)
}
