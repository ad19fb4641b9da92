package management

import (
	"context"
	"io"

	"crmhr_backend/internal/events"
	"crmhr_backend/internal/leads/importer"

	"github.com/google/uuid"
)

// ImportService drives the reconciliation engine from either an uploaded
// CSV or a shared Google Sheet.
type ImportService struct {
	engine  *importer.Service
	fetcher *importer.SheetFetcher
	bus     events.Bus
}

func NewImportService(engine *importer.Service, fetcher *importer.SheetFetcher, bus events.Bus) *ImportService {
	return &ImportService{engine: engine, fetcher: fetcher, bus: bus}
}

// FromUpload parses the uploaded CSV and reconciles its rows.
func (s *ImportService) FromUpload(ctx context.Context, actorID uuid.UUID, file io.Reader) (importer.Summary, error) {
	rows, err := importer.ParseCSV(file)
	if err != nil {
		return importer.Summary{}, err
	}
	return s.run(ctx, actorID, "upload", rows)
}

// FromSheet fetches a shared Google Sheet as CSV and reconciles its rows.
func (s *ImportService) FromSheet(ctx context.Context, actorID uuid.UUID, sheetURL string) (importer.Summary, error) {
	rows, err := s.fetcher.Fetch(ctx, sheetURL)
	if err != nil {
		return importer.Summary{}, err
	}
	return s.run(ctx, actorID, "sheet", rows)
}

func (s *ImportService) run(ctx context.Context, actorID uuid.UUID, sourceKind string, rows []importer.Row) (importer.Summary, error) {
	summary, err := s.engine.Run(ctx, actorID, rows)
	if err != nil {
		return importer.Summary{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadImportCompleted{
			BaseEvent:      events.NewBaseEvent(),
			RunBy:          actorID,
			SourceKind:     sourceKind,
			InsertedCount:  summary.InsertedCount,
			UpdatedCount:   summary.UpdatedCount,
			DuplicateCount: summary.DuplicateCount,
		})
	}
	return summary, nil
}
