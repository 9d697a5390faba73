// Package service contains the application services that sit between the
// HTTP layer and the record store.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/campusgrid/timetable-server/internal/domain"
	"github.com/campusgrid/timetable-server/internal/id"
	"github.com/campusgrid/timetable-server/internal/store"
	"github.com/campusgrid/timetable-server/internal/validation"
)

// EventPublisher broadcasts server events to connected clients.
type EventPublisher interface {
	Publish(event string, data any)
}

// noopPublisher discards events.
type noopPublisher struct{}

func (noopPublisher) Publish(string, any) {}

// TimetableService orchestrates record storage and retrieval.
type TimetableService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
	events    EventPublisher
}

// NewTimetableService creates a new timetable service.
func NewTimetableService(store store.Store, logger *slog.Logger) *TimetableService {
	return &TimetableService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
		events:    noopPublisher{},
	}
}

// SetEventPublisher wires the publisher used to announce imports.
func (s *TimetableService) SetEventPublisher(events EventPublisher) {
	s.events = events
}

// FilterOptions returns the distinct branches and divisions available for
// filtering.
func (s *TimetableService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	return s.store.FilterOptions(ctx)
}

// Records returns the records matching the filter, newest generation first.
func (s *TimetableService) Records(ctx context.Context, filter domain.FilterState) ([]*domain.RawRecord, error) {
	return s.store.ListRecords(ctx, filter)
}

// GetRecord returns a single record by ID.
func (s *TimetableService) GetRecord(ctx context.Context, recordID string) (*domain.RawRecord, error) {
	return s.store.GetRecord(ctx, recordID)
}

// ImportRecordRequest contains fields for importing a raw timetable record.
type ImportRecordRequest struct {
	Filename    string     `json:"filename" validate:"required,max=255"`
	Branch      string     `json:"branch" validate:"required,max=32"`
	Division    string     `json:"division" validate:"required,max=8"`
	Year        string     `json:"year" validate:"max=16"`
	GeneratedAt time.Time  `json:"generated_at"`
	Headers     []string   `json:"headers"`
	Rows        [][]string `json:"rows" validate:"required"`
}

// ImportRecord validates and stores a single raw record.
func (s *TimetableService) ImportRecord(ctx context.Context, req ImportRecordRequest) (*domain.RawRecord, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	recordID, err := id.Generate("rec")
	if err != nil {
		return nil, err
	}

	generatedAt := req.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	rec := &domain.RawRecord{
		ID:          recordID,
		Filename:    req.Filename,
		Branch:      req.Branch,
		Division:    req.Division,
		Year:        req.Year,
		GeneratedAt: generatedAt,
		CreatedAt:   time.Now().UTC(),
		Table: domain.RecordTable{
			Headers: req.Headers,
			Rows:    req.Rows,
		},
	}

	if err := s.store.CreateRecord(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("record imported",
		"id", rec.ID,
		"filename", rec.Filename,
		"branch", rec.Branch,
		"division", rec.Division)
	s.events.Publish("record.imported", rec)

	return rec, nil
}

// ImportBatch imports multiple records under a shared batch ID for
// traceability. Import continues past individual failures; the first error
// is returned after the batch completes.
func (s *TimetableService) ImportBatch(ctx context.Context, reqs []ImportRecordRequest) ([]*domain.RawRecord, error) {
	batchID := uuid.NewString()
	logger := s.logger.With("batch_id", batchID, "count", len(reqs))
	logger.Info("starting record import batch")

	var (
		imported []*domain.RawRecord
		firstErr error
	)
	for _, req := range reqs {
		rec, err := s.ImportRecord(ctx, req)
		if err != nil {
			logger.Warn("record import failed", "filename", req.Filename, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		imported = append(imported, rec)
	}

	logger.Info("record import batch finished", "imported", len(imported))
	return imported, firstErr
}
