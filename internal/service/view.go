package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/campusgrid/timetable-server/internal/domain"
	"github.com/campusgrid/timetable-server/internal/store"
	"github.com/campusgrid/timetable-server/internal/timetable"
)

// FetchNotice is surfaced in the view when a reload failed and stale data is
// still being shown.
const FetchNotice = "records could not be reloaded; showing previously loaded data"

// View is the assembled timetable view for the current filter.
type View struct {
	Filter  domain.FilterState
	Query   string
	Records []*domain.RawRecord
	Active  *domain.RawRecord
	Grid    *domain.WeeklyGrid
	Notice  string
}

// ViewService maintains the current filter, the record set loaded for it,
// and the active record selection.
//
// The query string is the canonical source of filter state: every request
// carries its filter, and the service reloads records only when the filter
// actually changed. Record fetches happen outside the lock; a fetch whose
// filter no longer matches the current one is discarded so a slow response
// can never overwrite data for a newer filter.
type ViewService struct {
	store  store.Store
	logger *slog.Logger

	mu      sync.Mutex
	loaded  bool
	filter  domain.FilterState
	records []*domain.RawRecord
	pinned  string // explicitly selected filename, empty when default
	cleared bool   // selection explicitly cleared
	notice  string
}

// NewViewService creates a view service over the record store.
func NewViewService(store store.Store, logger *slog.Logger) *ViewService {
	return &ViewService{store: store, logger: logger}
}

// Apply reconciles the service state with a request's filter and optional
// record selection, then returns the assembled view.
//
// A filter change triggers a reload and resets the selection to the default
// record. A non-empty record selects by filename (first match wins when
// filenames repeat). Passing record as "-" clears the selection.
func (s *ViewService) Apply(ctx context.Context, filter domain.FilterState, record string) *View {
	s.ensureFilter(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch record {
	case "":
		// No selection change requested.
	case domain.SelectionNone:
		s.pinned = ""
		s.cleared = true
	default:
		s.pinned = record
		s.cleared = false
	}

	return s.viewLocked()
}

// Refresh re-fetches records for the current filter and resets the selection
// to the default record.
func (s *ViewService) Refresh(ctx context.Context) *View {
	s.mu.Lock()
	filter := s.filter
	s.loaded = false
	s.mu.Unlock()

	s.ensureFilter(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// ensureFilter reloads records when the requested filter differs from the
// loaded one. The filter is recorded before fetching; once the fetch
// returns, its result is applied only if no newer filter has been requested
// in the meantime.
func (s *ViewService) ensureFilter(ctx context.Context, filter domain.FilterState) {
	s.mu.Lock()
	if s.loaded && s.filter == filter {
		s.mu.Unlock()
		return
	}
	s.filter = filter
	s.loaded = true
	snapshot := filter
	s.mu.Unlock()

	records, err := s.store.ListRecords(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filter != snapshot {
		s.logger.Debug("discarding stale record fetch",
			"fetched", snapshot.Encode(),
			"current", s.filter.Encode())
		return
	}

	if err != nil {
		// Keep whatever was loaded before and surface a notice.
		s.logger.Warn("record reload failed", "filter", snapshot.Encode(), "error", err)
		s.notice = FetchNotice
		return
	}

	s.records = records
	s.pinned = ""
	s.cleared = false
	s.notice = ""
}

// viewLocked assembles the view from current state. Caller holds s.mu.
func (s *ViewService) viewLocked() *View {
	active := s.activeLocked()
	return &View{
		Filter:  s.filter,
		Query:   s.filter.Encode(),
		Records: s.records,
		Active:  active,
		Grid:    timetable.FromRecord(active),
		Notice:  s.notice,
	}
}

// activeLocked resolves the active record. Caller holds s.mu.
func (s *ViewService) activeLocked() *domain.RawRecord {
	if s.cleared {
		return nil
	}
	if s.pinned != "" {
		for _, rec := range s.records {
			if rec.Filename == s.pinned {
				return rec
			}
		}
	}
	if len(s.records) > 0 {
		return s.records[0]
	}
	return nil
}
