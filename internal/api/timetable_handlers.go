package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/campusgrid/timetable-server/internal/domain"
	"github.com/campusgrid/timetable-server/internal/service"
)

func (s *Server) registerTimetableRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getFilterOptions",
		Method:      http.MethodGet,
		Path:        "/api/v1/options",
		Summary:     "Get filter options",
		Description: "Returns the distinct branches and divisions available for filtering",
		Tags:        []string{"Timetable"},
	}, s.handleGetFilterOptions)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRecords",
		Method:      http.MethodGet,
		Path:        "/api/v1/records",
		Summary:     "List records",
		Description: "Returns timetable records matching the branch/division filter, newest generation first",
		Tags:        []string{"Records"},
	}, s.handleListRecords)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecord",
		Method:      http.MethodGet,
		Path:        "/api/v1/records/{id}",
		Summary:     "Get record",
		Description: "Returns a single record including its raw table",
		Tags:        []string{"Records"},
	}, s.handleGetRecord)

	huma.Register(s.api, huma.Operation{
		OperationID:   "importRecord",
		Method:        http.MethodPost,
		Path:          "/api/v1/records",
		Summary:       "Import record",
		Description:   "Imports a raw timetable record",
		Tags:          []string{"Records"},
		DefaultStatus: http.StatusCreated,
	}, s.handleImportRecord)

	huma.Register(s.api, huma.Operation{
		OperationID: "getView",
		Method:      http.MethodGet,
		Path:        "/api/v1/view",
		Summary:     "Get timetable view",
		Description: "Returns the assembled weekly grid for the requested filter and record selection",
		Tags:        []string{"View"},
	}, s.handleGetView)

	huma.Register(s.api, huma.Operation{
		OperationID: "refreshView",
		Method:      http.MethodPost,
		Path:        "/api/v1/view/refresh",
		Summary:     "Refresh timetable view",
		Description: "Re-fetches records for the current filter and resets the record selection",
		Tags:        []string{"View"},
	}, s.handleRefreshView)
}

// === DTOs ===

// FilterOptionsResponse contains the available filter dimensions.
type FilterOptionsResponse struct {
	Branches  []string `json:"branches" doc:"Distinct branches, sorted ascending"`
	Divisions []string `json:"divisions" doc:"Distinct divisions, sorted ascending"`
}

// FilterOptionsOutput wraps the filter options response for Huma.
type FilterOptionsOutput struct {
	Body FilterOptionsResponse
}

// FilterInput carries the branch/division filter query parameters.
// The value "all" is equivalent to omitting the parameter.
type FilterInput struct {
	Branch   string `query:"branch" doc:"Branch filter; 'all' or absent means unfiltered"`
	Division string `query:"division" doc:"Division filter; 'all' or absent means unfiltered"`
}

// RecordResponse contains record metadata in API responses.
type RecordResponse struct {
	ID          string    `json:"id" doc:"Record ID"`
	Filename    string    `json:"filename" doc:"Source filename"`
	Branch      string    `json:"branch" doc:"Branch"`
	Division    string    `json:"division" doc:"Division"`
	Year        string    `json:"year,omitempty" doc:"Academic year"`
	GeneratedAt time.Time `json:"generated_at" doc:"When the timetable was generated"`
	CreatedAt   time.Time `json:"created_at" doc:"When the record was imported"`
}

// ListRecordsResponse contains a list of records.
type ListRecordsResponse struct {
	Records []RecordResponse `json:"records" doc:"Matching records, newest generation first"`
}

// ListRecordsOutput wraps the list records response for Huma.
type ListRecordsOutput struct {
	Body ListRecordsResponse
}

// GetRecordInput contains parameters for getting a record.
type GetRecordInput struct {
	ID string `path:"id" doc:"Record ID"`
}

// RecordDetailResponse contains a record with its raw table.
type RecordDetailResponse struct {
	RecordResponse
	Headers []string   `json:"headers" doc:"Raw table header labels"`
	Rows    [][]string `json:"rows" doc:"Raw table rows"`
}

// RecordDetailOutput wraps the record detail response for Huma.
type RecordDetailOutput struct {
	Body RecordDetailResponse
}

// ImportRecordRequest is the request body for importing a record.
type ImportRecordRequest struct {
	Filename    string     `json:"filename" doc:"Source filename"`
	Branch      string     `json:"branch" doc:"Branch"`
	Division    string     `json:"division" doc:"Division"`
	Year        string     `json:"year,omitempty" doc:"Academic year"`
	GeneratedAt time.Time  `json:"generated_at,omitempty" doc:"Generation time; defaults to now"`
	Headers     []string   `json:"headers,omitempty" doc:"Raw table header labels"`
	Rows        [][]string `json:"rows" doc:"Raw table rows"`
}

// ImportRecordInput wraps the import request for Huma.
type ImportRecordInput struct {
	Body ImportRecordRequest
}

// RecordOutput wraps a single record response for Huma.
type RecordOutput struct {
	Body RecordResponse
}

// GetViewInput carries the view query parameters.
type GetViewInput struct {
	FilterInput
	Record string `query:"record" doc:"Filename to select; '-' clears the selection, absent leaves it unchanged"`
}

// EntryResponse contains one schedule entry in API responses.
type EntryResponse struct {
	Day        string `json:"day" doc:"Weekday"`
	Time       string `json:"time" doc:"Time slot"`
	ClassBatch string `json:"class_batch" doc:"Class or batch label"`
	CourseName string `json:"course_name" doc:"Course name"`
	Faculty    string `json:"faculty" doc:"Faculty name"`
	Venue      string `json:"venue" doc:"Venue"`
}

// GridCellResponse is one resolved cell of the weekly grid.
type GridCellResponse struct {
	State    string          `json:"state" doc:"Cell state: free, lunch, or occupied"`
	Entries  []EntryResponse `json:"entries,omitempty" doc:"Entries in the cell; the first is the primary"`
	Overflow int             `json:"overflow" doc:"Entries beyond the primary"`
}

// GridResponse is the assembled weekly grid. Cells are indexed by day then
// slot, matching the Days and Slots orderings.
type GridResponse struct {
	Days  []string             `json:"days" doc:"Ordered weekday labels"`
	Slots []string             `json:"slots" doc:"Ordered time-slot labels"`
	Cells [][]GridCellResponse `json:"cells" doc:"Cells indexed by day, then slot"`
}

// ViewResponse contains the assembled timetable view.
type ViewResponse struct {
	Branch   string           `json:"branch,omitempty" doc:"Active branch filter"`
	Division string           `json:"division,omitempty" doc:"Active division filter"`
	Query    string           `json:"query" doc:"Canonical query-string form of the filter"`
	Records  []RecordResponse `json:"records" doc:"Records loaded for the filter"`
	Active   *RecordResponse  `json:"active,omitempty" doc:"Currently selected record"`
	Grid     GridResponse     `json:"grid" doc:"Weekly grid for the active record"`
	Notice   string           `json:"notice,omitempty" doc:"Set when stale data is shown after a failed reload"`
}

// ViewOutput wraps the view response for Huma.
type ViewOutput struct {
	Body ViewResponse
}

// === Handlers ===

func (s *Server) handleGetFilterOptions(ctx context.Context, _ *struct{}) (*FilterOptionsOutput, error) {
	opts, err := s.services.Timetable.FilterOptions(ctx)
	if err != nil {
		return nil, err
	}

	return &FilterOptionsOutput{
		Body: FilterOptionsResponse{
			Branches:  opts.Branches,
			Divisions: opts.Divisions,
		},
	}, nil
}

func (s *Server) handleListRecords(ctx context.Context, input *FilterInput) (*ListRecordsOutput, error) {
	records, err := s.services.Timetable.Records(ctx, input.filterState())
	if err != nil {
		return nil, err
	}

	resp := make([]RecordResponse, len(records))
	for i, rec := range records {
		resp[i] = toRecordResponse(rec)
	}

	return &ListRecordsOutput{Body: ListRecordsResponse{Records: resp}}, nil
}

func (s *Server) handleGetRecord(ctx context.Context, input *GetRecordInput) (*RecordDetailOutput, error) {
	rec, err := s.services.Timetable.GetRecord(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &RecordDetailOutput{
		Body: RecordDetailResponse{
			RecordResponse: toRecordResponse(rec),
			Headers:        rec.Table.Headers,
			Rows:           rec.Table.Rows,
		},
	}, nil
}

func (s *Server) handleImportRecord(ctx context.Context, input *ImportRecordInput) (*RecordOutput, error) {
	rec, err := s.services.Timetable.ImportRecord(ctx, service.ImportRecordRequest{
		Filename:    input.Body.Filename,
		Branch:      input.Body.Branch,
		Division:    input.Body.Division,
		Year:        input.Body.Year,
		GeneratedAt: input.Body.GeneratedAt,
		Headers:     input.Body.Headers,
		Rows:        input.Body.Rows,
	})
	if err != nil {
		return nil, err
	}

	return &RecordOutput{Body: toRecordResponse(rec)}, nil
}

func (s *Server) handleGetView(ctx context.Context, input *GetViewInput) (*ViewOutput, error) {
	view := s.services.View.Apply(ctx, input.filterState(), input.Record)
	return &ViewOutput{Body: toViewResponse(view)}, nil
}

func (s *Server) handleRefreshView(ctx context.Context, _ *struct{}) (*ViewOutput, error) {
	view := s.services.View.Refresh(ctx)
	return &ViewOutput{Body: toViewResponse(view)}, nil
}

// === Mappers ===

func (in FilterInput) filterState() domain.FilterState {
	return domain.FilterState{}.WithBranch(in.Branch).WithDivision(in.Division)
}

func toRecordResponse(rec *domain.RawRecord) RecordResponse {
	return RecordResponse{
		ID:          rec.ID,
		Filename:    rec.Filename,
		Branch:      rec.Branch,
		Division:    rec.Division,
		Year:        rec.Year,
		GeneratedAt: rec.GeneratedAt,
		CreatedAt:   rec.CreatedAt,
	}
}

func toEntryResponse(e domain.ScheduleEntry) EntryResponse {
	return EntryResponse{
		Day:        e.Day,
		Time:       e.Time,
		ClassBatch: e.ClassBatch,
		CourseName: e.CourseName,
		Faculty:    e.Faculty,
		Venue:      e.Venue,
	}
}

func toGridResponse(grid *domain.WeeklyGrid) GridResponse {
	days := make([]string, len(domain.Weekdays))
	cells := make([][]GridCellResponse, len(domain.Weekdays))
	for i, day := range domain.Weekdays {
		days[i] = string(day)
		row := make([]GridCellResponse, len(domain.TimeSlots))
		for j, slot := range domain.TimeSlots {
			cell := grid.Cell(day, slot)
			entries := make([]EntryResponse, len(cell.Entries))
			for k, e := range cell.Entries {
				entries[k] = toEntryResponse(e)
			}
			row[j] = GridCellResponse{
				State:    string(cell.State),
				Entries:  entries,
				Overflow: cell.Overflow(),
			}
		}
		cells[i] = row
	}

	slots := make([]string, len(domain.TimeSlots))
	for i, slot := range domain.TimeSlots {
		slots[i] = string(slot)
	}

	return GridResponse{Days: days, Slots: slots, Cells: cells}
}

func toViewResponse(view *service.View) ViewResponse {
	records := make([]RecordResponse, len(view.Records))
	for i, rec := range view.Records {
		records[i] = toRecordResponse(rec)
	}

	var active *RecordResponse
	if view.Active != nil {
		resp := toRecordResponse(view.Active)
		active = &resp
	}

	return ViewResponse{
		Branch:   view.Filter.Branch,
		Division: view.Filter.Division,
		Query:    view.Query,
		Records:  records,
		Active:   active,
		Grid:     toGridResponse(view.Grid),
		Notice:   view.Notice,
	}
}
