// Package timetable normalizes raw timetable tables into weekly grids.
//
// The pipeline is three total, pure functions: ParseRow turns one raw row
// into a ScheduleEntry (never failing; absence becomes empty string),
// FilterEntries drops rows that are not class sessions, and BuildGrid indexes
// the survivors into a day × time-slot grid with tri-state cells. Running the
// pipeline twice over the same record yields identical grids.
package timetable

import (
	"strings"

	"github.com/campusgrid/timetable-server/internal/domain"
)

// Fixed column positions in raw rows.
const (
	colDay = iota
	colTime
	colClassBatch
	colCourseName
	colFaculty
	colVenue
)

// ParseRow converts one raw row into a ScheduleEntry. Missing cells map to
// empty strings; the parser never fails. The day cell is stripped of the
// decorative marker and surrounding whitespace, so day comparison downstream
// is always on the cleaned value.
func ParseRow(row []string) domain.ScheduleEntry {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	return domain.ScheduleEntry{
		Day:        CleanDay(cell(colDay)),
		Time:       cell(colTime),
		ClassBatch: cell(colClassBatch),
		CourseName: cell(colCourseName),
		Faculty:    cell(colFaculty),
		Venue:      cell(colVenue),
	}
}

// CleanDay removes every occurrence of the decorative marker and trims
// whitespace.
func CleanDay(day string) string {
	return strings.TrimSpace(strings.ReplaceAll(day, domain.DayMarker, ""))
}

// ParseTable parses every row of a record's table, in source order.
func ParseTable(table domain.RecordTable) []domain.ScheduleEntry {
	entries := make([]domain.ScheduleEntry, 0, len(table.Rows))
	for _, row := range table.Rows {
		entries = append(entries, ParseRow(row))
	}
	return entries
}

// FilterEntries returns the subset of entries usable for display, in the
// original order. Dropped: lunch rows (by course name or slot), the "ALL"
// day sentinel, blank placeholders, and days outside the recognized five.
func FilterEntries(entries []domain.ScheduleEntry) []domain.ScheduleEntry {
	kept := make([]domain.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		if displayable(e) {
			kept = append(kept, e)
		}
	}
	return kept
}

func displayable(e domain.ScheduleEntry) bool {
	if e.CourseName == "" || e.CourseName == domain.LunchMarker {
		return false
	}
	if e.Day == "" || e.Day == domain.DayAll || !domain.IsWeekday(e.Day) {
		return false
	}
	if e.Time == string(domain.LunchSlot) {
		return false
	}
	return true
}

// BuildGrid groups filtered entries by exact (day, time) equality. Within a
// group, source row order is preserved: the first entry is the primary one,
// the rest are overflow. The lunch slot stays lunch even if a stray entry
// slipped past the filter.
func BuildGrid(entries []domain.ScheduleEntry) *domain.WeeklyGrid {
	grid := domain.NewWeeklyGrid()
	for _, e := range entries {
		grid.Add(e)
	}
	return grid
}

// FromRecord runs the full pipeline over a record's table. A nil record
// yields an empty grid; that is the valid "no data" state, not an error.
func FromRecord(record *domain.RawRecord) *domain.WeeklyGrid {
	if record == nil {
		return domain.NewWeeklyGrid()
	}
	return BuildGrid(FilterEntries(ParseTable(record.Table)))
}
