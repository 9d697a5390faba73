// Package domain contains the core types for the timetable service.
package domain

import "time"

// RecordTable is the loosely-structured tabular payload of a stored timetable:
// a header row plus arbitrary string rows. Rows may be ragged; cells may be
// missing entirely.
type RecordTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// RawRecord is one stored, pre-generated timetable as returned by the store.
// It is immutable once fetched; all derived structures (ScheduleEntry,
// WeeklyGrid) are recomputed from it on every pass.
type RawRecord struct {
	ID          string      `json:"id"`
	Filename    string      `json:"filename"`
	Branch      string      `json:"branch"`
	Division    string      `json:"division"`
	Year        string      `json:"year"`
	GeneratedAt time.Time   `json:"generated_at"`
	CreatedAt   time.Time   `json:"created_at"`
	Table       RecordTable `json:"table"`
}

// FilterOptions is the full universe of branch/division choices, independent
// of the currently selected filter.
type FilterOptions struct {
	Branches  []string `json:"branches"`
	Divisions []string `json:"divisions"`
}
