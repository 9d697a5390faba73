// Package store defines the persistence interface for timetable records.
package store

import (
	"context"

	"github.com/campusgrid/timetable-server/internal/domain"
)

// Store is the persistence boundary for timetable records.
type Store interface {
	// CreateRecord persists a new record. Returns ErrAlreadyExists if a
	// record with the same ID is already stored.
	CreateRecord(ctx context.Context, rec *domain.RawRecord) error

	// GetRecord returns a record by ID. Returns ErrNotFound if absent.
	GetRecord(ctx context.Context, id string) (*domain.RawRecord, error)

	// ListRecords returns records matching the filter, newest generation
	// first. An unconstrained filter returns all records.
	ListRecords(ctx context.Context, filter domain.FilterState) ([]*domain.RawRecord, error)

	// FilterOptions returns the distinct branches and divisions present
	// across all stored records, sorted ascending.
	FilterOptions(ctx context.Context) (*domain.FilterOptions, error)

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying database resources.
	Close() error
}
