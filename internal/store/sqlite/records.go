package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/campusgrid/timetable-server/internal/domain"
	"github.com/campusgrid/timetable-server/internal/store"
)

// CreateRecord persists a new timetable record.
func (s *Store) CreateRecord(ctx context.Context, rec *domain.RawRecord) error {
	headers, err := json.Marshal(rec.Table.Headers)
	if err != nil {
		return fmt.Errorf("marshal headers: %w", err)
	}
	rows, err := json.Marshal(rec.Table.Rows)
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (id, filename, branch, division, year, generated_at, created_at, headers, rows)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Filename, rec.Branch, rec.Division, rec.Year,
		formatTime(rec.GeneratedAt), formatTime(rec.CreatedAt),
		string(headers), string(rows),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage(fmt.Sprintf("record %s already exists", rec.ID))
		}
		return fmt.Errorf("insert record: %w", err)
	}

	s.logger.Debug("record stored",
		"id", rec.ID,
		"filename", rec.Filename,
		"branch", rec.Branch,
		"division", rec.Division)
	return nil
}

// GetRecord returns a record by ID.
func (s *Store) GetRecord(ctx context.Context, id string) (*domain.RawRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, branch, division, year, generated_at, created_at, headers, rows
		FROM records WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound.WithMessage(fmt.Sprintf("record %s not found", id))
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// ListRecords returns records matching the filter, newest generation first.
func (s *Store) ListRecords(ctx context.Context, filter domain.FilterState) ([]*domain.RawRecord, error) {
	query := `
		SELECT id, filename, branch, division, year, generated_at, created_at, headers, rows
		FROM records WHERE 1=1`
	args := []any{}

	if filter.Branch != "" {
		query += " AND branch = ?"
		args = append(args, filter.Branch)
	}
	if filter.Division != "" {
		query += " AND division = ?"
		args = append(args, filter.Division)
	}
	query += " ORDER BY generated_at DESC, filename ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*domain.RawRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// FilterOptions returns the distinct branches and divisions across all
// stored records, sorted ascending.
func (s *Store) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	branches, err := s.distinctColumn(ctx, "branch")
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	divisions, err := s.distinctColumn(ctx, "division")
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	return &domain.FilterOptions{Branches: branches, Divisions: divisions}, nil
}

func (s *Store) distinctColumn(ctx context.Context, column string) ([]string, error) {
	// column is a trusted identifier, never user input.
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM records WHERE %s != '' ORDER BY %s ASC`,
		column, column, column)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows for scanRecord.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.RawRecord, error) {
	var (
		rec                    domain.RawRecord
		generatedAt, createdAt string
		headers, rowsJSON      string
	)
	if err := row.Scan(&rec.ID, &rec.Filename, &rec.Branch, &rec.Division, &rec.Year,
		&generatedAt, &createdAt, &headers, &rowsJSON); err != nil {
		return nil, err
	}

	var err error
	if rec.GeneratedAt, err = parseTime(generatedAt); err != nil {
		return nil, fmt.Errorf("parse generated_at: %w", err)
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(headers), &rec.Table.Headers); err != nil {
		return nil, fmt.Errorf("unmarshal headers: %w", err)
	}
	if err := json.Unmarshal([]byte(rowsJSON), &rec.Table.Rows); err != nil {
		return nil, fmt.Errorf("unmarshal rows: %w", err)
	}
	return &rec, nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	// modernc.org/sqlite reports constraint violations in the message.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
