package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/timetable-server/internal/domain"
	"github.com/campusgrid/timetable-server/internal/store"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(id, filename, branch, division string, generatedAt time.Time) *domain.RawRecord {
	return &domain.RawRecord{
		ID:          id,
		Filename:    filename,
		Branch:      branch,
		Division:    division,
		Year:        "2026",
		GeneratedAt: generatedAt,
		CreatedAt:   time.Now().UTC(),
		Table: domain.RecordTable{
			Headers: []string{"Day", "Time", "Class/Batch", "Course Name", "Faculty", "Venue"},
			Rows: [][]string{
				{"**Monday**", "9:00-10:00", "B1", "Data Structures", "Dr. Rao", "Room 101"},
				{"ALL", "12:00-1:00", "", "LUNCH", "", ""},
			},
		},
	}
}

func TestCreateAndGetRecord(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	rec := testRecord("rec-1", "cse_a.json", "CSE", "A", time.Now().UTC())
	require.NoError(t, s.CreateRecord(ctx, rec))

	got, err := s.GetRecord(ctx, "rec-1")
	require.NoError(t, err)

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Filename, got.Filename)
	assert.Equal(t, rec.Branch, got.Branch)
	assert.Equal(t, rec.Division, got.Division)
	assert.Equal(t, rec.Table.Headers, got.Table.Headers)
	assert.Equal(t, rec.Table.Rows, got.Table.Rows)
	assert.WithinDuration(t, rec.GeneratedAt, got.GeneratedAt, time.Millisecond)
}

func TestCreateRecord_Duplicate(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	rec := testRecord("rec-1", "cse_a.json", "CSE", "A", time.Now().UTC())
	require.NoError(t, s.CreateRecord(ctx, rec))

	err := s.CreateRecord(ctx, rec)
	require.Error(t, err)

	var storeErr *store.Error
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, store.ErrAlreadyExists.Code, storeErr.HTTPCode())
}

func TestGetRecord_NotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.GetRecord(context.Background(), "rec-missing")
	require.Error(t, err)

	var storeErr *store.Error
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, store.ErrNotFound.Code, storeErr.HTTPCode())
}

func TestListRecords_FilterAndOrder(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateRecord(ctx, testRecord("rec-1", "cse_a_v1.json", "CSE", "A", base)))
	require.NoError(t, s.CreateRecord(ctx, testRecord("rec-2", "cse_a_v2.json", "CSE", "A", base.Add(time.Hour))))
	require.NoError(t, s.CreateRecord(ctx, testRecord("rec-3", "ece_b.json", "ECE", "B", base)))

	all, err := s.ListRecords(ctx, domain.FilterState{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	cseA, err := s.ListRecords(ctx, domain.FilterState{Branch: "CSE", Division: "A"})
	require.NoError(t, err)
	require.Len(t, cseA, 2)
	// Newest generation first.
	assert.Equal(t, "rec-2", cseA[0].ID)
	assert.Equal(t, "rec-1", cseA[1].ID)

	ece, err := s.ListRecords(ctx, domain.FilterState{Branch: "ECE"})
	require.NoError(t, err)
	require.Len(t, ece, 1)
	assert.Equal(t, "rec-3", ece[0].ID)
}

func TestListRecords_OrderWithMixedPrecisionTimestamps(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	// Whole-second and sub-second timestamps within the same second must
	// still order chronologically in the stored text representation.
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateRecord(ctx, testRecord("rec-old", "v1.json", "CSE", "A", base)))
	require.NoError(t, s.CreateRecord(ctx, testRecord("rec-new", "v2.json", "CSE", "A", base.Add(500*time.Millisecond))))

	got, err := s.ListRecords(ctx, domain.FilterState{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "rec-new", got[0].ID)
	assert.Equal(t, "rec-old", got[1].ID)
}

func TestListRecords_NoMatches(t *testing.T) {
	s := setupStore(t)

	got, err := s.ListRecords(context.Background(), domain.FilterState{Branch: "MECH"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFilterOptions(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, s.CreateRecord(ctx, testRecord("rec-1", "a.json", "CSE", "A", now)))
	require.NoError(t, s.CreateRecord(ctx, testRecord("rec-2", "b.json", "ECE", "B", now)))
	require.NoError(t, s.CreateRecord(ctx, testRecord("rec-3", "c.json", "CSE", "B", now)))

	opts, err := s.FilterOptions(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"CSE", "ECE"}, opts.Branches)
	assert.Equal(t, []string{"A", "B"}, opts.Divisions)
}

func TestPing(t *testing.T) {
	s := setupStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}
