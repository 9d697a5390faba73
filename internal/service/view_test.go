package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/timetable-server/internal/domain"
	"github.com/campusgrid/timetable-server/internal/store"
)

// fakeStore implements store.Store with a pluggable ListRecords.
type fakeStore struct {
	mu        sync.Mutex
	listCalls int
	list      func(ctx context.Context, filter domain.FilterState) ([]*domain.RawRecord, error)
}

func (f *fakeStore) ListRecords(ctx context.Context, filter domain.FilterState) ([]*domain.RawRecord, error) {
	f.mu.Lock()
	f.listCalls++
	fn := f.list
	f.mu.Unlock()
	return fn(ctx, filter)
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeStore) setList(fn func(ctx context.Context, filter domain.FilterState) ([]*domain.RawRecord, error)) {
	f.mu.Lock()
	f.list = fn
	f.mu.Unlock()
}

func (f *fakeStore) CreateRecord(context.Context, *domain.RawRecord) error { return nil }
func (f *fakeStore) GetRecord(context.Context, string) (*domain.RawRecord, error) {
	return nil, store.ErrNotFound
}
func (f *fakeStore) FilterOptions(context.Context) (*domain.FilterOptions, error) {
	return &domain.FilterOptions{}, nil
}
func (f *fakeStore) Ping(context.Context) error { return nil }
func (f *fakeStore) Close() error               { return nil }

func viewRecord(id, filename string) *domain.RawRecord {
	return &domain.RawRecord{
		ID:       id,
		Filename: filename,
		Branch:   "CSE",
		Division: "A",
		Table: domain.RecordTable{
			Rows: [][]string{
				{"Monday", "9:00-10:00", "B1", "Data Structures", "Dr. Rao", "Room 101"},
			},
		},
	}
}

func staticStore(records ...*domain.RawRecord) *fakeStore {
	return &fakeStore{
		list: func(context.Context, domain.FilterState) ([]*domain.RawRecord, error) {
			return records, nil
		},
	}
}

func newViewService(s store.Store) *ViewService {
	return NewViewService(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestApply_DefaultsToFirstRecord(t *testing.T) {
	newest := viewRecord("rec-2", "cse_a_v2.json")
	older := viewRecord("rec-1", "cse_a_v1.json")
	svc := newViewService(staticStore(newest, older))

	view := svc.Apply(context.Background(), domain.FilterState{}, "")

	require.NotNil(t, view.Active)
	assert.Equal(t, "rec-2", view.Active.ID)
	assert.Equal(t, 1, view.Grid.Len())
}

func TestApply_SameFilterDoesNotReload(t *testing.T) {
	fs := staticStore(viewRecord("rec-1", "a.json"))
	svc := newViewService(fs)
	ctx := context.Background()

	filter := domain.FilterState{Branch: "CSE"}
	svc.Apply(ctx, filter, "")
	svc.Apply(ctx, filter, "")

	assert.Equal(t, 1, fs.calls())
}

func TestApply_FilterChangeReloadsAndResetsSelection(t *testing.T) {
	cse := viewRecord("rec-cse", "cse.json")
	ece := viewRecord("rec-ece", "ece.json")
	fs := &fakeStore{
		list: func(_ context.Context, filter domain.FilterState) ([]*domain.RawRecord, error) {
			if filter.Branch == "ECE" {
				return []*domain.RawRecord{ece}, nil
			}
			return []*domain.RawRecord{cse}, nil
		},
	}
	svc := newViewService(fs)
	ctx := context.Background()

	view := svc.Apply(ctx, domain.FilterState{Branch: "CSE"}, "cse.json")
	require.NotNil(t, view.Active)
	assert.Equal(t, "rec-cse", view.Active.ID)

	view = svc.Apply(ctx, domain.FilterState{Branch: "ECE"}, "")
	require.NotNil(t, view.Active)
	assert.Equal(t, "rec-ece", view.Active.ID)
	assert.Equal(t, 2, fs.calls())
}

func TestApply_SelectionPersistsUntilRefresh(t *testing.T) {
	newest := viewRecord("rec-2", "v2.json")
	older := viewRecord("rec-1", "v1.json")
	svc := newViewService(staticStore(newest, older))
	ctx := context.Background()

	view := svc.Apply(ctx, domain.FilterState{}, "v1.json")
	require.NotNil(t, view.Active)
	assert.Equal(t, "rec-1", view.Active.ID)

	// Selection sticks across requests that do not change it.
	view = svc.Apply(ctx, domain.FilterState{}, "")
	require.NotNil(t, view.Active)
	assert.Equal(t, "rec-1", view.Active.ID)

	// Refresh reverts to the default record.
	view = svc.Refresh(ctx)
	require.NotNil(t, view.Active)
	assert.Equal(t, "rec-2", view.Active.ID)
}

func TestApply_ClearSelection(t *testing.T) {
	svc := newViewService(staticStore(viewRecord("rec-1", "a.json")))
	ctx := context.Background()

	view := svc.Apply(ctx, domain.FilterState{}, domain.SelectionNone)

	assert.Nil(t, view.Active)
	assert.Equal(t, 0, view.Grid.Len())
	assert.Len(t, view.Records, 1)
}

func TestApply_EmptyResultSetClearsActive(t *testing.T) {
	rec := viewRecord("rec-1", "cse.json")
	fs := &fakeStore{
		list: func(_ context.Context, filter domain.FilterState) ([]*domain.RawRecord, error) {
			if filter.Branch == "CSE" {
				return []*domain.RawRecord{rec}, nil
			}
			return nil, nil
		},
	}
	svc := newViewService(fs)
	ctx := context.Background()

	view := svc.Apply(ctx, domain.FilterState{Branch: "CSE"}, "cse.json")
	require.NotNil(t, view.Active)

	// A filter with no matching records yields an empty view, not a stale one.
	view = svc.Apply(ctx, domain.FilterState{Branch: "CIVIL"}, "")

	assert.Nil(t, view.Active)
	assert.Empty(t, view.Records)
	assert.Equal(t, 0, view.Grid.Len())
	assert.Empty(t, view.Notice)
}

func TestApply_DuplicateFilenameFirstMatchWins(t *testing.T) {
	first := viewRecord("rec-1", "same.json")
	second := viewRecord("rec-2", "same.json")
	svc := newViewService(staticStore(first, second))

	view := svc.Apply(context.Background(), domain.FilterState{}, "same.json")

	require.NotNil(t, view.Active)
	assert.Equal(t, "rec-1", view.Active.ID)
}

func TestApply_UnknownSelectionFallsBackToDefault(t *testing.T) {
	svc := newViewService(staticStore(viewRecord("rec-1", "a.json")))

	view := svc.Apply(context.Background(), domain.FilterState{}, "missing.json")

	require.NotNil(t, view.Active)
	assert.Equal(t, "rec-1", view.Active.ID)
}

func TestApply_FetchFailureRetainsPriorData(t *testing.T) {
	fs := staticStore(viewRecord("rec-1", "a.json"))
	svc := newViewService(fs)
	ctx := context.Background()

	view := svc.Apply(ctx, domain.FilterState{}, "")
	require.Len(t, view.Records, 1)
	assert.Empty(t, view.Notice)

	fs.setList(func(context.Context, domain.FilterState) ([]*domain.RawRecord, error) {
		return nil, errors.New("database locked")
	})

	view = svc.Apply(ctx, domain.FilterState{Branch: "ECE"}, "")

	// Previous records survive the failed reload.
	require.Len(t, view.Records, 1)
	assert.Equal(t, "rec-1", view.Records[0].ID)
	assert.Equal(t, FetchNotice, view.Notice)

	// A successful reload clears the notice.
	fs.setList(func(context.Context, domain.FilterState) ([]*domain.RawRecord, error) {
		return []*domain.RawRecord{viewRecord("rec-2", "b.json")}, nil
	})
	view = svc.Refresh(ctx)
	assert.Empty(t, view.Notice)
	require.Len(t, view.Records, 1)
	assert.Equal(t, "rec-2", view.Records[0].ID)
}

func TestApply_StaleFetchDiscarded(t *testing.T) {
	slowRec := viewRecord("rec-slow", "slow.json")
	fastRec := viewRecord("rec-fast", "fast.json")

	started := make(chan string, 2)
	release := map[string]chan struct{}{
		"SLOW": make(chan struct{}),
		"FAST": make(chan struct{}),
	}
	fs := &fakeStore{
		list: func(_ context.Context, filter domain.FilterState) ([]*domain.RawRecord, error) {
			started <- filter.Branch
			<-release[filter.Branch]
			if filter.Branch == "SLOW" {
				return []*domain.RawRecord{slowRec}, nil
			}
			return []*domain.RawRecord{fastRec}, nil
		},
	}
	svc := newViewService(fs)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		svc.Apply(ctx, domain.FilterState{Branch: "SLOW"}, "")
	}()
	requireStarted(t, started, "SLOW")

	go func() {
		defer wg.Done()
		svc.Apply(ctx, domain.FilterState{Branch: "FAST"}, "")
	}()
	requireStarted(t, started, "FAST")

	// The newer fetch completes first; the older one finishes late and must
	// be discarded.
	close(release["FAST"])
	close(release["SLOW"])
	wg.Wait()

	view := svc.Apply(ctx, domain.FilterState{Branch: "FAST"}, "")
	require.Len(t, view.Records, 1)
	assert.Equal(t, "rec-fast", view.Records[0].ID)
}

func requireStarted(t *testing.T, started <-chan string, want string) {
	t.Helper()
	select {
	case got := <-started:
		require.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatalf("fetch for %s never started", want)
	}
}
