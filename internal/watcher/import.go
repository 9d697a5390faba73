package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/campusgrid/timetable-server/internal/service"
)

// importFile parses a dropped file, imports its records, and archives it.
// Failed files stay in place so the operator can inspect them.
func (w *ImportWatcher) importFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from the watched directory
	if err != nil {
		w.logger.Warn("failed to read import file", "path", path, "error", err)
		return
	}

	reqs, err := parseImportFile(data)
	if err != nil {
		w.logger.Warn("failed to parse import file", "path", path, "error", err)
		return
	}

	// Drops without a filename inherit the drop file's name.
	base := filepath.Base(path)
	for i := range reqs {
		if reqs[i].Filename == "" {
			reqs[i].Filename = base
		}
	}

	imported, err := w.service.ImportBatch(ctx, reqs)
	if err != nil && len(imported) == 0 {
		w.logger.Warn("import file produced no records", "path", path, "error", err)
		return
	}

	w.logger.Info("import file processed", "path", path, "imported", len(imported))

	if err := w.archive(path); err != nil {
		w.logger.Warn("failed to archive import file", "path", path, "error", err)
	}
}

// parseImportFile decodes a drop file. The payload is either a single record
// object or an array of them.
func parseImportFile(data []byte) ([]service.ImportRecordRequest, error) {
	var batch []service.ImportRecordRequest
	if err := json.Unmarshal(data, &batch); err == nil {
		return batch, nil
	}

	var single service.ImportRecordRequest
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("decode import payload: %w", err)
	}
	return []service.ImportRecordRequest{single}, nil
}

// archive moves a processed file into the processed subdirectory.
func (w *ImportWatcher) archive(path string) error {
	target := filepath.Join(w.dir, processedDir, filepath.Base(path))
	return os.Rename(path, target)
}
