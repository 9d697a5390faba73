package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/campusgrid/timetable-server/internal/config"
	"github.com/campusgrid/timetable-server/internal/logger"
	"github.com/campusgrid/timetable-server/internal/service"
	"github.com/campusgrid/timetable-server/internal/watcher"
)

// ImportWatcherHandle wraps the import watcher with lifecycle management.
type ImportWatcherHandle struct {
	*watcher.ImportWatcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *ImportWatcherHandle) Shutdown() error {
	if h.ImportWatcher == nil {
		return nil
	}
	h.cancel()
	return h.Stop()
}

// ProvideImportWatcher provides the import directory watcher. Disabled via
// WATCH_IMPORTS=false; the handle is still returned so shutdown stays uniform.
func ProvideImportWatcher(i do.Injector) (*ImportWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Data.WatchImports {
		log.Info("import watcher disabled by configuration")
		return &ImportWatcherHandle{}, nil
	}

	svc := do.MustInvoke[*service.TimetableService](i)

	w, err := watcher.New(cfg.Data.ImportPath, svc, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := w.Start(ctx); err != nil {
			log.WithError(err).Error("import watcher error")
		}
	}()

	log.WithField("dir", cfg.Data.ImportPath).Info("import watcher started")

	return &ImportWatcherHandle{ImportWatcher: w, cancel: cancel}, nil
}
