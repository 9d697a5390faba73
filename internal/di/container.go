// Package di provides dependency injection configuration for the timetable
// server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/campusgrid/timetable-server/internal/config"
	"github.com/campusgrid/timetable-server/internal/di/providers"
	"github.com/campusgrid/timetable-server/internal/logger"
	"github.com/campusgrid/timetable-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideTimetableService)
	do.Provide(injector, providers.ProvideViewService)

	// Workers
	do.Provide(injector, providers.ProvideImportWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)

	_ = do.MustInvoke[*service.TimetableService](injector)
	_ = do.MustInvoke[*service.ViewService](injector)

	_ = do.MustInvoke[*providers.ImportWatcherHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
