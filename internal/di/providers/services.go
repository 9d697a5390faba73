package providers

import (
	"github.com/samber/do/v2"

	"github.com/campusgrid/timetable-server/internal/logger"
	"github.com/campusgrid/timetable-server/internal/service"
)

// ProvideTimetableService provides the record import and query service.
func ProvideTimetableService(i do.Injector) (*service.TimetableService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewTimetableService(storeHandle.Store, log.Logger)
	svc.SetEventPublisher(sseHandle.Manager)
	return svc, nil
}

// ProvideViewService provides the grid view service.
func ProvideViewService(i do.Injector) (*service.ViewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewViewService(storeHandle.Store, log.Logger), nil
}
