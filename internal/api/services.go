package api

import (
	"github.com/campusgrid/timetable-server/internal/service"
)

// Services groups the business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Timetable *service.TimetableService
	View      *service.ViewService
}
