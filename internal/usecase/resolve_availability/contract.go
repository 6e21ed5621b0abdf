package resolve_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// BusinessHoursRepository интерфейс репозитория рабочих часов
type BusinessHoursRepository interface {
	GetByBusinessAndWeekday(ctx context.Context, businessID int64, weekday time.Weekday) (*domain.BusinessHours, error)
}

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetByBusiness(ctx context.Context, businessID int64) ([]*domain.Location, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetConfigByLocation(ctx context.Context, locationID int64) (*domain.ScheduleConfig, error)
	FindIntervalAt(ctx context.Context, locationID int64, t types.TimeString) (*domain.Interval, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
