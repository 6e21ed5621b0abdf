package schedule

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// ScheduleRepository интерфейс репозитория конфигурации и интервалов
type ScheduleRepository interface {
	UpsertConfig(ctx context.Context, config *domain.ScheduleConfig) (*domain.ScheduleConfig, error)
	GetConfigByLocation(ctx context.Context, locationID int64) (*domain.ScheduleConfig, error)
	DeleteIntervalsByLocation(ctx context.Context, locationID int64) error
	InsertIntervals(ctx context.Context, locationID int64, intervals []domain.Interval) error
	GetIntervalsByLocation(ctx context.Context, locationID int64) ([]*domain.Interval, error)
	CountIntervalsInUse(ctx context.Context, locationID int64) (int, error)
	ResetUsage(ctx context.Context, locationID int64) error
}

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
