package reservations

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// IntervalStore интерфейс хранилища интервалов.
// Reserve обязан быть единственной атомарной точкой мутации емкости.
type IntervalStore interface {
	Reserve(ctx context.Context, intervalID int64, quantity int) error
	Release(ctx context.Context, intervalID int64, quantity int) error
	GetIntervalByID(ctx context.Context, id int64) (*domain.Interval, error)
}

// Metrics интерфейс сборщика доменных метрик (может быть nil)
type Metrics interface {
	IncReservation(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
