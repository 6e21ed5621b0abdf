package book_appointment

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/resolve_availability"
)

// AvailabilityResolver интерфейс резолвера доступности
type AvailabilityResolver interface {
	Execute(ctx context.Context, req *resolve_availability.Request) (*resolve_availability.Response, error)
}

// ReservationEngine интерфейс движка резервирования емкости
type ReservationEngine interface {
	Reserve(ctx context.Context, intervalID int64, quantity int) error
	Release(ctx context.Context, intervalID int64, quantity int) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
