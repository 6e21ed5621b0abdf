package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/reservations"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/resolve_availability"
)

// UseCase use case создания записи: резолв доступности, атомарное
// резервирование емкости и материализация записи. Если сохранение записи
// не удалось после успешного резерва, резерв компенсируется освобождением.
type UseCase struct {
	resolver AvailabilityResolver
	engine   ReservationEngine
	apptRepo AppointmentRepository
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resolver AvailabilityResolver,
	engine ReservationEngine,
	apptRepo AppointmentRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		resolver: resolver,
		engine:   engine,
		apptRepo: apptRepo,
		logger:   logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: customer=%d, business=%d, time=%s, quantity=%d",
		req.CustomerID, req.BusinessID, req.PointInTime.Format(domain.TimeFormat), req.Quantity)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Резолвим интервал для запрошенного момента
	availability, err := uc.resolver.Execute(ctx, &resolve_availability.Request{
		BusinessID:   req.BusinessID,
		LocationHint: req.LocationHint,
		PointInTime:  req.PointInTime,
	})
	if err != nil {
		return nil, uc.mapResolveError(err)
	}

	// 3. Быстрая проверка емкости до резерва. Авторитетна не она,
	// а условный инкремент внутри Reserve.
	if req.Quantity > availability.AvailableCapacity {
		uc.logger.Warn("BookAppointment: interval id=%d has %d available, requested %d",
			availability.IntervalID, availability.AvailableCapacity, req.Quantity)
		return nil, &CapacityExceededError{
			IntervalID: availability.IntervalID,
			Requested:  req.Quantity,
			Available:  availability.AvailableCapacity,
		}
	}

	// 4. Атомарно резервируем емкость
	if err := uc.engine.Reserve(ctx, availability.IntervalID, req.Quantity); err != nil {
		return nil, uc.mapReserveError(err, req.Quantity)
	}

	// 5. Материализуем запись с каноническим окном интервала
	appt := &domain.Appointment{
		CustomerID:  req.CustomerID,
		BusinessID:  req.BusinessID,
		LocationID:  availability.LocationID,
		IntervalID:  availability.IntervalID,
		BookingDate: truncateToDate(req.PointInTime),
		StartTime:   availability.StartTime,
		EndTime:     availability.EndTime,
		Quantity:    req.Quantity,
		UnitPrice:   availability.UnitPrice,
		Status:      domain.StatusPending,
		Notes:       req.Notes,
	}

	created, err := uc.apptRepo.Create(ctx, appt)
	if err != nil {
		uc.logger.Error("BookAppointment: failed to create appointment: %v", err)
		// Компенсируем успешный резерв, иначе емкость утечет
		if relErr := uc.engine.Release(ctx, availability.IntervalID, req.Quantity); relErr != nil {
			uc.logger.Error("BookAppointment: failed to release interval id=%d after create failure: %v",
				availability.IntervalID, relErr)
		}
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	uc.logger.Info("BookAppointment: created appointment id=%d, interval=%d [%s, %s)",
		created.ID, created.IntervalID, created.StartTime, created.EndTime)

	return &Response{
		ID:          created.ID,
		CustomerID:  created.CustomerID,
		BusinessID:  created.BusinessID,
		LocationID:  created.LocationID,
		IntervalID:  created.IntervalID,
		BookingDate: created.BookingDate,
		StartTime:   created.StartTime,
		EndTime:     created.EndTime,
		Quantity:    created.Quantity,
		UnitPrice:   created.UnitPrice,
		TotalPrice:  created.UnitPrice * float64(created.Quantity),
		Status:      string(created.Status),
		Notes:       created.Notes,
		CreatedAt:   created.CreatedAt,
	}, nil
}

// mapResolveError транслирует ошибки резолвера в ошибки usecase
func (uc *UseCase) mapResolveError(err error) error {
	switch {
	case errors.Is(err, resolve_availability.ErrClosed):
		return ErrBusinessClosed
	case errors.Is(err, resolve_availability.ErrLocationNotFound):
		return ErrLocationNotFound
	case errors.Is(err, resolve_availability.ErrNotConfigured):
		return ErrNotConfigured
	case errors.Is(err, resolve_availability.ErrOutsideWindow):
		return ErrOutsideWindow
	case errors.Is(err, resolve_availability.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		uc.logger.Error("BookAppointment: resolver failed: %v", err)
		return fmt.Errorf("%w: failed to resolve availability: %v", ErrInternal, err)
	}
}

// mapReserveError транслирует ошибки движка резервирования
func (uc *UseCase) mapReserveError(err error, requested int) error {
	var capErr *reservations.CapacityExceededError
	if errors.As(err, &capErr) {
		uc.logger.Warn("BookAppointment: reserve lost the race on interval id=%d: %v", capErr.IntervalID, err)
		return &CapacityExceededError{
			IntervalID: capErr.IntervalID,
			Requested:  capErr.Requested,
			Available:  capErr.Available,
		}
	}
	if errors.Is(err, reservations.ErrCapacityExceeded) {
		return fmt.Errorf("%w: requested %d", ErrCapacityExceeded, requested)
	}
	if errors.Is(err, reservations.ErrIntervalNotFound) {
		return ErrOutsideWindow
	}
	if errors.Is(err, reservations.ErrInvalidQuantity) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	uc.logger.Error("BookAppointment: reserve failed: %v", err)
	return fmt.Errorf("%w: failed to reserve capacity: %v", ErrInternal, err)
}

func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customer_id must be positive", ErrInvalidInput)
	}
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: business_id must be positive", ErrInvalidInput)
	}
	if req.PointInTime.IsZero() {
		return fmt.Errorf("%w: point_in_time is required", ErrInvalidInput)
	}
	if req.Quantity < 1 || req.Quantity > domain.MaxReservationQuantity {
		return fmt.Errorf("%w: quantity must be between 1 and %d", ErrInvalidInput, domain.MaxReservationQuantity)
	}
	return nil
}

// truncateToDate обрезает момент времени до даты
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
