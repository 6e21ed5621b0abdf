package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ScheduleService/pkg/txmanager"
)

// maxReserveAttempts максимальное количество повторов атомарного UPDATE
// при транзиентных конфликтах хранилища
const maxReserveAttempts = 3

// Service движок резервирования емкости. Вся мутация used_capacity -
// одно- и многоместная - проходит через Reserve/Release этого сервиса.
type Service struct {
	store   IntervalStore
	metrics Metrics
	logger  Logger
}

// NewService создает новый экземпляр движка резервирования.
// metrics может быть nil, если сбор метрик выключен.
func NewService(store IntervalStore, metrics Metrics, logger Logger) *Service {
	return &Service{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Reserve атомарно резервирует quantity единиц емкости интервала.
// Либо успех, либо немедленный отказ с текущей доступной емкостью -
// очередей и ожидания нет. Повторяются только транзиентные конфликты
// хранилища, ограниченное число раз.
func (s *Service) Reserve(ctx context.Context, intervalID int64, quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	var lastErr error

	for attempt := 0; attempt < maxReserveAttempts; attempt++ {
		err := s.store.Reserve(ctx, intervalID, quantity)
		if err == nil {
			s.logger.Info("Reserve: interval=%d quantity=%d reserved", intervalID, quantity)
			s.incMetric("reserved")
			return nil
		}

		if errors.Is(err, scheduleRepo.ErrNoCapacity) {
			return s.capacityExceeded(ctx, intervalID, quantity)
		}

		if errors.Is(err, scheduleRepo.ErrIntervalNotFound) {
			return ErrIntervalNotFound
		}

		if !txmanager.IsRetryable(err) {
			s.logger.Error("Reserve: interval=%d quantity=%d failed: %v", intervalID, quantity, err)
			s.incMetric("error")
			return fmt.Errorf("%w: Reserve - store error: %v", ErrInternal, err)
		}

		s.logger.Warn("Reserve: interval=%d transient conflict (attempt %d): %v", intervalID, attempt+1, err)
		lastErr = err
	}

	s.incMetric("error")
	return fmt.Errorf("%w: Reserve - retries exhausted: %v", ErrInternal, lastErr)
}

// Release уменьшает использование интервала на quantity с нижней границей 0.
// Применяется для компенсации резерва, чья запись не была создана,
// и при отмене ещё не начавшейся записи.
func (s *Service) Release(ctx context.Context, intervalID int64, quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	var lastErr error

	for attempt := 0; attempt < maxReserveAttempts; attempt++ {
		err := s.store.Release(ctx, intervalID, quantity)
		if err == nil {
			s.logger.Info("Release: interval=%d quantity=%d released", intervalID, quantity)
			s.incMetric("released")
			return nil
		}

		if errors.Is(err, scheduleRepo.ErrIntervalNotFound) {
			return ErrIntervalNotFound
		}

		if !txmanager.IsRetryable(err) {
			s.logger.Error("Release: interval=%d quantity=%d failed: %v", intervalID, quantity, err)
			return fmt.Errorf("%w: Release - store error: %v", ErrInternal, err)
		}

		s.logger.Warn("Release: interval=%d transient conflict (attempt %d): %v", intervalID, attempt+1, err)
		lastErr = err
	}

	return fmt.Errorf("%w: Release - retries exhausted: %v", ErrInternal, lastErr)
}

// AvailableCapacity возвращает оставшуюся емкость интервала (только чтение)
func (s *Service) AvailableCapacity(ctx context.Context, intervalID int64) (int, error) {
	interval, err := s.getInterval(ctx, intervalID)
	if err != nil {
		return 0, err
	}
	return interval.AvailableCapacity(), nil
}

// capacityExceeded формирует отказ с актуальной доступной емкостью
func (s *Service) capacityExceeded(ctx context.Context, intervalID int64, quantity int) error {
	interval, err := s.getInterval(ctx, intervalID)
	if err != nil {
		return err
	}

	available := interval.AvailableCapacity()
	s.logger.Warn("Reserve: interval=%d quantity=%d rejected, available=%d", intervalID, quantity, available)
	s.incMetric("capacity_exceeded")

	return &CapacityExceededError{
		IntervalID: intervalID,
		Requested:  quantity,
		Available:  available,
	}
}

func (s *Service) getInterval(ctx context.Context, intervalID int64) (*domain.Interval, error) {
	interval, err := s.store.GetIntervalByID(ctx, intervalID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrIntervalNotFound) {
			return nil, ErrIntervalNotFound
		}
		return nil, fmt.Errorf("%w: failed to get interval: %v", ErrInternal, err)
	}
	return interval, nil
}

func (s *Service) incMetric(result string) {
	if s.metrics != nil {
		s.metrics.IncReservation(result)
	}
}

func validateQuantity(quantity int) error {
	if quantity <= 0 || quantity > domain.MaxReservationQuantity {
		return fmt.Errorf("%w: quantity must be in [1, %d]", ErrInvalidQuantity, domain.MaxReservationQuantity)
	}
	return nil
}
