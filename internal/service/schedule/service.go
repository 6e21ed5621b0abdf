package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	locationRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	scheduleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule/models"
)

// Service сервис конфигурации расписания локаций.
// Владеет жизненным циклом интервалов: set-конфигурация всегда полностью
// перегенерирует набор интервалов локации.
type Service struct {
	scheduleRepo ScheduleRepository
	locationRepo LocationRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	locationRepo LocationRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		locationRepo: locationRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// SetConfiguration создает или заменяет конфигурацию локации и перегенерирует
// её интервалы. Выполняется в сериализуемой транзакции, эксклюзивной для
// локации: delete+recreate не пересекается с параллельными Reserve/Release.
// Если какой-либо текущий интервал имеет ненулевое использование, операция
// отклоняется с ErrIntervalsInUse - живые резервы не выбрасываются молча.
func (s *Service) SetConfiguration(ctx context.Context, req *models.SetConfigurationRequest) (*models.ConfigResponse, error) {
	s.logger.Info("SetConfiguration: location=%d, window=[%s, %s), duration=%d, capacity=%d",
		req.LocationID, req.StartTime, req.EndTime, req.SlotDurationMinutes, req.CapacityPerInterval)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		s.logger.Warn("SetConfiguration: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование локации
	if _, err := s.locationRepo.GetByID(ctx, req.LocationID); err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			s.logger.Warn("SetConfiguration: location id=%d not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		s.logger.Error("SetConfiguration: failed to get location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	// 3. Генерируем новый набор интервалов (чистая функция, вне транзакции)
	window := domain.Window{StartTime: req.StartTime, EndTime: req.EndTime}
	intervals, err := domain.GenerateIntervals(window, req.SlotDurationMinutes, req.CapacityPerInterval, req.UnitPrice)
	if err != nil {
		s.logger.Warn("SetConfiguration: interval generation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}

	var result *domain.ScheduleConfig

	// 4. Перегенерация в сериализуемой транзакции
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Отказываемся затирать интервалы с живыми резервами
		inUse, err := s.scheduleRepo.CountIntervalsInUse(txCtx, req.LocationID)
		if err != nil {
			return fmt.Errorf("%w: failed to count intervals in use: %v", ErrInternal, err)
		}
		if inUse > 0 {
			s.logger.Warn("SetConfiguration: location id=%d has %d intervals with reservations",
				req.LocationID, inUse)
			return ErrIntervalsInUse
		}

		// 4.2. Upsert конфигурации
		config := &domain.ScheduleConfig{
			LocationID:          req.LocationID,
			StartTime:           req.StartTime,
			EndTime:             req.EndTime,
			SlotDurationMinutes: req.SlotDurationMinutes,
			CapacityPerInterval: req.CapacityPerInterval,
			UnitPrice:           req.UnitPrice,
		}

		upserted, err := s.scheduleRepo.UpsertConfig(txCtx, config)
		if err != nil {
			return fmt.Errorf("%w: failed to upsert config: %v", ErrInternal, err)
		}

		// 4.3. Полная замена набора интервалов
		if err := s.scheduleRepo.DeleteIntervalsByLocation(txCtx, req.LocationID); err != nil {
			return fmt.Errorf("%w: failed to delete intervals: %v", ErrInternal, err)
		}
		if err := s.scheduleRepo.InsertIntervals(txCtx, req.LocationID, intervals); err != nil {
			return fmt.Errorf("%w: failed to insert intervals: %v", ErrInternal, err)
		}

		result = upserted
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 5. Читаем созданные интервалы для ответа
	created, err := s.scheduleRepo.GetIntervalsByLocation(ctx, req.LocationID)
	if err != nil {
		s.logger.Error("SetConfiguration: failed to read back intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to read back intervals: %v", ErrInternal, err)
	}

	s.logger.Info("SetConfiguration: location=%d regenerated %d intervals", req.LocationID, len(created))
	return models.FromDomainConfig(result, created, 0), nil
}

// GetConfiguration получает конфигурацию локации вместе с интервалами
// и производным агрегатом использования
func (s *Service) GetConfiguration(ctx context.Context, locationID int64) (*models.ConfigResponse, error) {
	s.logger.Info("GetConfiguration: location=%d", locationID)

	if locationID <= 0 {
		return nil, fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	config, err := s.scheduleRepo.GetConfigByLocation(ctx, locationID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			s.logger.Warn("GetConfiguration: config for location id=%d not found", locationID)
			return nil, ErrConfigNotFound
		}
		s.logger.Error("GetConfiguration: repository error for location id=%d: %v", locationID, err)
		return nil, fmt.Errorf("%w: GetConfiguration - repository error: %v", ErrInternal, err)
	}

	intervals, err := s.scheduleRepo.GetIntervalsByLocation(ctx, locationID)
	if err != nil {
		s.logger.Error("GetConfiguration: failed to get intervals for location id=%d: %v", locationID, err)
		return nil, fmt.Errorf("%w: failed to get intervals: %v", ErrInternal, err)
	}

	// Агрегат "занято за день" всегда выводится из интервалов
	usedSlots := 0
	for _, interval := range intervals {
		usedSlots += interval.UsedCapacity
	}

	return models.FromDomainConfig(config, intervals, usedSlots), nil
}

// ResetUsage обнуляет использование всех интервалов локации и ставит отметку
// времени сброса на конфигурации
func (s *Service) ResetUsage(ctx context.Context, locationID int64) error {
	s.logger.Info("ResetUsage: location=%d", locationID)

	if locationID <= 0 {
		return fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	if err := s.scheduleRepo.ResetUsage(ctx, locationID); err != nil {
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			s.logger.Warn("ResetUsage: config for location id=%d not found", locationID)
			return ErrConfigNotFound
		}
		s.logger.Error("ResetUsage: repository error for location id=%d: %v", locationID, err)
		return fmt.Errorf("%w: ResetUsage - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ResetUsage: location=%d usage reset", locationID)
	return nil
}

// validateRequest валидирует параметры конфигурации
func validateRequest(req *models.SetConfigurationRequest) error {
	if req.LocationID <= 0 {
		return fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidWindow, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidWindow, err)
	}
	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidWindow)
	}

	if req.SlotDurationMinutes < domain.MinSlotDurationMinutes || req.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slotDurationMinutes must be in [%d, %d]",
			ErrInvalidWindow, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	if req.CapacityPerInterval < domain.MinCapacityPerInterval || req.CapacityPerInterval > domain.MaxCapacityPerInterval {
		return fmt.Errorf("%w: capacityPerInterval must be in [%d, %d]",
			ErrInvalidInput, domain.MinCapacityPerInterval, domain.MaxCapacityPerInterval)
	}

	if req.UnitPrice < 0 {
		return fmt.Errorf("%w: unitPrice must be non-negative", ErrInvalidInput)
	}

	return nil
}
