package resolve_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	businesshoursRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/businesshours"
	locationRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	scheduleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// UseCase use case резолва доступности: по бизнесу, подсказке локации и
// моменту времени находит конкретный интервал и его свободную емкость.
// Чистое чтение, состояние не меняет.
type UseCase struct {
	hoursRepo    BusinessHoursRepository
	locationRepo LocationRepository
	scheduleRepo ScheduleRepository
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	hoursRepo BusinessHoursRepository,
	locationRepo LocationRepository,
	scheduleRepo ScheduleRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		hoursRepo:    hoursRepo,
		locationRepo: locationRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// Execute выполняет резолв доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ResolveAvailability: business=%d, time=%s", req.BusinessID, req.PointInTime.Format(domain.TimeFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ResolveAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем рабочие часы на день недели
	weekday := req.PointInTime.Weekday()
	hours, err := uc.hoursRepo.GetByBusinessAndWeekday(ctx, req.BusinessID, weekday)
	if err != nil {
		if errors.Is(err, businesshoursRepo.ErrHoursNotFound) {
			uc.logger.Info("ResolveAvailability: business=%d has no hours for weekday=%d", req.BusinessID, weekday)
			return nil, ErrClosed
		}
		uc.logger.Error("ResolveAvailability: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}
	if !hours.IsOpen() {
		uc.logger.Info("ResolveAvailability: business=%d is closed on weekday=%d", req.BusinessID, weekday)
		return nil, ErrClosed
	}

	// 3. Резолвим локацию по подсказке
	loc, err := uc.resolveLocation(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Проверяем наличие конфигурации расписания
	if _, err := uc.scheduleRepo.GetConfigByLocation(ctx, loc.ID); err != nil {
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			uc.logger.Warn("ResolveAvailability: location id=%d has no schedule config", loc.ID)
			return nil, ErrNotConfigured
		}
		uc.logger.Error("ResolveAvailability: failed to get schedule config: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule config: %v", ErrInternal, err)
	}

	// 5. Ищем интервал, накрывающий запрошенное время суток
	pointInTime := types.NewTimeString(req.PointInTime)
	interval, err := uc.scheduleRepo.FindIntervalAt(ctx, loc.ID, pointInTime)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrIntervalNotFound) {
			uc.logger.Info("ResolveAvailability: no interval at %s for location id=%d", pointInTime, loc.ID)
			return nil, ErrOutsideWindow
		}
		uc.logger.Error("ResolveAvailability: failed to find interval: %v", err)
		return nil, fmt.Errorf("%w: failed to find interval: %v", ErrInternal, err)
	}

	uc.logger.Info("ResolveAvailability: resolved interval id=%d [%s, %s), available=%d",
		interval.ID, interval.StartTime, interval.EndTime, interval.AvailableCapacity())

	return &Response{
		BusinessID:        req.BusinessID,
		LocationID:        loc.ID,
		IntervalID:        interval.ID,
		StartTime:         interval.StartTime,
		EndTime:           interval.EndTime,
		UnitPrice:         interval.UnitPrice,
		MaxCapacity:       interval.MaxCapacity,
		AvailableCapacity: interval.AvailableCapacity(),
	}, nil
}

// resolveLocation выбирает локацию бизнеса по текстовой подсказке.
// Без подсказки локация берется только если она у бизнеса единственная.
func (uc *UseCase) resolveLocation(ctx context.Context, req *Request) (*domain.Location, error) {
	locations, err := uc.locationRepo.GetByBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("ResolveAvailability: business id=%d has no locations", req.BusinessID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("ResolveAvailability: failed to get locations: %v", err)
		return nil, fmt.Errorf("%w: failed to get locations: %v", ErrInternal, err)
	}
	if len(locations) == 0 {
		uc.logger.Warn("ResolveAvailability: business id=%d has no locations", req.BusinessID)
		return nil, ErrLocationNotFound
	}

	if req.LocationHint == nil || *req.LocationHint == "" {
		if len(locations) == 1 {
			return locations[0], nil
		}
		uc.logger.Warn("ResolveAvailability: business id=%d has %d locations, hint required",
			req.BusinessID, len(locations))
		return nil, ErrLocationNotFound
	}

	matched := domain.MatchLocations(locations, *req.LocationHint)
	if len(matched) != 1 {
		uc.logger.Warn("ResolveAvailability: hint %q matched %d locations for business id=%d",
			*req.LocationHint, len(matched), req.BusinessID)
		return nil, ErrLocationNotFound
	}
	return matched[0], nil
}

func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: business_id must be positive", ErrInvalidInput)
	}
	if req.PointInTime.IsZero() {
		return fmt.Errorf("%w: point_in_time is required", ErrInvalidInput)
	}
	return nil
}
