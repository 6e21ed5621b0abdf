package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	apptRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ScheduleService/internal/service/appointments/models"
)

// Service сервис жизненного цикла записей: чтение, подтверждение, отмена
// и завершение истекших записей (точка входа lifecycle sweep)
type Service struct {
	apptRepo     AppointmentRepository
	reservations ReservationEngine
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей.
// metrics может быть nil, если сбор метрик выключен.
func NewService(
	apptRepo AppointmentRepository,
	reservations ReservationEngine,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		apptRepo:     apptRepo,
		reservations: reservations,
		timeProvider: &RealTimeProvider{},
		metrics:      metrics,
		logger:       logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appt, err := s.getAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// GetByCustomer получает историю записей клиента
func (s *Service) GetByCustomer(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*models.AppointmentResponse, error) {
	s.logger.Info("GetByCustomer: fetching appointments for customer=%d", customerID)

	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	appointments, err := s.apptRepo.GetByCustomer(ctx, customerID, status)
	if err != nil {
		s.logger.Error("GetByCustomer: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: GetByCustomer - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments), nil
}

// GetByLocation получает записи локации с фильтрацией по периоду и статусу
func (s *Service) GetByLocation(ctx context.Context, filter domain.LocationAppointmentsFilter) ([]*models.AppointmentResponse, error) {
	s.logger.Info("GetByLocation: fetching appointments for location=%d", filter.LocationID)

	if filter.LocationID <= 0 {
		return nil, fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	appointments, err := s.apptRepo.GetByLocationWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetByLocation: repository error for location=%d: %v", filter.LocationID, err)
		return nil, fmt.Errorf("%w: GetByLocation - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments), nil
}

// Approve подтверждает ожидающую запись (pending -> approved)
func (s *Service) Approve(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Approve: approving appointment id=%d", id)

	appt, err := s.getAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if !appt.CanBeApproved() {
		s.logger.Warn("Approve: appointment id=%d in status %s cannot be approved", id, appt.Status)
		return nil, ErrCannotApprove
	}

	if err := s.apptRepo.UpdateStatus(ctx, id, domain.StatusApproved); err != nil {
		s.logger.Error("Approve: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Approve - repository error: %v", ErrInternal, err)
	}

	appt.Status = domain.StatusApproved
	s.logger.Info("Approve: appointment id=%d approved", id)
	return models.FromDomainAppointment(appt), nil
}

// Cancel отменяет активную запись. Если запись ещё не началась, её единицы
// емкости возвращаются интервалу; начавшиеся и прошедшие записи емкость
// не возвращают - она израсходована на этот день.
func (s *Service) Cancel(ctx context.Context, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d", req.AppointmentID)

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	appt, err := s.getAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d in status %s cannot be cancelled", req.AppointmentID, appt.Status)
		return nil, ErrCannotCancel
	}

	if err := s.apptRepo.Cancel(ctx, req.AppointmentID, req.Reason); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	if appt.StartsAfter(now) {
		if err := s.reservations.Release(ctx, appt.IntervalID, appt.Quantity); err != nil {
			// Запись уже отменена; потерянный возврат емкости только логируем
			s.logger.Error("Cancel: failed to release %d units on interval=%d for appointment id=%d: %v",
				appt.Quantity, appt.IntervalID, req.AppointmentID, err)
		}
	}

	appt.Status = domain.StatusCancelled
	appt.CancellationReason = &req.Reason
	appt.CancelledAt = &now

	s.logger.Info("Cancel: appointment id=%d cancelled", req.AppointmentID)
	return models.FromDomainAppointment(appt), nil
}

// CompleteElapsed переводит в completed все активные записи, чье время
// окончания прошло. Вызывается lifecycle sweep-ом по таймеру; может быть
// вызвана и внешним планировщиком напрямую. Емкость интервалов не трогает.
func (s *Service) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	completed, err := s.apptRepo.CompleteElapsed(ctx, now)
	if err != nil {
		s.logger.Error("CompleteElapsed: repository error: %v", err)
		return 0, fmt.Errorf("%w: CompleteElapsed - repository error: %v", ErrInternal, err)
	}

	if completed > 0 {
		s.logger.Info("CompleteElapsed: %d appointments completed", completed)
		if s.metrics != nil {
			s.metrics.AddSweepCompleted(completed)
		}
	}

	return completed, nil
}

func (s *Service) getAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("failed to get appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	return appt, nil
}
