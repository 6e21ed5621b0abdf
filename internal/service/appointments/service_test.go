package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	apptRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ScheduleService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type memApptRepo struct {
	appointments map[int64]*domain.Appointment
	completeErr  error
	completedNow time.Time
	completedRet int64
}

func newMemApptRepo(appts ...*domain.Appointment) *memApptRepo {
	r := &memApptRepo{appointments: make(map[int64]*domain.Appointment)}
	for _, appt := range appts {
		r.appointments[appt.ID] = appt
	}
	return r
}

func (r *memApptRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := r.appointments[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (r *memApptRepo) GetByCustomer(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, appt := range r.appointments {
		if appt.CustomerID != customerID {
			continue
		}
		if status != nil && appt.Status != *status {
			continue
		}
		copied := *appt
		result = append(result, &copied)
	}
	return result, nil
}

func (r *memApptRepo) GetByLocationWithFilter(ctx context.Context, filter domain.LocationAppointmentsFilter) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, appt := range r.appointments {
		if appt.LocationID != filter.LocationID {
			continue
		}
		if !filter.IncludeFinal && appt.IsFinal() {
			continue
		}
		copied := *appt
		result = append(result, &copied)
	}
	return result, nil
}

func (r *memApptRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	appt, ok := r.appointments[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	appt.Status = status
	return nil
}

func (r *memApptRepo) Cancel(ctx context.Context, id int64, reason string) error {
	appt, ok := r.appointments[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	now := time.Now()
	appt.Status = domain.StatusCancelled
	appt.CancellationReason = &reason
	appt.CancelledAt = &now
	return nil
}

func (r *memApptRepo) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	if r.completeErr != nil {
		return 0, r.completeErr
	}
	r.completedNow = now
	return r.completedRet, nil
}

type stubEngine struct {
	releaseCalls int
	lastInterval int64
	lastQuantity int
	releaseErr   error
}

func (s *stubEngine) Release(ctx context.Context, intervalID int64, quantity int) error {
	s.releaseCalls++
	s.lastInterval = intervalID
	s.lastQuantity = quantity
	return s.releaseErr
}

func pendingAppointment(id int64, bookingDate time.Time) *domain.Appointment {
	return &domain.Appointment{
		ID:          id,
		CustomerID:  7,
		BusinessID:  1,
		LocationID:  10,
		IntervalID:  100,
		BookingDate: bookingDate,
		StartTime:   types.TimeString("10:00"),
		EndTime:     types.TimeString("10:30"),
		Quantity:    2,
		Status:      domain.StatusPending,
	}
}

func TestApprove(t *testing.T) {
	repo := newMemApptRepo(pendingAppointment(1, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)))
	svc := NewService(repo, &stubEngine{}, nil, nopLogger{})

	resp, err := svc.Approve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), resp.Status)
	assert.Equal(t, domain.StatusApproved, repo.appointments[1].Status)
}

func TestApprove_OnlyFromPending(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{
		domain.StatusApproved,
		domain.StatusCompleted,
		domain.StatusCancelled,
	} {
		appt := pendingAppointment(1, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))
		appt.Status = status
		svc := NewService(newMemApptRepo(appt), &stubEngine{}, nil, nopLogger{})

		_, err := svc.Approve(context.Background(), 1)
		assert.ErrorIs(t, err, ErrCannotApprove, "status %s", status)
	}
}

func TestApprove_NotFound(t *testing.T) {
	svc := NewService(newMemApptRepo(), &stubEngine{}, nil, nopLogger{})

	_, err := svc.Approve(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel_FutureAppointmentReleasesCapacity(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	appt := pendingAppointment(1, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))

	repo := newMemApptRepo(appt)
	engine := &stubEngine{}
	svc := NewService(repo, engine, nil, nopLogger{})
	svc.timeProvider = &fixedTime{now: now}

	resp, err := svc.Cancel(context.Background(), &models.CancelRequest{AppointmentID: 1, Reason: "передумал"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "передумал", *resp.CancellationReason)

	assert.Equal(t, 1, engine.releaseCalls)
	assert.Equal(t, int64(100), engine.lastInterval)
	assert.Equal(t, 2, engine.lastQuantity)
}

func TestCancel_StartedAppointmentKeepsCapacity(t *testing.T) {
	// Запись на сегодня 10:00, сейчас 10:15 - уже началась
	now := time.Date(2026, 9, 2, 10, 15, 0, 0, time.UTC)
	appt := pendingAppointment(1, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))

	engine := &stubEngine{}
	svc := NewService(newMemApptRepo(appt), engine, nil, nopLogger{})
	svc.timeProvider = &fixedTime{now: now}

	_, err := svc.Cancel(context.Background(), &models.CancelRequest{AppointmentID: 1, Reason: "no show"})
	require.NoError(t, err)

	assert.Zero(t, engine.releaseCalls, "elapsed capacity is spent, not returned")
}

func TestCancel_ReleaseFailureDoesNotFailCancel(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	appt := pendingAppointment(1, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))

	repo := newMemApptRepo(appt)
	engine := &stubEngine{releaseErr: errors.New("interval gone")}
	svc := NewService(repo, engine, nil, nopLogger{})
	svc.timeProvider = &fixedTime{now: now}

	resp, err := svc.Cancel(context.Background(), &models.CancelRequest{AppointmentID: 1, Reason: "moved"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, 1, engine.releaseCalls)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	appt := pendingAppointment(1, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))
	engine := &stubEngine{}
	svc := NewService(newMemApptRepo(appt), engine, nil, nopLogger{})

	reason := make([]byte, domain.MaxCancellationReasonLength+1)
	for i := range reason {
		reason[i] = 'a'
	}

	_, err := svc.Cancel(context.Background(), &models.CancelRequest{AppointmentID: 1, Reason: string(reason)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, domain.StatusPending, svc.apptRepo.(*memApptRepo).appointments[1].Status)
	assert.Zero(t, engine.releaseCalls)
}

func TestCancel_FinalStatus(t *testing.T) {
	appt := pendingAppointment(1, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))
	appt.Status = domain.StatusCompleted

	svc := NewService(newMemApptRepo(appt), &stubEngine{}, nil, nopLogger{})

	_, err := svc.Cancel(context.Background(), &models.CancelRequest{AppointmentID: 1, Reason: "late"})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestGetByCustomer_FiltersByStatus(t *testing.T) {
	first := pendingAppointment(1, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))
	second := pendingAppointment(2, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC))
	second.Status = domain.StatusApproved

	svc := NewService(newMemApptRepo(first, second), &stubEngine{}, nil, nopLogger{})

	all, err := svc.GetByCustomer(context.Background(), 7, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	approved := domain.StatusApproved
	filtered, err := svc.GetByCustomer(context.Background(), 7, &approved)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(2), filtered[0].ID)
}

func TestCompleteElapsed(t *testing.T) {
	now := time.Date(2026, 9, 2, 23, 0, 0, 0, time.UTC)
	repo := newMemApptRepo()
	repo.completedRet = 3

	svc := NewService(repo, &stubEngine{}, nil, nopLogger{})

	completed, err := svc.CompleteElapsed(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), completed)
	assert.Equal(t, now, repo.completedNow)
}

func TestCompleteElapsed_RepositoryError(t *testing.T) {
	repo := newMemApptRepo()
	repo.completeErr = errors.New("db down")

	svc := NewService(repo, &stubEngine{}, nil, nopLogger{})

	_, err := svc.CompleteElapsed(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrInternal)
}
