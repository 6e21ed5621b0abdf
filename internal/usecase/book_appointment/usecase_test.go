package book_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/reservations"
	"github.com/m04kA/SMC-ScheduleService/internal/usecase/resolve_availability"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type stubResolver struct {
	resp *resolve_availability.Response
	err  error
}

func (s *stubResolver) Execute(ctx context.Context, req *resolve_availability.Request) (*resolve_availability.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type stubEngine struct {
	reserveErr    error
	reserveCalls  int
	releaseCalls  int
	lastReserved  int
	lastIntervals []int64
}

func (s *stubEngine) Reserve(ctx context.Context, intervalID int64, quantity int) error {
	s.reserveCalls++
	s.lastReserved = quantity
	s.lastIntervals = append(s.lastIntervals, intervalID)
	return s.reserveErr
}

func (s *stubEngine) Release(ctx context.Context, intervalID int64, quantity int) error {
	s.releaseCalls++
	return nil
}

type stubApptRepo struct {
	createErr error
	created   *domain.Appointment
}

func (s *stubApptRepo) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	copied := *appt
	copied.ID = 500
	copied.CreatedAt = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s.created = &copied
	return &copied, nil
}

func availability() *resolve_availability.Response {
	return &resolve_availability.Response{
		BusinessID:        1,
		LocationID:        10,
		IntervalID:        100,
		StartTime:         types.TimeString("10:00"),
		EndTime:           types.TimeString("10:30"),
		UnitPrice:         50,
		MaxCapacity:       3,
		AvailableCapacity: 2,
	}
}

func validRequest() *Request {
	return &Request{
		CustomerID:   7,
		BusinessID:   1,
		LocationHint: ptr.Ptr("Downtown"),
		PointInTime:  time.Date(2026, 9, 2, 10, 17, 0, 0, time.UTC),
		Quantity:     2,
	}
}

func TestExecute_CreatesAppointment(t *testing.T) {
	engine := &stubEngine{}
	repo := &stubApptRepo{}
	uc := NewUseCase(&stubResolver{resp: availability()}, engine, repo, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(500), resp.ID)
	assert.Equal(t, int64(7), resp.CustomerID)
	assert.Equal(t, int64(100), resp.IntervalID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, 100.0, resp.TotalPrice)

	// Окно записи каноническое, от интервала, а не сырое запрошенное время
	assert.Equal(t, "10:00", resp.StartTime.String())
	assert.Equal(t, "10:30", resp.EndTime.String())
	require.NotNil(t, repo.created)
	assert.Equal(t, "10:00", repo.created.StartTime.String())
	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), repo.created.BookingDate)

	assert.Equal(t, 1, engine.reserveCalls)
	assert.Equal(t, 2, engine.lastReserved)
	assert.Zero(t, engine.releaseCalls)
}

func TestExecute_QuantityAboveAvailable(t *testing.T) {
	engine := &stubEngine{}
	uc := NewUseCase(&stubResolver{resp: availability()}, engine, &stubApptRepo{}, nopLogger{})

	req := validRequest()
	req.Quantity = 3 // доступно 2

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	var capErr *CapacityExceededError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 3, capErr.Requested)
	assert.Equal(t, 2, capErr.Available)

	// До резерва дело не дошло
	assert.Zero(t, engine.reserveCalls)
}

func TestExecute_ReserveLosesRace(t *testing.T) {
	// Предварительная проверка прошла, но атомарный резерв отклонен
	engine := &stubEngine{
		reserveErr: &reservations.CapacityExceededError{IntervalID: 100, Requested: 2, Available: 1},
	}
	repo := &stubApptRepo{}
	uc := NewUseCase(&stubResolver{resp: availability()}, engine, repo, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrCapacityExceeded)

	var capErr *CapacityExceededError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 1, capErr.Available)
	assert.Nil(t, repo.created)
}

func TestExecute_ReserveOnVanishedInterval(t *testing.T) {
	// Интервал пропал между резолвом и резервом (перегенерация расписания)
	engine := &stubEngine{reserveErr: reservations.ErrIntervalNotFound}
	repo := &stubApptRepo{}
	uc := NewUseCase(&stubResolver{resp: availability()}, engine, repo, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrOutsideWindow)
	assert.Nil(t, repo.created)
}

func TestExecute_CompensatesReserveOnCreateFailure(t *testing.T) {
	engine := &stubEngine{}
	repo := &stubApptRepo{createErr: errors.New("insert failed")}
	uc := NewUseCase(&stubResolver{resp: availability()}, engine, repo, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrInternal)

	// Резерв компенсирован освобождением
	assert.Equal(t, 1, engine.reserveCalls)
	assert.Equal(t, 1, engine.releaseCalls)
}

func TestExecute_MapsResolverErrors(t *testing.T) {
	tests := []struct {
		name     string
		resolver error
		want     error
	}{
		{"closed", resolve_availability.ErrClosed, ErrBusinessClosed},
		{"location not found", resolve_availability.ErrLocationNotFound, ErrLocationNotFound},
		{"not configured", resolve_availability.ErrNotConfigured, ErrNotConfigured},
		{"outside window", resolve_availability.ErrOutsideWindow, ErrOutsideWindow},
		{"internal", resolve_availability.ErrInternal, ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &stubEngine{}
			uc := NewUseCase(&stubResolver{err: tt.resolver}, engine, &stubApptRepo{}, nopLogger{})

			_, err := uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, engine.reserveCalls)
		})
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(&stubResolver{resp: availability()}, &stubEngine{}, &stubApptRepo{}, nopLogger{})

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero customer", func(r *Request) { r.CustomerID = 0 }},
		{"zero business", func(r *Request) { r.BusinessID = 0 }},
		{"zero time", func(r *Request) { r.PointInTime = time.Time{} }},
		{"zero quantity", func(r *Request) { r.Quantity = 0 }},
		{"quantity too large", func(r *Request) { r.Quantity = domain.MaxReservationQuantity + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
