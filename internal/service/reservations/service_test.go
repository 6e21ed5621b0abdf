package reservations

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schedule"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// memStore потокобезопасное in-memory хранилище интервалов,
// воспроизводящее контракт условного инкремента
type memStore struct {
	mu        sync.Mutex
	intervals map[int64]*domain.Interval
}

func newMemStore(intervals ...*domain.Interval) *memStore {
	s := &memStore{intervals: make(map[int64]*domain.Interval)}
	for _, interval := range intervals {
		s.intervals[interval.ID] = interval
	}
	return s
}

func (s *memStore) Reserve(ctx context.Context, intervalID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	interval, ok := s.intervals[intervalID]
	if !ok {
		return scheduleRepo.ErrIntervalNotFound
	}
	if interval.UsedCapacity+quantity > interval.MaxCapacity {
		return scheduleRepo.ErrNoCapacity
	}
	interval.UsedCapacity += quantity
	return nil
}

func (s *memStore) Release(ctx context.Context, intervalID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	interval, ok := s.intervals[intervalID]
	if !ok {
		return scheduleRepo.ErrIntervalNotFound
	}
	interval.UsedCapacity -= quantity
	if interval.UsedCapacity < 0 {
		interval.UsedCapacity = 0
	}
	return nil
}

func (s *memStore) GetIntervalByID(ctx context.Context, id int64) (*domain.Interval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	interval, ok := s.intervals[id]
	if !ok {
		return nil, scheduleRepo.ErrIntervalNotFound
	}
	copied := *interval
	return &copied, nil
}

func (s *memStore) used(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intervals[id].UsedCapacity
}

func TestService_Reserve(t *testing.T) {
	store := newMemStore(&domain.Interval{ID: 1, MaxCapacity: 3})
	svc := NewService(store, nil, nopLogger{})

	require.NoError(t, svc.Reserve(context.Background(), 1, 2))
	assert.Equal(t, 2, store.used(1))

	require.NoError(t, svc.Reserve(context.Background(), 1, 1))
	assert.Equal(t, 3, store.used(1))
}

func TestService_Reserve_CapacityExceeded(t *testing.T) {
	store := newMemStore(&domain.Interval{ID: 1, MaxCapacity: 3, UsedCapacity: 2})
	svc := NewService(store, nil, nopLogger{})

	err := svc.Reserve(context.Background(), 1, 2)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	var capErr *CapacityExceededError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, int64(1), capErr.IntervalID)
	assert.Equal(t, 2, capErr.Requested)
	assert.Equal(t, 1, capErr.Available)

	// Отказ ничего не меняет
	assert.Equal(t, 2, store.used(1))
}

func TestService_Reserve_NoPartialReservation(t *testing.T) {
	store := newMemStore(&domain.Interval{ID: 1, MaxCapacity: 5, UsedCapacity: 3})
	svc := NewService(store, nil, nopLogger{})

	// Запрос на 3 при 2 свободных: либо всё, либо ничего
	err := svc.Reserve(context.Background(), 1, 3)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 3, store.used(1))

	// Меньший запрос проходит
	require.NoError(t, svc.Reserve(context.Background(), 1, 2))
	assert.Equal(t, 5, store.used(1))
}

func TestService_Reserve_InvalidQuantity(t *testing.T) {
	store := newMemStore(&domain.Interval{ID: 1, MaxCapacity: 3})
	svc := NewService(store, nil, nopLogger{})

	assert.ErrorIs(t, svc.Reserve(context.Background(), 1, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.Reserve(context.Background(), 1, -1), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.Reserve(context.Background(), 1, domain.MaxReservationQuantity+1), ErrInvalidQuantity)
	assert.Equal(t, 0, store.used(1))
}

func TestService_Reserve_IntervalNotFound(t *testing.T) {
	svc := NewService(newMemStore(), nil, nopLogger{})

	err := svc.Reserve(context.Background(), 42, 1)
	assert.ErrorIs(t, err, ErrIntervalNotFound)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestService_Release(t *testing.T) {
	store := newMemStore(&domain.Interval{ID: 1, MaxCapacity: 3, UsedCapacity: 3})
	svc := NewService(store, nil, nopLogger{})

	require.NoError(t, svc.Release(context.Background(), 1, 2))
	assert.Equal(t, 1, store.used(1))

	// Освобождение больше занятого прижимается к нулю
	require.NoError(t, svc.Release(context.Background(), 1, 5))
	assert.Equal(t, 0, store.used(1))
}

func TestService_AvailableCapacity(t *testing.T) {
	store := newMemStore(&domain.Interval{ID: 1, MaxCapacity: 4, UsedCapacity: 1})
	svc := NewService(store, nil, nopLogger{})

	available, err := svc.AvailableCapacity(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, available)

	_, err = svc.AvailableCapacity(context.Background(), 99)
	assert.ErrorIs(t, err, ErrIntervalNotFound)
}

// При N конкурентных запросах по 1 единице на интервал емкости K
// проходит ровно min(N, K), остальные получают отказ
func TestService_Reserve_ConcurrentNeverOversells(t *testing.T) {
	const (
		capacity = 5
		workers  = 50
	)

	store := newMemStore(&domain.Interval{ID: 1, MaxCapacity: capacity})
	svc := NewService(store, nil, nopLogger{})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.Reserve(context.Background(), 1, 1)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrCapacityExceeded):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, workers-capacity, rejected)
	assert.Equal(t, capacity, store.used(1))
}
