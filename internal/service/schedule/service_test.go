package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	locationRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	scheduleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// passthroughTxManager исполняет функцию без реальной транзакции
type passthroughTxManager struct {
	calls int
}

func (m *passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// memScheduleRepo in-memory репозиторий расписания одной локации
type memScheduleRepo struct {
	config    *domain.ScheduleConfig
	intervals []*domain.Interval
	nextID    int64

	deletes int
}

func (r *memScheduleRepo) UpsertConfig(ctx context.Context, config *domain.ScheduleConfig) (*domain.ScheduleConfig, error) {
	copied := *config
	if r.config != nil {
		copied.ID = r.config.ID
		copied.LastResetAt = r.config.LastResetAt
	} else {
		copied.ID = 1
	}
	r.config = &copied
	return &copied, nil
}

func (r *memScheduleRepo) GetConfigByLocation(ctx context.Context, locationID int64) (*domain.ScheduleConfig, error) {
	if r.config == nil || r.config.LocationID != locationID {
		return nil, scheduleRepo.ErrConfigNotFound
	}
	return r.config, nil
}

func (r *memScheduleRepo) DeleteIntervalsByLocation(ctx context.Context, locationID int64) error {
	r.deletes++
	r.intervals = nil
	return nil
}

func (r *memScheduleRepo) InsertIntervals(ctx context.Context, locationID int64, intervals []domain.Interval) error {
	for i := range intervals {
		r.nextID++
		interval := intervals[i]
		interval.ID = r.nextID
		interval.LocationID = locationID
		r.intervals = append(r.intervals, &interval)
	}
	return nil
}

func (r *memScheduleRepo) GetIntervalsByLocation(ctx context.Context, locationID int64) ([]*domain.Interval, error) {
	return r.intervals, nil
}

func (r *memScheduleRepo) CountIntervalsInUse(ctx context.Context, locationID int64) (int, error) {
	count := 0
	for _, interval := range r.intervals {
		if interval.UsedCapacity > 0 {
			count++
		}
	}
	return count, nil
}

func (r *memScheduleRepo) ResetUsage(ctx context.Context, locationID int64) error {
	if r.config == nil || r.config.LocationID != locationID {
		return scheduleRepo.ErrConfigNotFound
	}
	for _, interval := range r.intervals {
		interval.UsedCapacity = 0
	}
	now := time.Now()
	r.config.LastResetAt = &now
	return nil
}

type stubLocationRepo struct {
	known map[int64]bool
}

func (s *stubLocationRepo) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	if !s.known[id] {
		return nil, locationRepo.ErrLocationNotFound
	}
	return &domain.Location{ID: id, BusinessID: 1}, nil
}

func newTestService() (*Service, *memScheduleRepo, *passthroughTxManager) {
	repo := &memScheduleRepo{}
	tx := &passthroughTxManager{}
	svc := NewService(repo, &stubLocationRepo{known: map[int64]bool{10: true}}, tx, nopLogger{})
	return svc, repo, tx
}

func setRequest() *models.SetConfigurationRequest {
	return &models.SetConfigurationRequest{
		LocationID:          10,
		StartTime:           types.TimeString("09:00"),
		EndTime:             types.TimeString("17:00"),
		SlotDurationMinutes: 30,
		CapacityPerInterval: 2,
		UnitPrice:           100,
	}
}

func TestSetConfiguration_GeneratesIntervals(t *testing.T) {
	svc, repo, tx := newTestService()

	resp, err := svc.SetConfiguration(context.Background(), setRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.Len(t, resp.Intervals, 16)
	assert.Equal(t, "09:00", resp.Intervals[0].StartTime.String())
	assert.Equal(t, "17:00", resp.Intervals[15].EndTime.String())
	assert.Equal(t, 0, resp.UsedSlots)
	assert.Len(t, repo.intervals, 16)
}

func TestSetConfiguration_RegeneratesWhenUnused(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.SetConfiguration(context.Background(), setRequest())
	require.NoError(t, err)

	// Полная замена с другой длительностью
	req := setRequest()
	req.SlotDurationMinutes = 60
	resp, err := svc.SetConfiguration(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, resp.Intervals, 8)
	assert.Equal(t, 2, repo.deletes)
	// Старые интервалы не выживают
	assert.Len(t, repo.intervals, 8)
}

func TestSetConfiguration_RefusesWhenIntervalsInUse(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.SetConfiguration(context.Background(), setRequest())
	require.NoError(t, err)

	repo.intervals[3].UsedCapacity = 1

	_, err = svc.SetConfiguration(context.Background(), setRequest())
	assert.ErrorIs(t, err, ErrIntervalsInUse)
	// Существующий набор не тронут
	assert.Len(t, repo.intervals, 16)
	assert.Equal(t, 1, repo.intervals[3].UsedCapacity)
}

func TestSetConfiguration_LocationNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	req := setRequest()
	req.LocationID = 99

	_, err := svc.SetConfiguration(context.Background(), req)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestSetConfiguration_InvalidWindow(t *testing.T) {
	svc, _, _ := newTestService()

	req := setRequest()
	req.StartTime = types.TimeString("17:00")
	req.EndTime = types.TimeString("09:00")

	_, err := svc.SetConfiguration(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestGetConfiguration_DerivesUsedSlots(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.SetConfiguration(context.Background(), setRequest())
	require.NoError(t, err)

	repo.intervals[0].UsedCapacity = 2
	repo.intervals[5].UsedCapacity = 1

	resp, err := svc.GetConfiguration(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.UsedSlots)
}

func TestGetConfiguration_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetConfiguration(context.Background(), 10)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestResetUsage(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.SetConfiguration(context.Background(), setRequest())
	require.NoError(t, err)

	repo.intervals[0].UsedCapacity = 2
	repo.intervals[1].UsedCapacity = 1

	require.NoError(t, svc.ResetUsage(context.Background(), 10))

	for i, interval := range repo.intervals {
		assert.Zero(t, interval.UsedCapacity, "interval %d", i)
	}
	require.NotNil(t, repo.config.LastResetAt)
}

func TestResetUsage_ConfigNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.ResetUsage(context.Background(), 10)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}
