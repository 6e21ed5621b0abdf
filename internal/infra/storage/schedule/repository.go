package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Repository репозиторий для работы с конфигурацией расписания и интервалами.
// Конфигурация владеет своим набором интервалов: перегенерация выполняет
// delete-all + insert в одной транзакции (транзакция передается через контекст).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertConfig создает или обновляет конфигурацию локации (1:1 по location_id)
func (r *Repository) UpsertConfig(ctx context.Context, config *domain.ScheduleConfig) (*domain.ScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedule_configs").
		Columns(
			"location_id",
			"start_time",
			"end_time",
			"slot_duration_minutes",
			"capacity_per_interval",
			"unit_price",
		).
		Values(
			config.LocationID,
			config.StartTime,
			config.EndTime,
			config.SlotDurationMinutes,
			config.CapacityPerInterval,
			config.UnitPrice,
		).
		Suffix(`ON CONFLICT (location_id) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			capacity_per_interval = EXCLUDED.capacity_per_interval,
			unit_price = EXCLUDED.unit_price,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertConfig - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertConfig - execute insert: %v", ErrExecQuery, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return config, nil
}

// GetConfigByLocation получает конфигурацию локации
func (r *Repository) GetConfigByLocation(ctx context.Context, locationID int64) (*domain.ScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"location_id",
		"start_time",
		"end_time",
		"slot_duration_minutes",
		"capacity_per_interval",
		"unit_price",
		"last_reset_at",
		"created_at",
		"updated_at",
	).
		From("schedule_configs").
		Where(squirrel.Eq{"location_id": locationID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetConfigByLocation - build select query: %v", ErrBuildQuery, err)
	}

	var config domain.ScheduleConfig
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.ID,
		&config.LocationID,
		&config.StartTime,
		&config.EndTime,
		&config.SlotDurationMinutes,
		&config.CapacityPerInterval,
		&config.UnitPrice,
		&config.LastResetAt,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfigByLocation - scan config: %v", ErrScanRow, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return &config, nil
}

// DeleteIntervalsByLocation удаляет все интервалы локации.
// Используется только при перегенерации конфигурации.
func (r *Repository) DeleteIntervalsByLocation(ctx context.Context, locationID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("schedule_intervals").
		Where(squirrel.Eq{"location_id": locationID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteIntervalsByLocation - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteIntervalsByLocation - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// InsertIntervals вставляет сгенерированный набор интервалов локации
func (r *Repository) InsertIntervals(ctx context.Context, locationID int64, intervals []domain.Interval) error {
	if len(intervals) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("schedule_intervals").
		Columns(
			"location_id",
			"start_time",
			"end_time",
			"max_capacity",
			"used_capacity",
			"unit_price",
		)

	for _, interval := range intervals {
		insertBuilder = insertBuilder.Values(
			locationID,
			interval.StartTime,
			interval.EndTime,
			interval.MaxCapacity,
			interval.UsedCapacity,
			interval.UnitPrice,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: InsertIntervals - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: InsertIntervals - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetIntervalsByLocation получает все интервалы локации в порядке следования
func (r *Repository) GetIntervalsByLocation(ctx context.Context, locationID int64) ([]*domain.Interval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.intervalSelect().
		Where(squirrel.Eq{"location_id": locationID}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetIntervalsByLocation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetIntervalsByLocation - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanIntervals(rows)
}

// GetIntervalByID получает интервал по ID
func (r *Repository) GetIntervalByID(ctx context.Context, id int64) (*domain.Interval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.intervalSelect().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetIntervalByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	interval, err := r.scanInterval(row)
	if err == sql.ErrNoRows {
		return nil, ErrIntervalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetIntervalByID - scan interval: %v", ErrScanRow, err)
	}

	return interval, nil
}

// FindIntervalAt находит интервал локации, содержащий указанное время суток
// (start_time <= t < end_time)
func (r *Repository) FindIntervalAt(ctx context.Context, locationID int64, t types.TimeString) (*domain.Interval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.intervalSelect().
		Where(squirrel.Eq{"location_id": locationID}).
		Where(squirrel.LtOrEq{"start_time": t}).
		Where(squirrel.Gt{"end_time": t}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindIntervalAt - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	interval, err := r.scanInterval(row)
	if err == sql.ErrNoRows {
		return nil, ErrIntervalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindIntervalAt - scan interval: %v", ErrScanRow, err)
	}

	return interval, nil
}

// Reserve атомарно увеличивает used_capacity интервала на quantity.
// Единственная точка мутации емкости: условие used_capacity + quantity <=
// max_capacity проверяется в том же UPDATE, окна между чтением и записью нет.
// Возвращает ErrNoCapacity, если условие не выполнено, и состояние не меняется.
func (r *Repository) Reserve(ctx context.Context, intervalID int64, quantity int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule_intervals").
		Set("used_capacity", squirrel.Expr("used_capacity + ?", quantity)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": intervalID}).
		Where(squirrel.Expr("used_capacity + ? <= max_capacity", quantity)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reserve - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNoCapacity
	}

	return nil
}

// Release уменьшает used_capacity интервала на quantity с нижней границей 0.
// Используется для компенсации резерва при сбое создания записи.
func (r *Repository) Release(ctx context.Context, intervalID int64, quantity int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule_intervals").
		Set("used_capacity", squirrel.Expr("GREATEST(used_capacity - ?, 0)", quantity)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": intervalID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrIntervalNotFound
	}

	return nil
}

// CountIntervalsInUse возвращает количество интервалов локации с ненулевым
// использованием. Применяется для отказа от перегенерации поверх живых резервов.
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы перегенерация
// не пересекалась с параллельными Reserve/Release.
func (r *Repository) CountIntervalsInUse(ctx context.Context, locationID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		FromSelect(
			psqlbuilder.Select("id", "used_capacity").
				From("schedule_intervals").
				Where(squirrel.Eq{"location_id": locationID}).
				Suffix(lockSuffix(ctx)),
			"locked",
		).
		Where(squirrel.Gt{"used_capacity": 0})

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountIntervalsInUse - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountIntervalsInUse - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ResetUsage обнуляет used_capacity всех интервалов локации и ставит отметку
// last_reset_at на конфигурации
func (r *Repository) ResetUsage(ctx context.Context, locationID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule_intervals").
		Set("used_capacity", 0).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"location_id": locationID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ResetUsage - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ResetUsage - execute update: %v", ErrExecQuery, err)
	}

	stampQuery, stampArgs, err := psqlbuilder.Update("schedule_configs").
		Set("last_reset_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"location_id": locationID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ResetUsage - build stamp query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, stampQuery, stampArgs...)
	if err != nil {
		return fmt.Errorf("%w: ResetUsage - execute stamp: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ResetUsage - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrConfigNotFound
	}

	return nil
}

// intervalSelect базовый SELECT по интервалам
func (r *Repository) intervalSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"location_id",
		"start_time",
		"end_time",
		"max_capacity",
		"used_capacity",
		"unit_price",
		"created_at",
		"updated_at",
	).From("schedule_intervals")
}

// scanInterval сканирует одну строку интервала
func (r *Repository) scanInterval(row *sql.Row) (*domain.Interval, error) {
	var interval domain.Interval
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&interval.ID,
		&interval.LocationID,
		&interval.StartTime,
		&interval.EndTime,
		&interval.MaxCapacity,
		&interval.UsedCapacity,
		&interval.UnitPrice,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	interval.CreatedAt = createdAt.Time
	interval.UpdatedAt = updatedAt.Time

	return &interval, nil
}

// scanIntervals сканирует результаты запроса в слайс интервалов
func (r *Repository) scanIntervals(rows *sql.Rows) ([]*domain.Interval, error) {
	intervals := make([]*domain.Interval, 0)

	for rows.Next() {
		var interval domain.Interval
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&interval.ID,
			&interval.LocationID,
			&interval.StartTime,
			&interval.EndTime,
			&interval.MaxCapacity,
			&interval.UsedCapacity,
			&interval.UnitPrice,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanIntervals - scan row: %v", ErrScanRow, err)
		}

		interval.CreatedAt = createdAt.Time
		interval.UpdatedAt = updatedAt.Time

		intervals = append(intervals, &interval)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanIntervals - rows error: %v", ErrScanRow, err)
	}

	return intervals, nil
}

// lockSuffix возвращает FOR UPDATE внутри транзакции и пустую строку вне её
func lockSuffix(ctx context.Context) string {
	if dbmetrics.IsInTransaction(ctx) {
		return "FOR UPDATE"
	}
	return ""
}
