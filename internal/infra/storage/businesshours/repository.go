package businesshours

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Repository репозиторий для чтения рабочих часов бизнеса.
// Записи ведет внешний админ-контур, здесь только чтение.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория рабочих часов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusinessAndWeekday получает рабочие часы бизнеса на день недели.
// weekday в нумерации time.Weekday (0 = воскресенье ... 6 = суббота).
func (r *Repository) GetByBusinessAndWeekday(ctx context.Context, businessID int64, weekday time.Weekday) (*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"weekday",
		"open_time",
		"close_time",
		"is_closed",
		"updated_at",
	).
		From("business_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"weekday": int(weekday)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndWeekday - build select query: %v", ErrBuildQuery, err)
	}

	var hours domain.BusinessHours
	var weekdayNum int
	var openTime, closeTime sql.NullString
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&hours.ID,
		&hours.BusinessID,
		&weekdayNum,
		&openTime,
		&closeTime,
		&hours.IsClosed,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndWeekday - scan hours: %v", ErrScanRow, err)
	}

	hours.Weekday = time.Weekday(weekdayNum)
	hours.OpenTime = toTimeString(openTime)
	hours.CloseTime = toTimeString(closeTime)
	hours.UpdatedAt = updatedAt.Time

	return &hours, nil
}

// toTimeString конвертирует nullable TIME ("HH:MM:SS") в *types.TimeString
func toTimeString(v sql.NullString) *types.TimeString {
	if !v.Valid {
		return nil
	}
	s := v.String
	if len(s) > 5 {
		s = s[:5]
	}
	t := types.TimeString(s)
	return &t
}
