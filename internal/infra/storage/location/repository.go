package location

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

// Repository репозиторий для чтения локаций.
// Локации создаются при регистрации бизнеса внешним админ-контуром,
// здесь используются только для чтения.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория локаций
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает локацию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.locationSelect().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var loc domain.Location
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&loc.ID,
		&loc.BusinessID,
		&loc.Address,
		&loc.Area,
		&loc.IsPrimary,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan location: %v", ErrScanRow, err)
	}

	loc.CreatedAt = createdAt.Time

	return &loc, nil
}

// GetByBusiness получает все локации бизнеса.
// Первичная локация идет первой - удобно для выбора по умолчанию.
func (r *Repository) GetByBusiness(ctx context.Context, businessID int64) ([]*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.locationSelect().
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("is_primary DESC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	locations := make([]*domain.Location, 0)
	for rows.Next() {
		var loc domain.Location
		var createdAt sql.NullTime

		if err := rows.Scan(
			&loc.ID,
			&loc.BusinessID,
			&loc.Address,
			&loc.Area,
			&loc.IsPrimary,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: GetByBusiness - scan row: %v", ErrScanRow, err)
		}

		loc.CreatedAt = createdAt.Time
		locations = append(locations, &loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - rows error: %v", ErrScanRow, err)
	}

	return locations, nil
}

func (r *Repository) locationSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"business_id",
		"address",
		"area",
		"is_primary",
		"created_at",
	).From("locations")
}
