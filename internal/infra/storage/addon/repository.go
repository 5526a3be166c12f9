package addon

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HubBookingService/pkg/psqlbuilder"
)

var addonColumns = []string{"id", "booking_type_id", "name", "price", "max_quantity", "created_at", "updated_at"}

// Repository доп. услуги зала
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доп. услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет доп. услугу
func (r *Repository) Create(ctx context.Context, addon *domain.Addon) (*domain.Addon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("addons").
		Columns("booking_type_id", "name", "price", "max_quantity").
		Values(addon.BookingTypeID, addon.Name, addon.Price, addon.MaxQuantity).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&addon.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	addon.CreatedAt = createdAt.Time
	addon.UpdatedAt = updatedAt.Time

	return addon, nil
}

// GetByID получает доп. услугу по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Addon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(addonColumns...).
		From("addons").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAddon(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAddonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan addon: %w", ErrScanRow, err)
	}
	return a, nil
}

// ListByType доп. услуги типа по названию
func (r *Repository) ListByType(ctx context.Context, typeID int64) ([]domain.Addon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(addonColumns...).
		From("addons").
		Where(squirrel.Eq{"booking_type_id": typeID}).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByType - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByType - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	addons := make([]domain.Addon, 0)
	for rows.Next() {
		a, err := scanAddon(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByType - scan addon: %w", ErrScanRow, err)
		}
		addons = append(addons, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByType - rows: %w", ErrScanRow, err)
	}
	return addons, nil
}

// Update меняет название, цену и дневной запас
func (r *Repository) Update(ctx context.Context, addon *domain.Addon) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("addons").
		Set("name", addon.Name).
		Set("price", addon.Price).
		Set("max_quantity", addon.MaxQuantity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": addon.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffecting(ctx, executor, "Update", query, args)
}

// Delete удаляет доп. услугу, строки в бронированиях сохраняют название и цену
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("addons").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execAffecting(ctx, executor, "Delete", query, args)
}

func (r *Repository) execAffecting(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrAddonNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAddon(row rowScanner) (*domain.Addon, error) {
	var a domain.Addon
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&a.ID, &a.BookingTypeID, &a.Name, &a.Price, &a.MaxQuantity, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}
