package holiday

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HubBookingService/pkg/pagination"
	"github.com/m04kA/SMC-HubBookingService/pkg/psqlbuilder"
)

// Repository календарь праздников
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория праздников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Exists является ли дата праздником
func (r *Repository) Exists(ctx context.Context, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("holidays").
		Where(squirrel.Eq{"holiday_date": date.Format(domain.DateFormat)}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Exists - scan: %w", ErrScanRow, err)
	}
	return true, nil
}

// Insert отмечает дату праздником, повторная отметка ничего не меняет
func (r *Repository) Insert(ctx context.Context, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("holidays").
		Columns("holiday_date").
		Values(date.Format(domain.DateFormat)).
		Suffix("ON CONFLICT (holiday_date) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Insert - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// Delete снимает отметку праздника, отсутствие строки не ошибка
func (r *Repository) Delete(ctx context.Context, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("holidays").
		Where(squirrel.Eq{"holiday_date": date.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}
	return nil
}

// ListPage страница праздников, поздние сверху
func (r *Repository) ListPage(ctx context.Context, page pagination.Page) ([]domain.Holiday, int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	countQuery, countArgs, err := psqlbuilder.Select("COUNT(*)").From("holidays").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListPage - build count query: %v", ErrBuildQuery, err)
	}

	var total int64
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: ListPage - count: %w", ErrScanRow, err)
	}

	holidays, err := r.list(ctx, "ListPage", psqlbuilder.Select("id", "holiday_date", "created_at").
		From("holidays").
		OrderBy("holiday_date DESC").
		Limit(uint64(page.PerPage)).
		Offset(uint64(page.Offset())))
	if err != nil {
		return nil, 0, err
	}
	return holidays, total, nil
}

// ListRange праздники в диапазоне [from, to] по возрастанию
func (r *Repository) ListRange(ctx context.Context, from, to time.Time) ([]domain.Holiday, error) {
	return r.list(ctx, "ListRange", psqlbuilder.Select("id", "holiday_date", "created_at").
		From("holidays").
		Where(squirrel.GtOrEq{"holiday_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"holiday_date": to.Format(domain.DateFormat)}).
		OrderBy("holiday_date ASC"))
}

// ListAll все праздники по возрастанию
func (r *Repository) ListAll(ctx context.Context) ([]domain.Holiday, error) {
	return r.list(ctx, "ListAll", psqlbuilder.Select("id", "holiday_date", "created_at").
		From("holidays").
		OrderBy("holiday_date ASC"))
}

func (r *Repository) list(ctx context.Context, op string, sb squirrel.SelectBuilder) ([]domain.Holiday, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	holidays := make([]domain.Holiday, 0)
	for rows.Next() {
		var h domain.Holiday
		var createdAt sql.NullTime
		if err := rows.Scan(&h.ID, &h.Date, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: %s - scan holiday: %w", ErrScanRow, op, err)
		}
		h.CreatedAt = createdAt.Time
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows: %w", ErrScanRow, op, err)
	}
	return holidays, nil
}
