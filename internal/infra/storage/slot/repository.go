package slot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HubBookingService/pkg/psqlbuilder"
)

var slotColumns = []string{"id", "booking_type_id", "name", "start_time", "end_time", "price", "created_at"}

// Repository каталог слотов зала и лестницы
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет слот в каталог
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns("booking_type_id", "name", "start_time", "end_time", "price").
		Values(slot.BookingTypeID, slot.Name, slot.StartTime, slot.EndTime, slot.Price).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	slot.CreatedAt = createdAt.Time

	return slot, nil
}

// ListByType слоты типа по времени начала
func (r *Repository) ListByType(ctx context.Context, typeID int64) ([]domain.Slot, error) {
	return r.list(ctx, "ListByType", squirrel.Eq{"booking_type_id": typeID})
}

// GetByIDs слоты по списку id, отсутствующие просто не попадают в результат
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Slot, error) {
	if len(ids) == 0 {
		return []domain.Slot{}, nil
	}
	return r.list(ctx, "GetByIDs", squirrel.Eq{"id": ids})
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer) ([]domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(where).
		OrderBy("start_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	slots := make([]domain.Slot, 0)
	for rows.Next() {
		var s domain.Slot
		var createdAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.BookingTypeID, &s.Name, &s.StartTime, &s.EndTime, &s.Price, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: %s - scan slot: %w", ErrScanRow, op, err)
		}
		s.CreatedAt = createdAt.Time
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows: %w", ErrScanRow, op, err)
	}
	return slots, nil
}

// Delete удаляет слот из каталога
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}
	return nil
}
