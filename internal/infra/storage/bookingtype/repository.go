package bookingtype

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HubBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-HubBookingService/pkg/types"
)

var typeColumns = []string{
	"id",
	"name",
	"slug",
	"category",
	"weekend_days",
	"is_hidden",
	"tour_start_time",
	"tour_end_time",
	"exclusive_with_type_id",
	"max_daily_capacity",
	"ticket_price",
	"booking_window_mode",
	"booking_window_days",
	"max_clusters",
	"members_per_cluster",
	"price_per_cluster",
	"created_at",
	"updated_at",
}

// Repository репозиторий типов бронирования
// Настройки всех категорий лежат в одной строке, вариант собирается по колонке category
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория типов бронирования
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает тип бронирования по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BookingType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(typeColumns...).
		From("booking_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	t, err := scanType(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan type: %w", ErrScanRow, err)
	}
	return t, nil
}

// List типы бронирования по id, скрытые только при includeHidden
func (r *Repository) List(ctx context.Context, includeHidden bool) ([]*domain.BookingType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(typeColumns...).
		From("booking_types").
		OrderBy("id ASC")
	if !includeHidden {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_hidden": false})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.BookingType, 0)
	for rows.Next() {
		t, err := scanType(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan type: %w", ErrScanRow, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows: %w", ErrScanRow, err)
	}
	return result, nil
}

// Update сохраняет общие поля и настройки категории
// Колонки чужих категорий обнуляются
func (r *Repository) Update(ctx context.Context, t *domain.BookingType) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	values := map[string]interface{}{
		"name":                   t.Name,
		"weekend_days":           pq.Int64Array(weekdaysToInt64(t.WeekendDays)),
		"is_hidden":              t.IsHidden,
		"tour_start_time":        nil,
		"tour_end_time":          nil,
		"exclusive_with_type_id": nil,
		"max_daily_capacity":     nil,
		"ticket_price":           nil,
		"booking_window_mode":    nil,
		"booking_window_days":    nil,
		"max_clusters":           nil,
		"members_per_cluster":    nil,
		"price_per_cluster":      nil,
	}

	switch cfg := t.Config.(type) {
	case domain.IndividualTourConfig:
		values["tour_start_time"] = cfg.TourStart
		values["tour_end_time"] = cfg.TourEnd
		values["exclusive_with_type_id"] = cfg.ExclusiveWithType
		values["max_daily_capacity"] = cfg.MaxDailyCapacity
		values["ticket_price"] = cfg.TicketPrice
		values["booking_window_mode"] = string(cfg.WindowMode)
		values["booking_window_days"] = cfg.WindowDays
	case domain.EventTourConfig:
		values["tour_start_time"] = cfg.TourStart
		values["tour_end_time"] = cfg.TourEnd
		values["exclusive_with_type_id"] = cfg.ExclusiveWithType
		values["max_clusters"] = cfg.MaxClusters
		values["members_per_cluster"] = cfg.MembersPerCluster
		values["price_per_cluster"] = cfg.PricePerCluster
	}

	query, args, err := psqlbuilder.Update("booking_types").
		SetMap(values).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingTypeNotFound
	}
	return nil
}

// SetExclusivePartner меняет только связь исключительности типа
func (r *Repository) SetExclusivePartner(ctx context.Context, typeID int64, partnerID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_types").
		Set("exclusive_with_type_id", partnerID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": typeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetExclusivePartner - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetExclusivePartner - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetExclusivePartner - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingTypeNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanType(row rowScanner) (*domain.BookingType, error) {
	var (
		t                 domain.BookingType
		weekendDays       pq.Int64Array
		tourStart         sql.NullString
		tourEnd           sql.NullString
		exclusiveWith     sql.NullInt64
		maxDailyCapacity  sql.NullInt64
		ticketPrice       sql.NullFloat64
		windowMode        sql.NullString
		windowDays        sql.NullInt64
		maxClusters       sql.NullInt64
		membersPerCluster sql.NullInt64
		pricePerCluster   sql.NullFloat64
		createdAt         sql.NullTime
		updatedAt         sql.NullTime
	)

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Slug,
		&t.Category,
		&weekendDays,
		&t.IsHidden,
		&tourStart,
		&tourEnd,
		&exclusiveWith,
		&maxDailyCapacity,
		&ticketPrice,
		&windowMode,
		&windowDays,
		&maxClusters,
		&membersPerCluster,
		&pricePerCluster,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.WeekendDays = make([]int, 0, len(weekendDays))
	for _, d := range weekendDays {
		t.WeekendDays = append(t.WeekendDays, int(d))
	}
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	var partner *int64
	if exclusiveWith.Valid {
		id := exclusiveWith.Int64
		partner = &id
	}

	switch t.Category {
	case domain.CategoryHall:
		t.Config = domain.HallConfig{}
	case domain.CategoryStaircase:
		t.Config = domain.StaircaseConfig{}
	case domain.CategoryIndividualTour:
		mode := domain.BookingWindowMode(windowMode.String)
		if !windowMode.Valid {
			mode = domain.BookingWindowNone
		}
		capacity := int(maxDailyCapacity.Int64)
		if !maxDailyCapacity.Valid {
			capacity = domain.DefaultMaxDailyCapacity
		}
		days := int(windowDays.Int64)
		if !windowDays.Valid {
			days = domain.DefaultBookingWindowDays
		}
		t.Config = domain.IndividualTourConfig{
			TourStart:         tourTime(tourStart, domain.DefaultTourStartTime),
			TourEnd:           tourTime(tourEnd, domain.DefaultTourEndTime),
			MaxDailyCapacity:  capacity,
			TicketPrice:       ticketPrice.Float64,
			WindowMode:        mode,
			WindowDays:        days,
			ExclusiveWithType: partner,
		}
	case domain.CategoryEventTour:
		members := int(membersPerCluster.Int64)
		if !membersPerCluster.Valid {
			members = domain.DefaultMembersPerCluster
		}
		t.Config = domain.EventTourConfig{
			TourStart:         tourTime(tourStart, domain.DefaultTourStartTime),
			TourEnd:           tourTime(tourEnd, domain.DefaultTourEndTime),
			MaxClusters:       int(maxClusters.Int64),
			MembersPerCluster: members,
			PricePerCluster:   pricePerCluster.Float64,
			ExclusiveWithType: partner,
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, t.Category)
	}

	return &t, nil
}

// tourTime время тура из колонки, при NULL или мусоре значение по умолчанию
func tourTime(v sql.NullString, def string) types.TimeString {
	if v.Valid {
		if ts, err := types.NewTimeStringFromString(v.String); err == nil {
			return ts
		}
	}
	return types.TimeString(def)
}

func weekdaysToInt64(days []int) []int64 {
	out := make([]int64, 0, len(days))
	for _, d := range days {
		out = append(out, int64(d))
	}
	return out
}
