package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	"github.com/m04kA/SMC-HubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HubBookingService/pkg/pagination"
	"github.com/m04kA/SMC-HubBookingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"b.id",
	"b.booking_type_id",
	"b.booking_date",
	"b.slot_ids",
	"b.cluster_hours",
	"b.cluster_time_ranges",
	"b.ticket_count",
	"b.total_price",
	"b.customer_name",
	"b.customer_email",
	"b.customer_phone",
	"b.transaction_id",
	"b.payment_image",
	"b.notes",
	"b.status",
	"b.created_at",
	"b.updated_at",
	"t.name",
	"t.category",
}

// Repository журнал бронирований
// Ошибки драйвера оборачиваются через %w, чтобы менеджер транзакций видел коды pq
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование и его строки доп. услуг
// Должен вызываться внутри транзакции, иначе при сбое вставки строк останется бронирование без них
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	ranges, err := json.Marshal(nonNilRanges(booking.ClusterTimeRanges))
	if err != nil {
		return nil, fmt.Errorf("%w: Create: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"booking_type_id",
			"booking_date",
			"slot_ids",
			"cluster_hours",
			"cluster_time_ranges",
			"ticket_count",
			"total_price",
			"customer_name",
			"customer_email",
			"customer_phone",
			"transaction_id",
			"payment_image",
			"notes",
			"status",
		).
		Values(
			booking.BookingTypeID,
			booking.BookingDate.Format(domain.DateFormat),
			pq.Int64Array(nonNilIDs(booking.SlotIDs)),
			pq.Int64Array(intsToInt64(booking.ClusterHours)),
			string(ranges),
			booking.TicketCount,
			booking.TotalPrice,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.TransactionID,
			booking.PaymentImage,
			booking.Notes,
			booking.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	for i := range booking.Addons {
		line := &booking.Addons[i]
		line.BookingID = booking.ID
		if err := r.insertAddonLine(ctx, executor, line); err != nil {
			return nil, err
		}
	}

	return booking, nil
}

func (r *Repository) insertAddonLine(ctx context.Context, executor DBExecutor, line *domain.BookingAddon) error {
	query, args, err := psqlbuilder.Insert("booking_addons").
		Columns("booking_id", "addon_id", "addon_name", "addon_price", "quantity").
		Values(line.BookingID, line.AddonID, line.AddonName, line.AddonPrice, line.Quantity).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertAddonLine - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&line.ID); err != nil {
		return fmt.Errorf("%w: insertAddonLine - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// GetByID получает бронирование по ID вместе с доп. услугами и слотами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := baseSelect().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	bookings := []*domain.Booking{booking}
	if err := r.attachDetails(ctx, executor, bookings); err != nil {
		return nil, err
	}
	return booking, nil
}

// GetWithFilter бронирования по фильтру без пагинации, со слотами и доп. услугами
// Внутри транзакции и при фильтре по одной дате строки блокируются (FOR UPDATE)
//
// Примеры:
//
//	активные бронирования типа на дату:
//	  domain.BookingFilter{TypeIDs: []int64{typeID}, DateFrom: &d, DateTo: &d, ActiveOnly: true}
//	занятость для календаря начиная с сегодня:
//	  domain.BookingFilter{TypeIDs: []int64{typeID}, DateFrom: &today, ActiveOnly: true}
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyFilter(baseSelect(), filter).
		OrderBy("b.booking_date ASC", "b.id ASC")

	if dbmetrics.IsInTransaction(ctx) && filter.SingleDate() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachDetails(ctx, executor, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// List страница бронирований, новые сверху, со слотами и доп. услугами
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter, page pagination.Page) ([]*domain.Booking, int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	countQuery, countArgs, err := applyFilter(
		psqlbuilder.Select("COUNT(*)").From("bookings b"), filter,
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int64
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - count: %w", ErrScanRow, err)
	}

	query, args, err := applyFilter(baseSelect(), filter).
		OrderBy("b.created_at DESC", "b.id DESC").
		Limit(uint64(page.PerPage)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, 0, err
	}

	if err := r.attachDetails(ctx, executor, bookings); err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// UpdateStatus меняет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.update(ctx, "UpdateStatus", id, map[string]interface{}{"status": status})
}

// UpdateClusterTimeRanges сохраняет интервалы кластеров, заданные администратором
func (r *Repository) UpdateClusterTimeRanges(ctx context.Context, id int64, ranges []domain.TimeRange) error {
	encoded, err := json.Marshal(nonNilRanges(ranges))
	if err != nil {
		return fmt.Errorf("%w: UpdateClusterTimeRanges: %v", ErrEncode, err)
	}
	return r.update(ctx, "UpdateClusterTimeRanges", id, map[string]interface{}{"cluster_time_ranges": string(encoded)})
}

func (r *Repository) update(ctx context.Context, op string, id int64, values map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		SetMap(values).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// Delete удаляет бронирование и его строки доп. услуг
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_addons").
		Where(squirrel.Eq{"booking_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build addon delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - delete addon lines: %w", ErrExecQuery, err)
	}

	query, args, err = psqlbuilder.Delete("bookings").
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
		return ErrBookingNotFound
	}
	return nil
}

// AddonUsage сколько единиц каждой доп. услуги типа занято активными бронированиями на дату
func (r *Repository) AddonUsage(ctx context.Context, typeID int64, date time.Time) (map[int64]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("ba.addon_id", "COALESCE(SUM(ba.quantity), 0)").
		From("booking_addons ba").
		Join("bookings b ON b.id = ba.booking_id").
		Where(squirrel.Eq{"b.booking_type_id": typeID}).
		Where(squirrel.Eq{"b.booking_date": date.Format(domain.DateFormat)}).
		Where(squirrel.Eq{"b.status": activeStatusStrings()}).
		Where(squirrel.NotEq{"ba.addon_id": nil}).
		GroupBy("ba.addon_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AddonUsage - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: AddonUsage - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	usage := make(map[int64]int)
	for rows.Next() {
		var addonID int64
		var used int
		if err := rows.Scan(&addonID, &used); err != nil {
			return nil, fmt.Errorf("%w: AddonUsage - scan: %w", ErrScanRow, err)
		}
		usage[addonID] = used
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: AddonUsage - rows: %w", ErrScanRow, err)
	}
	return usage, nil
}

// LockDate берёт транзакционную advisory-блокировку на пару (ресурс, дата)
// Снимается автоматически при завершении транзакции. Работает между процессами
func (r *Repository) LockDate(ctx context.Context, resourceKey int64, date time.Time) error {
	tx, ok := dbmetrics.GetTx(ctx)
	if !ok {
		return ErrLockRequiresTx
	}

	y, m, d := date.Date()
	days := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / int64((24 * time.Hour).Seconds())
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1::int, $2::int)", int32(resourceKey), int32(days)); err != nil {
		return fmt.Errorf("%w: LockDate: %w", ErrExecQuery, err)
	}
	return nil
}

// attachDetails подгружает строки доп. услуг и слоты для списка бронирований
func (r *Repository) attachDetails(ctx context.Context, executor DBExecutor, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Booking, len(bookings))
	bookingIDs := make([]int64, 0, len(bookings))
	slotIDSet := make(map[int64]struct{})
	for _, b := range bookings {
		byID[b.ID] = b
		bookingIDs = append(bookingIDs, b.ID)
		for _, id := range b.SlotIDs {
			slotIDSet[id] = struct{}{}
		}
	}

	query, args, err := psqlbuilder.Select("id", "booking_id", "COALESCE(addon_id, 0)", "addon_name", "addon_price", "quantity").
		From("booking_addons").
		Where(squirrel.Eq{"booking_id": bookingIDs}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachDetails - build addon query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachDetails - addon query: %w", ErrExecQuery, err)
	}
	for rows.Next() {
		var line domain.BookingAddon
		if err := rows.Scan(&line.ID, &line.BookingID, &line.AddonID, &line.AddonName, &line.AddonPrice, &line.Quantity); err != nil {
			rows.Close()
			return fmt.Errorf("%w: attachDetails - scan addon: %w", ErrScanRow, err)
		}
		if b, ok := byID[line.BookingID]; ok {
			b.Addons = append(b.Addons, line)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachDetails - addon rows: %w", ErrScanRow, err)
	}

	if len(slotIDSet) == 0 {
		return nil
	}

	slotIDs := make([]int64, 0, len(slotIDSet))
	for id := range slotIDSet {
		slotIDs = append(slotIDs, id)
	}

	query, args, err = psqlbuilder.Select("id", "booking_type_id", "name", "start_time", "end_time", "price").
		From("slots").
		Where(squirrel.Eq{"id": slotIDs}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachDetails - build slot query: %v", ErrBuildQuery, err)
	}

	slotRows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachDetails - slot query: %w", ErrExecQuery, err)
	}
	defer slotRows.Close()

	slots := make(map[int64]domain.Slot)
	var ordered []int64
	for slotRows.Next() {
		var s domain.Slot
		if err := slotRows.Scan(&s.ID, &s.BookingTypeID, &s.Name, &s.StartTime, &s.EndTime, &s.Price); err != nil {
			return fmt.Errorf("%w: attachDetails - scan slot: %w", ErrScanRow, err)
		}
		slots[s.ID] = s
		ordered = append(ordered, s.ID)
	}
	if err := slotRows.Err(); err != nil {
		return fmt.Errorf("%w: attachDetails - slot rows: %w", ErrScanRow, err)
	}

	for _, b := range bookings {
		for _, id := range ordered {
			if b.HasSlot(id) {
				b.Slots = append(b.Slots, slots[id])
			}
		}
	}
	return nil
}

func baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Join("booking_types t ON t.id = b.booking_type_id")
}

func applyFilter(sb squirrel.SelectBuilder, f domain.BookingFilter) squirrel.SelectBuilder {
	if len(f.TypeIDs) > 0 {
		sb = sb.Where(squirrel.Eq{"b.booking_type_id": f.TypeIDs})
	}
	if f.DateFrom != nil {
		sb = sb.Where(squirrel.GtOrEq{"b.booking_date": f.DateFrom.Format(domain.DateFormat)})
	}
	if f.DateTo != nil {
		sb = sb.Where(squirrel.LtOrEq{"b.booking_date": f.DateTo.Format(domain.DateFormat)})
	}
	if f.Status != nil {
		sb = sb.Where(squirrel.Eq{"b.status": string(*f.Status)})
	} else if f.ActiveOnly {
		sb = sb.Where(squirrel.Eq{"b.status": activeStatusStrings()})
	}
	return sb
}

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b            domain.Booking
		slotIDs      pq.Int64Array
		clusterHours pq.Int64Array
		ranges       []byte
		createdAt    sql.NullTime
		updatedAt    sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.BookingTypeID,
		&b.BookingDate,
		&slotIDs,
		&clusterHours,
		&ranges,
		&b.TicketCount,
		&b.TotalPrice,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.TransactionID,
		&b.PaymentImage,
		&b.Notes,
		&b.Status,
		&createdAt,
		&updatedAt,
		&b.TypeName,
		&b.Category,
	)
	if err != nil {
		return nil, err
	}

	b.SlotIDs = []int64(slotIDs)
	b.ClusterHours = int64sToInts(clusterHours)
	if len(ranges) > 0 {
		if err := json.Unmarshal(ranges, &b.ClusterTimeRanges); err != nil {
			return nil, fmt.Errorf("decode cluster_time_ranges: %w", err)
		}
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings: %w", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows: %w", ErrScanRow, err)
	}
	return bookings, nil
}

func intsToInt64(values []int) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

func int64sToInts(values []int64) []int {
	if len(values) == 0 {
		return nil
	}
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}

func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func nonNilRanges(ranges []domain.TimeRange) []domain.TimeRange {
	if ranges == nil {
		return []domain.TimeRange{}
	}
	return ranges
}
