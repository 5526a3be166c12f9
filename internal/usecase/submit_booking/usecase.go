package submit_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	bookingTypeRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/bookingtype"
	"github.com/m04kA/SMC-HubBookingService/internal/service/admission"
	"github.com/m04kA/SMC-HubBookingService/pkg/txmanager"
)

// Результаты приёма заявки для метрик
const (
	resultAccepted = "accepted"
	resultRejected = "rejected"
	resultConflict = "conflict"
	resultError    = "error"
)

// UseCase use case для приёма заявки на бронирование
type UseCase struct {
	bookingRepo  BookingRepository
	typeRepo     BookingTypeRepository
	holidays     HolidayChecker
	checker      AdmissionChecker
	uploads      UploadStore
	notifier     Notifier
	publisher    EventPublisher
	observer     AdmissionObserver
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// publisher и observer могут быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	typeRepo BookingTypeRepository,
	holidays HolidayChecker,
	checker AdmissionChecker,
	uploads UploadStore,
	notifier Notifier,
	publisher EventPublisher,
	observer AdmissionObserver,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		typeRepo:     typeRepo,
		holidays:     holidays,
		checker:      checker,
		uploads:      uploads,
		notifier:     notifier,
		publisher:    publisher,
		observer:     observer,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{Location: location},
		logger:       logger,
	}
}

// WithTimeProvider подменяет часы (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case приёма заявки
// Проверка занятости и вставка идут в одной сериализуемой транзакции под блокировкой (ресурс, дата)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	uc.logger.Info("SubmitBooking: type=%d, date=%s, slots=%v, tickets=%d, addons=%d",
		req.TypeID, req.Date.Format(domain.DateFormat), req.SlotIDs, req.TicketCount, len(req.Addons))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем тип бронирования
	bt, err := uc.typeRepo.GetByID(ctx, req.TypeID)
	if err != nil {
		if errors.Is(err, bookingTypeRepo.ErrBookingTypeNotFound) {
			uc.logger.Warn("SubmitBooking: type id=%d not found", req.TypeID)
			return nil, domain.NewValidationError(ErrTypeNotFound, "Invalid booking type")
		}
		uc.logger.Error("SubmitBooking: failed to get type id=%d: %v", req.TypeID, err)
		return nil, fmt.Errorf("%w: failed to get booking type: %w", ErrInternal, err)
	}

	category := string(bt.Category)
	defer func() {
		uc.observe(category, err)
	}()

	if err := validateCategoryInput(bt, req); err != nil {
		uc.logger.Warn("SubmitBooking: validation failed: %v", err)
		return nil, err
	}

	// 3. Сохраняем скриншот оплаты, при любом отказе ниже он удаляется
	paymentImage, err := uc.storeUpload(ctx, req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil && paymentImage != nil {
			if delErr := uc.uploads.Delete(context.WithoutCancel(ctx), *paymentImage); delErr != nil {
				uc.logger.Error("SubmitBooking: failed to remove upload %s: %v", *paymentImage, delErr)
			}
		}
	}()

	if !hasText(req.TransactionID) && paymentImage == nil {
		uc.logger.Warn("SubmitBooking: no payment evidence")
		return nil, domain.NewValidationError(ErrPaymentRequired, "Either Transaction ID or Payment Screenshot is required")
	}

	// 4. Дата: прошлое, выходные, праздники, горизонт, начавшийся тур
	now := uc.timeProvider.Now()

	isHoliday, err := uc.holidays.IsHoliday(ctx, req.Date)
	if err != nil {
		uc.logger.Error("SubmitBooking: failed to check holiday: %v", err)
		return nil, fmt.Errorf("%w: failed to check holiday: %w", ErrInternal, err)
	}
	if err := validateDate(bt, req.Date, now, isHoliday); err != nil {
		uc.logger.Warn("SubmitBooking: date validation failed: %v", err)
		return nil, err
	}

	// 5. Проверка и вставка под блокировкой даты
	var result *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.checker.Lock(txCtx, bt, req.Date); err != nil {
			return err
		}

		admitted, err := uc.checker.Check(txCtx, admission.Candidate{
			Type:    bt,
			Date:    req.Date,
			SlotIDs: req.SlotIDs,
			Tickets: req.TicketCount,
			Addons:  toBookingAddons(req.Addons),
		})
		if err != nil {
			return err
		}

		booking, err := uc.buildBooking(bt, req, admitted, paymentImage)
		if err != nil {
			return err
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("SubmitBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("SubmitBooking: retries exhausted for type=%d date=%s: %v",
				req.TypeID, req.Date.Format(domain.DateFormat), err)
			return nil, domain.NewConflictError(ErrConcurrentUpdate,
				"Some slots are already booked. Please refresh and try again.")
		}
		return nil, err
	}

	uc.logger.Info("SubmitBooking: successfully created booking id=%d, total=%.2f", result.ID, result.TotalPrice)

	// 6. После фиксации: уведомление оператору и событие
	uc.notifier.BookingCreated(result, bt)
	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, domain.NewBookingEvent(domain.EventBookingCreated, result)); err != nil {
			uc.logger.Warn("SubmitBooking: failed to publish event for booking id=%d: %v", result.ID, err)
		}
	}

	return toResponse(result), nil
}

func (uc *UseCase) storeUpload(ctx context.Context, req *Request) (*string, error) {
	if req.PaymentImage == nil {
		return nil, nil
	}

	uri, err := uc.uploads.Save(ctx, req.PaymentImage)
	if err != nil {
		if vErr := uploadError(err); vErr != nil {
			uc.logger.Warn("SubmitBooking: payment image rejected: %v", err)
			return nil, vErr
		}
		uc.logger.Error("SubmitBooking: failed to store payment image: %v", err)
		return nil, fmt.Errorf("%w: failed to store payment image: %w", ErrInternal, err)
	}
	return &uri, nil
}

// buildBooking собирает запись журнала, цена всегда считается на сервере
func (uc *UseCase) buildBooking(bt *domain.BookingType, req *Request, admitted *admission.Result, paymentImage *string) (*domain.Booking, error) {
	booking := &domain.Booking{
		BookingTypeID: bt.ID,
		BookingDate:   req.Date,
		TicketCount:   1,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		TransactionID: trimmed(req.TransactionID),
		PaymentImage:  paymentImage,
		Notes:         trimmed(req.Notes),
		Status:        domain.StatusPending,
		TypeName:      bt.Name,
		Category:      bt.Category,
	}

	switch cfg := bt.Config.(type) {
	case domain.HallConfig, domain.StaircaseConfig:
		booking.Slots = admitted.Slots
		booking.SlotIDs = make([]int64, 0, len(admitted.Slots))
		for _, s := range admitted.Slots {
			booking.SlotIDs = append(booking.SlotIDs, s.ID)
		}
		booking.Addons = admitted.Addons
		booking.TotalPrice = domain.SlotsPrice(admitted.Slots) + domain.AddonLinesPrice(admitted.Addons)

	case domain.IndividualTourConfig:
		booking.TicketCount = req.TicketCount
		booking.TotalPrice = domain.IndividualTourPrice(cfg.TicketPrice, req.TicketCount)

	case domain.EventTourConfig:
		hours, adjusted := domain.NormalizeClusterHours(req.ClusterHours, req.TicketCount, cfg.MaxHoursPerCluster())
		if adjusted {
			uc.logger.Warn("SubmitBooking: cluster hours %v adjusted to %v for %d clusters",
				req.ClusterHours, hours, req.TicketCount)
		}
		ranges, err := domain.DefaultClusterRanges(cfg.TourStart, cfg.TourEnd, hours)
		if err != nil {
			uc.logger.Error("SubmitBooking: failed to lay out cluster ranges: %v", err)
			return nil, fmt.Errorf("%w: failed to lay out cluster ranges: %v", ErrInternal, err)
		}
		booking.TicketCount = req.TicketCount
		booking.ClusterHours = hours
		booking.ClusterTimeRanges = ranges
		booking.TotalPrice = domain.EventTourPrice(cfg.PricePerCluster, hours)
	}

	return booking, nil
}

func (uc *UseCase) observe(category string, err error) {
	if uc.observer == nil {
		return
	}
	switch {
	case err == nil:
		uc.observer.ObserveAdmission(category, resultAccepted)
	case errors.Is(err, domain.ErrConflict):
		uc.observer.ObserveAdmission(category, resultConflict)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		uc.observer.ObserveAdmission(category, resultRejected)
	default:
		uc.observer.ObserveAdmission(category, resultError)
	}
}

func toBookingAddons(lines []AddonLine) []domain.BookingAddon {
	if len(lines) == 0 {
		return nil
	}
	out := make([]domain.BookingAddon, 0, len(lines))
	for _, l := range lines {
		out = append(out, domain.BookingAddon{AddonID: l.AddonID, Quantity: l.Quantity})
	}
	return out
}

func toResponse(b *domain.Booking) *Response {
	resp := &Response{
		ID:           b.ID,
		TypeID:       b.BookingTypeID,
		Category:     string(b.Category),
		BookingDate:  b.BookingDate,
		SlotIDs:      b.SlotIDs,
		TicketCount:  b.TicketCount,
		ClusterHours: b.ClusterHours,
		TotalPrice:   b.TotalPrice,
		Status:       string(b.Status),
		PaymentImage: b.PaymentImage,
		CreatedAt:    b.CreatedAt,
	}
	for _, r := range b.ClusterTimeRanges {
		resp.ClusterTimeRanges = append(resp.ClusterTimeRanges, [2]string{r.Start.String(), r.End.String()})
	}
	for _, a := range b.Addons {
		resp.Addons = append(resp.Addons, AddonResponse{
			AddonID:  a.AddonID,
			Name:     a.AddonName,
			Price:    a.AddonPrice,
			Quantity: a.Quantity,
		})
	}
	return resp
}

// trimmed значение без пробелов по краям, пустое становится nil
func trimmed(v *string) *string {
	if !hasText(v) {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}
