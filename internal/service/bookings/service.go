package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/booking"
	bookingTypeRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/bookingtype"
	"github.com/m04kA/SMC-HubBookingService/internal/service/admission"
	"github.com/m04kA/SMC-HubBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-HubBookingService/pkg/pagination"
	"github.com/m04kA/SMC-HubBookingService/pkg/txmanager"
)

// Service администрирование журнала бронирований
type Service struct {
	bookingRepo BookingRepository
	typeRepo    BookingTypeRepository
	checker     AdmissionChecker
	uploads     UploadStore
	notifier    Notifier
	publisher   EventPublisher
	txManager   TransactionManager
	location    *time.Location
	pageSize    int
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	typeRepo BookingTypeRepository,
	checker AdmissionChecker,
	uploads UploadStore,
	notifier Notifier,
	publisher EventPublisher,
	txManager TransactionManager,
	location *time.Location,
	pageSize int,
	logger Logger,
) *Service {
	if location == nil {
		location = time.Local
	}
	if pageSize <= 0 {
		pageSize = domain.PageSize
	}
	return &Service{
		bookingRepo: bookingRepo,
		typeRepo:    typeRepo,
		checker:     checker,
		uploads:     uploads,
		notifier:    notifier,
		publisher:   publisher,
		txManager:   txManager,
		location:    location,
		pageSize:    pageSize,
		logger:      logger,
	}
}

// List страница журнала, новые сверху
//
// Примеры использования:
// - Все бронирования: List(ctx, &ListBookingsRequest{})
// - Ожидающие подтверждения: Status = "pending"
// - Бронирования зала за месяц: TypeID, DateFrom и DateTo
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*domain.BookingPage, error) {
	filter, err := req.ToDomainFilter(s.location)
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		if errors.Is(err, models.ErrInvalidStatus) {
			return nil, domain.NewValidationError(ErrInvalidStatus, "Invalid status")
		}
		return nil, domain.NewValidationError(ErrInvalidInput, "Invalid date, expected YYYY-MM-DD")
	}

	page := pagination.New(req.Page, s.pageSize)

	bookings, total, err := s.bookingRepo.List(ctx, filter, page)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d of %d bookings, page=%d", len(bookings), total, page.Number)
	return &domain.BookingPage{
		Bookings:   bookings,
		Page:       page.Number,
		PerPage:    page.PerPage,
		Total:      total,
		TotalPages: pagination.TotalPages(total, page.PerPage),
	}, nil
}

// GetByID бронирование со слотами и доп. услугами
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, domain.NewNotFoundError(ErrBookingNotFound, "Booking not found")
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}
	return booking, nil
}

// UpdateStatus переводит бронирование в pending, approved или rejected
// Отклонённое бронирование остаётся в журнале и перестаёт занимать ресурсы
// Возврат из rejected заново проверяет слоты, места и доп. услуги под блокировкой даты
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Booking, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s", id, status)

	newStatus, err := models.ToDomainBookingStatus(status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", status, id)
		return nil, domain.NewValidationError(ErrInvalidStatus, "Invalid status")
	}

	var (
		booking   *domain.Booking
		bt        *domain.BookingType
		oldStatus domain.BookingStatus
	)

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		oldStatus = b.Status

		t, err := s.getType(txCtx, b.BookingTypeID)
		if err != nil {
			return err
		}

		if oldStatus == newStatus {
			booking, bt = b, t
			return nil
		}

		if !b.IsActive() && (newStatus == domain.StatusPending || newStatus == domain.StatusApproved) {
			if err := s.checker.Lock(txCtx, t, b.BookingDate); err != nil {
				return err
			}
			if _, err := s.checker.Check(txCtx, admission.Candidate{
				Type:    t,
				Date:    b.BookingDate,
				SlotIDs: b.SlotIDs,
				Tickets: b.TicketCount,
				Addons:  b.Addons,
				Lenient: true,
			}); err != nil {
				s.logger.Warn("UpdateStatus: booking id=%d cannot be reactivated: %v", id, err)
				return err
			}
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, id, newStatus); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return domain.NewNotFoundError(ErrBookingNotFound, "Booking not found")
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		b.Status = newStatus
		booking, bt = b, t
		return nil
	})
	if err != nil {
		if txmanager.IsSerializationFailure(err) {
			s.logger.Warn("UpdateStatus: retries exhausted for booking id=%d: %v", id, err)
			return nil, domain.NewConflictError(ErrConcurrentUpdate,
				"The booking was changed at the same time. Please refresh and try again.")
		}
		return nil, err
	}

	if oldStatus == newStatus {
		s.logger.Info("UpdateStatus: booking id=%d already %s", id, newStatus)
		return booking, nil
	}

	s.notifier.BookingStatusChanged(booking, bt)
	s.publish(ctx, domain.StatusEvent(newStatus), booking)

	s.logger.Info("UpdateStatus: booking id=%d %s -> %s", id, oldStatus, newStatus)
	return booking, nil
}

// Delete удаляет бронирование, его доп. услуги и скриншот оплаты
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting booking id=%d", id)

	var booking *domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		b, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.bookingRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return domain.NewNotFoundError(ErrBookingNotFound, "Booking not found")
			}
			s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - repository error: %w", ErrInternal, err)
		}
		booking = b
		return nil
	})
	if err != nil {
		return err
	}

	if booking.PaymentImage != nil {
		if err := s.uploads.Delete(ctx, *booking.PaymentImage); err != nil {
			s.logger.Error("Delete: failed to remove payment image for booking id=%d: %v", id, err)
		}
	}

	s.publish(ctx, domain.EventBookingDeleted, booking)

	s.logger.Info("Delete: booking id=%d deleted", id)
	return nil
}

// UpdateClusterTimeRanges администратор задаёт интервалы кластеров группового тура
// Количество интервалов равно количеству кластеров, конец позже начала
func (s *Service) UpdateClusterTimeRanges(ctx context.Context, id int64, raw [][2]string) (*domain.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Category != domain.CategoryEventTour {
		return nil, domain.NewValidationError(ErrNotEventTour, "Cluster time ranges apply to event tour bookings only")
	}

	ranges, err := domain.ParseClusterRanges(raw, booking.TicketCount)
	if err != nil {
		s.logger.Warn("UpdateClusterTimeRanges: invalid ranges for booking id=%d: %v", id, err)
		switch {
		case errors.Is(err, domain.ErrClusterRangeCount):
			return nil, domain.NewValidationError(err, "Expected %d time ranges, one per cluster", booking.TicketCount)
		case errors.Is(err, domain.ErrClusterRangeOrder):
			return nil, domain.NewValidationError(err, "Each cluster must end after it starts")
		default:
			return nil, domain.NewValidationError(err, "Invalid time, expected HH:MM")
		}
	}

	if err := s.bookingRepo.UpdateClusterTimeRanges(ctx, id, ranges); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, domain.NewNotFoundError(ErrBookingNotFound, "Booking not found")
		}
		s.logger.Error("UpdateClusterTimeRanges: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateClusterTimeRanges - repository error: %w", ErrInternal, err)
	}

	booking.ClusterTimeRanges = ranges
	s.logger.Info("UpdateClusterTimeRanges: booking id=%d updated with %d ranges", id, len(ranges))
	return booking, nil
}

func (s *Service) getType(ctx context.Context, typeID int64) (*domain.BookingType, error) {
	t, err := s.typeRepo.GetByID(ctx, typeID)
	if err != nil {
		if errors.Is(err, bookingTypeRepo.ErrBookingTypeNotFound) {
			return nil, domain.NewNotFoundError(ErrTypeNotFound, "Invalid booking type")
		}
		s.logger.Error("getType: repository error for type=%d: %v", typeID, err)
		return nil, fmt.Errorf("%w: getType - repository error: %w", ErrInternal, err)
	}
	return t, nil
}

// publish событие после фиксации изменений, ошибка только логируется
func (s *Service) publish(ctx context.Context, kind string, b *domain.Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, domain.NewBookingEvent(kind, b)); err != nil {
		s.logger.Warn("publish: %s for booking id=%d failed: %v", kind, b.ID, err)
	}
}
