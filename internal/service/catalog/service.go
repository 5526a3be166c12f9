package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	addonRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/addon"
	bookingTypeRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/bookingtype"
	slotRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-HubBookingService/pkg/types"
)

// Service каталог слотов и доп. услуг
type Service struct {
	typeRepo  BookingTypeRepository
	slotRepo  SlotRepository
	addonRepo AddonRepository
	usageRepo UsageRepository
	logger    Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	typeRepo BookingTypeRepository,
	slotRepo SlotRepository,
	addonRepo AddonRepository,
	usageRepo UsageRepository,
	logger Logger,
) *Service {
	return &Service{
		typeRepo:  typeRepo,
		slotRepo:  slotRepo,
		addonRepo: addonRepo,
		usageRepo: usageRepo,
		logger:    logger,
	}
}

// ListSlots слоты типа по времени начала
func (s *Service) ListSlots(ctx context.Context, typeID int64) ([]domain.Slot, error) {
	slots, err := s.slotRepo.ListByType(ctx, typeID)
	if err != nil {
		s.logger.Error("ListSlots: repository error for type=%d: %v", typeID, err)
		return nil, fmt.Errorf("%w: ListSlots: %w", ErrInternal, err)
	}
	return slots, nil
}

// AddSlotRequest новый слот
type AddSlotRequest struct {
	TypeID    int64
	Name      string
	StartTime string
	EndTime   string
	Price     float64
}

// AddSlot добавляет слот залу или лестнице
func (s *Service) AddSlot(ctx context.Context, req AddSlotRequest) (*domain.Slot, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.StartTime == "" || req.EndTime == "" {
		return nil, domain.NewValidationError(ErrInvalidInput, "Name, start time and end time are required")
	}
	if req.Price < 0 {
		return nil, domain.NewValidationError(ErrInvalidInput, "Price must not be negative")
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, domain.NewValidationError(ErrInvalidInput, "Invalid start time %q, expected HH:MM", req.StartTime)
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, domain.NewValidationError(ErrInvalidInput, "Invalid end time %q, expected HH:MM", req.EndTime)
	}
	if !end.IsAfter(start) {
		return nil, domain.NewValidationError(ErrInvalidInput, "End time must be after start time")
	}

	bt, err := s.getType(ctx, req.TypeID)
	if err != nil {
		return nil, err
	}
	if !bt.Category.UsesSlots() {
		s.logger.Warn("AddSlot: type=%d category=%s does not use slots", bt.ID, bt.Category)
		return nil, domain.NewValidationError(ErrWrongCategory, "Slots can only be added to hall or staircase types")
	}

	slot, err := s.slotRepo.Create(ctx, &domain.Slot{
		BookingTypeID: bt.ID,
		Name:          name,
		StartTime:     start,
		EndTime:       end,
		Price:         req.Price,
	})
	if err != nil {
		s.logger.Error("AddSlot: repository error for type=%d: %v", bt.ID, err)
		return nil, fmt.Errorf("%w: AddSlot: %w", ErrInternal, err)
	}

	s.logger.Info("AddSlot: slot id=%d %s-%s added to type=%d", slot.ID, start, end, bt.ID)
	return slot, nil
}

// DeleteSlot удаляет слот из каталога
// Бронирования, где он указан, сохраняют id, но слот перестаёт занимать время
func (s *Service) DeleteSlot(ctx context.Context, slotID int64) error {
	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return domain.NewNotFoundError(ErrSlotNotFound, "Slot not found")
		}
		s.logger.Error("DeleteSlot: repository error for slot=%d: %v", slotID, err)
		return fmt.Errorf("%w: DeleteSlot: %w", ErrInternal, err)
	}
	s.logger.Info("DeleteSlot: slot id=%d deleted", slotID)
	return nil
}

// ListAddons доп. услуги типа
func (s *Service) ListAddons(ctx context.Context, typeID int64) ([]domain.Addon, error) {
	addons, err := s.addonRepo.ListByType(ctx, typeID)
	if err != nil {
		s.logger.Error("ListAddons: repository error for type=%d: %v", typeID, err)
		return nil, fmt.Errorf("%w: ListAddons: %w", ErrInternal, err)
	}
	return addons, nil
}

// AddonInput поля доп. услуги
type AddonInput struct {
	Name        string
	Price       float64
	MaxQuantity int
}

func (in AddonInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.NewValidationError(ErrInvalidInput, "Addon name is required")
	}
	if in.Price < 0 {
		return domain.NewValidationError(ErrInvalidInput, "Addon price must not be negative")
	}
	if in.MaxQuantity < 0 {
		return domain.NewValidationError(ErrInvalidInput, "Addon max quantity must not be negative")
	}
	return nil
}

// AddAddon добавляет доп. услугу залу
func (s *Service) AddAddon(ctx context.Context, typeID int64, in AddonInput) (*domain.Addon, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	bt, err := s.getType(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if bt.Category != domain.CategoryHall {
		s.logger.Warn("AddAddon: type=%d category=%s does not support addons", bt.ID, bt.Category)
		return nil, domain.NewValidationError(ErrWrongCategory, "Addons can only be added to hall types")
	}

	addon, err := s.addonRepo.Create(ctx, &domain.Addon{
		BookingTypeID: bt.ID,
		Name:          strings.TrimSpace(in.Name),
		Price:         in.Price,
		MaxQuantity:   in.MaxQuantity,
	})
	if err != nil {
		s.logger.Error("AddAddon: repository error for type=%d: %v", bt.ID, err)
		return nil, fmt.Errorf("%w: AddAddon: %w", ErrInternal, err)
	}

	s.logger.Info("AddAddon: addon id=%d added to type=%d", addon.ID, bt.ID)
	return addon, nil
}

// UpdateAddon меняет название, цену и дневной запас
// Уже оформленные бронирования сохраняют прежние название и цену
func (s *Service) UpdateAddon(ctx context.Context, addonID int64, in AddonInput) (*domain.Addon, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	addon, err := s.getAddon(ctx, addonID)
	if err != nil {
		return nil, err
	}

	addon.Name = strings.TrimSpace(in.Name)
	addon.Price = in.Price
	addon.MaxQuantity = in.MaxQuantity

	if err := s.addonRepo.Update(ctx, addon); err != nil {
		if errors.Is(err, addonRepo.ErrAddonNotFound) {
			return nil, domain.NewNotFoundError(ErrAddonNotFound, "Addon not found")
		}
		s.logger.Error("UpdateAddon: repository error for addon=%d: %v", addonID, err)
		return nil, fmt.Errorf("%w: UpdateAddon: %w", ErrInternal, err)
	}

	s.logger.Info("UpdateAddon: addon id=%d updated, max_quantity=%d", addonID, in.MaxQuantity)
	return addon, nil
}

// DeleteAddon удаляет доп. услугу
func (s *Service) DeleteAddon(ctx context.Context, addonID int64) error {
	if err := s.addonRepo.Delete(ctx, addonID); err != nil {
		if errors.Is(err, addonRepo.ErrAddonNotFound) {
			return domain.NewNotFoundError(ErrAddonNotFound, "Addon not found")
		}
		s.logger.Error("DeleteAddon: repository error for addon=%d: %v", addonID, err)
		return fmt.Errorf("%w: DeleteAddon: %w", ErrInternal, err)
	}
	s.logger.Info("DeleteAddon: addon id=%d deleted", addonID)
	return nil
}

// RemainingForDate остаток доп. услуги на дату
// Считается по журналу при каждом вызове
func (s *Service) RemainingForDate(ctx context.Context, addonID int64, date time.Time) (*domain.AddonAvailability, error) {
	addon, err := s.getAddon(ctx, addonID)
	if err != nil {
		return nil, err
	}

	usage, err := s.usageRepo.AddonUsage(ctx, addon.BookingTypeID, date)
	if err != nil {
		s.logger.Error("RemainingForDate: usage error for addon=%d: %v", addonID, err)
		return nil, fmt.Errorf("%w: RemainingForDate: %w", ErrInternal, err)
	}

	return availability(*addon, usage[addon.ID]), nil
}

// RemainingForDateBatch остатки всех доп. услуг типа на дату
func (s *Service) RemainingForDateBatch(ctx context.Context, typeID int64, date time.Time) ([]domain.AddonAvailability, error) {
	addons, err := s.ListAddons(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if len(addons) == 0 {
		return []domain.AddonAvailability{}, nil
	}

	usage, err := s.usageRepo.AddonUsage(ctx, typeID, date)
	if err != nil {
		s.logger.Error("RemainingForDateBatch: usage error for type=%d: %v", typeID, err)
		return nil, fmt.Errorf("%w: RemainingForDateBatch: %w", ErrInternal, err)
	}

	result := make([]domain.AddonAvailability, 0, len(addons))
	for _, a := range addons {
		result = append(result, *availability(a, usage[a.ID]))
	}
	return result, nil
}

func availability(addon domain.Addon, used int) *domain.AddonAvailability {
	return &domain.AddonAvailability{
		Addon:     addon,
		Used:      used,
		Remaining: domain.Remaining(addon.MaxQuantity, used),
	}
}

func (s *Service) getType(ctx context.Context, typeID int64) (*domain.BookingType, error) {
	bt, err := s.typeRepo.GetByID(ctx, typeID)
	if err != nil {
		if errors.Is(err, bookingTypeRepo.ErrBookingTypeNotFound) {
			return nil, domain.NewNotFoundError(ErrTypeNotFound, "Invalid booking type")
		}
		s.logger.Error("getType: repository error for type=%d: %v", typeID, err)
		return nil, fmt.Errorf("%w: getType: %w", ErrInternal, err)
	}
	return bt, nil
}

func (s *Service) getAddon(ctx context.Context, addonID int64) (*domain.Addon, error) {
	addon, err := s.addonRepo.GetByID(ctx, addonID)
	if err != nil {
		if errors.Is(err, addonRepo.ErrAddonNotFound) {
			return nil, domain.NewNotFoundError(ErrAddonNotFound, "Addon not found")
		}
		s.logger.Error("getAddon: repository error for addon=%d: %v", addonID, err)
		return nil, fmt.Errorf("%w: getAddon: %w", ErrInternal, err)
	}
	return addon, nil
}
