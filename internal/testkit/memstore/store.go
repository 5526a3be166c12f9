// Package memstore хранилище в памяти для тестов сервисов и use case
// Повторяет семантику Postgres репозиториев и возвращает их сентинелы
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/booking"
	bookingTypeRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/bookingtype"
	"github.com/m04kA/SMC-HubBookingService/pkg/pagination"
)

// Store общее состояние всех фейковых репозиториев
type Store struct {
	mu sync.Mutex

	types    map[int64]*domain.BookingType
	bookings map[int64]*domain.Booking
	slots    map[int64]domain.Slot
	addons   map[int64]domain.Addon
	holidays map[string]domain.Holiday

	nextID int64
	clock  func() time.Time

	// Locks ключи LockDate в порядке вызова, "<ресурс>:<дата>"
	Locks []string
}

// New пустое хранилище
func New() *Store {
	return &Store{
		types:    make(map[int64]*domain.BookingType),
		bookings: make(map[int64]*domain.Booking),
		slots:    make(map[int64]domain.Slot),
		addons:   make(map[int64]domain.Addon),
		holidays: make(map[string]domain.Holiday),
		clock:    time.Now,
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// PutType добавляет тип, ID = 0 назначается автоматически
func (s *Store) PutType(t *domain.BookingType) *domain.BookingType {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.id()
	} else if t.ID > s.nextID {
		s.nextID = t.ID
	}
	s.types[t.ID] = cloneType(t)
	return t
}

// PutSlot добавляет слот каталога
func (s *Store) PutSlot(slot domain.Slot) domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot.ID = s.id()
	s.slots[slot.ID] = slot
	return slot
}

// PutAddon добавляет доп. услугу
func (s *Store) PutAddon(addon domain.Addon) domain.Addon {
	s.mu.Lock()
	defer s.mu.Unlock()
	addon.ID = s.id()
	s.addons[addon.ID] = addon
	return addon
}

// PutBooking добавляет запись журнала в обход приёма заявок
func (s *Store) PutBooking(b *domain.Booking) *domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id()
	b.CreatedAt = s.clock()
	s.bookings[b.ID] = cloneBooking(b)
	return b
}

// BookingCount количество записей журнала
func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// Bookings репозиторий журнала
func (s *Store) Bookings() *BookingRepository { return &BookingRepository{s: s} }

// Types репозиторий типов
func (s *Store) Types() *TypeRepository { return &TypeRepository{s: s} }

// Slots репозиторий слотов
func (s *Store) Slots() *SlotRepository { return &SlotRepository{s: s} }

// Addons репозиторий доп. услуг
func (s *Store) Addons() *AddonRepository { return &AddonRepository{s: s} }

// Holidays репозиторий праздников
func (s *Store) Holidays() *HolidayRepository { return &HolidayRepository{s: s} }

type snapshot struct {
	types    map[int64]*domain.BookingType
	bookings map[int64]*domain.Booking
	nextID   int64
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		types:    make(map[int64]*domain.BookingType, len(s.types)),
		bookings: make(map[int64]*domain.Booking, len(s.bookings)),
		nextID:   s.nextID,
	}
	for id, t := range s.types {
		snap.types[id] = cloneType(t)
	}
	for id, b := range s.bookings {
		snap.bookings[id] = cloneBooking(b)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = snap.types
	s.bookings = snap.bookings
	s.nextID = snap.nextID
}

// BookingRepository журнал бронирований в памяти
type BookingRepository struct{ s *Store }

func (r *BookingRepository) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b.ID = r.s.id()
	b.CreatedAt = r.s.clock()
	b.UpdatedAt = b.CreatedAt
	for i := range b.Addons {
		b.Addons[i].ID = r.s.id()
		b.Addons[i].BookingID = b.ID
	}
	r.s.bookings[b.ID] = cloneBooking(b)
	return b, nil
}

func (r *BookingRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return r.s.detailed(b), nil
}

func (r *BookingRepository) GetWithFilter(_ context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := r.s.filtered(filter)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(out[j].BookingDate) {
			return out[i].BookingDate.Before(out[j].BookingDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *BookingRepository) List(_ context.Context, filter domain.BookingFilter, page pagination.Page) ([]*domain.Booking, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	all := r.s.filtered(filter)
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := int64(len(all))
	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + page.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *BookingRepository) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	return r.update(id, func(b *domain.Booking) { b.Status = status })
}

func (r *BookingRepository) UpdateClusterTimeRanges(_ context.Context, id int64, ranges []domain.TimeRange) error {
	return r.update(id, func(b *domain.Booking) {
		b.ClusterTimeRanges = append([]domain.TimeRange(nil), ranges...)
	})
}

func (r *BookingRepository) update(id int64, apply func(b *domain.Booking)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	apply(b)
	b.UpdatedAt = r.s.clock()
	return nil
}

func (r *BookingRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(r.s.bookings, id)
	return nil
}

func (r *BookingRepository) AddonUsage(_ context.Context, typeID int64, date time.Time) (map[int64]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	usage := make(map[int64]int)
	for _, b := range r.s.bookings {
		if b.BookingTypeID != typeID || !b.IsActive() || !domain.IsSameDay(b.BookingDate, date) {
			continue
		}
		for _, line := range b.Addons {
			if line.AddonID != 0 {
				usage[line.AddonID] += line.Quantity
			}
		}
	}
	return usage, nil
}

// LockDate только записывает ключ, взаимоисключение даёт TxManager
func (r *BookingRepository) LockDate(_ context.Context, resourceKey int64, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Locks = append(r.s.Locks, lockKey(resourceKey, date))
	return nil
}

func lockKey(resourceKey int64, date time.Time) string {
	return fmt.Sprintf("%d:%s", resourceKey, date.Format(domain.DateFormat))
}

func (s *Store) filtered(f domain.BookingFilter) []*domain.Booking {
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if len(f.TypeIDs) > 0 && !containsID(f.TypeIDs, b.BookingTypeID) {
			continue
		}
		day := b.BookingDate.Format(domain.DateFormat)
		if f.DateFrom != nil && day < f.DateFrom.Format(domain.DateFormat) {
			continue
		}
		if f.DateTo != nil && day > f.DateTo.Format(domain.DateFormat) {
			continue
		}
		if f.Status != nil {
			if b.Status != *f.Status {
				continue
			}
		} else if f.ActiveOnly && !b.IsActive() {
			continue
		}
		out = append(out, s.detailed(b))
	}
	return out
}

// detailed копия записи с денормализованными полями, как после JOIN и attachDetails
func (s *Store) detailed(b *domain.Booking) *domain.Booking {
	out := cloneBooking(b)
	if t, ok := s.types[b.BookingTypeID]; ok {
		out.TypeName = t.Name
		out.Category = t.Category
	}
	out.Slots = nil
	for _, id := range b.SlotIDs {
		if slot, ok := s.slots[id]; ok {
			out.Slots = append(out.Slots, slot)
		}
	}
	sort.Slice(out.Slots, func(i, j int) bool { return out.Slots[i].StartTime < out.Slots[j].StartTime })
	return out
}

// TypeRepository типы бронирований в памяти
type TypeRepository struct{ s *Store }

func (r *TypeRepository) GetByID(_ context.Context, id int64) (*domain.BookingType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.types[id]
	if !ok {
		return nil, bookingTypeRepo.ErrBookingTypeNotFound
	}
	return cloneType(t), nil
}

func (r *TypeRepository) List(_ context.Context, includeHidden bool) ([]*domain.BookingType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*domain.BookingType, 0, len(r.s.types))
	for _, t := range r.s.types {
		if t.IsHidden && !includeHidden {
			continue
		}
		out = append(out, cloneType(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TypeRepository) Update(_ context.Context, t *domain.BookingType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.types[t.ID]; !ok {
		return bookingTypeRepo.ErrBookingTypeNotFound
	}
	r.s.types[t.ID] = cloneType(t)
	return nil
}

func (r *TypeRepository) SetExclusivePartner(_ context.Context, typeID int64, partnerID *int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.types[typeID]
	if !ok {
		return bookingTypeRepo.ErrBookingTypeNotFound
	}
	var partner *int64
	if partnerID != nil {
		p := *partnerID
		partner = &p
	}
	switch cfg := t.Config.(type) {
	case domain.IndividualTourConfig:
		cfg.ExclusiveWithType = partner
		t.Config = cfg
	case domain.EventTourConfig:
		cfg.ExclusiveWithType = partner
		t.Config = cfg
	}
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	out := *b
	out.SlotIDs = append([]int64(nil), b.SlotIDs...)
	out.ClusterHours = append([]int(nil), b.ClusterHours...)
	out.ClusterTimeRanges = append([]domain.TimeRange(nil), b.ClusterTimeRanges...)
	out.Addons = append([]domain.BookingAddon(nil), b.Addons...)
	out.Slots = append([]domain.Slot(nil), b.Slots...)
	return &out
}

func cloneType(t *domain.BookingType) *domain.BookingType {
	out := *t
	out.WeekendDays = append([]int(nil), t.WeekendDays...)
	switch cfg := t.Config.(type) {
	case domain.IndividualTourConfig:
		if cfg.ExclusiveWithType != nil {
			p := *cfg.ExclusiveWithType
			cfg.ExclusiveWithType = &p
		}
		out.Config = cfg
	case domain.EventTourConfig:
		if cfg.ExclusiveWithType != nil {
			p := *cfg.ExclusiveWithType
			cfg.ExclusiveWithType = &p
		}
		out.Config = cfg
	}
	return &out
}
