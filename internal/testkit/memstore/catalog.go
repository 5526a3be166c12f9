package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-HubBookingService/internal/domain"
	addonRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/addon"
	slotRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-HubBookingService/pkg/pagination"
)

// SlotRepository каталог слотов в памяти
type SlotRepository struct{ s *Store }

func (r *SlotRepository) Create(_ context.Context, slot *domain.Slot) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot.ID = r.s.id()
	slot.CreatedAt = r.s.clock()
	r.s.slots[slot.ID] = *slot
	return slot, nil
}

func (r *SlotRepository) ListByType(_ context.Context, typeID int64) ([]domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]domain.Slot, 0)
	for _, slot := range r.s.slots {
		if slot.BookingTypeID == typeID {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *SlotRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.slots[id]; !ok {
		return slotRepo.ErrSlotNotFound
	}
	delete(r.s.slots, id)
	return nil
}

// AddonRepository доп. услуги в памяти
type AddonRepository struct{ s *Store }

func (r *AddonRepository) Create(_ context.Context, addon *domain.Addon) (*domain.Addon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	addon.ID = r.s.id()
	addon.CreatedAt = r.s.clock()
	addon.UpdatedAt = addon.CreatedAt
	r.s.addons[addon.ID] = *addon
	return addon, nil
}

func (r *AddonRepository) GetByID(_ context.Context, id int64) (*domain.Addon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	addon, ok := r.s.addons[id]
	if !ok {
		return nil, addonRepo.ErrAddonNotFound
	}
	return &addon, nil
}

func (r *AddonRepository) ListByType(_ context.Context, typeID int64) ([]domain.Addon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]domain.Addon, 0)
	for _, a := range r.s.addons {
		if a.BookingTypeID == typeID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *AddonRepository) Update(_ context.Context, addon *domain.Addon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.addons[addon.ID]; !ok {
		return addonRepo.ErrAddonNotFound
	}
	addon.UpdatedAt = r.s.clock()
	r.s.addons[addon.ID] = *addon
	return nil
}

// Delete как ON DELETE SET NULL: строки бронирований теряют ссылку, но сохраняют название и цену
func (r *AddonRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.addons[id]; !ok {
		return addonRepo.ErrAddonNotFound
	}
	delete(r.s.addons, id)
	for _, b := range r.s.bookings {
		for i := range b.Addons {
			if b.Addons[i].AddonID == id {
				b.Addons[i].AddonID = 0
			}
		}
	}
	return nil
}

// HolidayRepository праздники в памяти
type HolidayRepository struct{ s *Store }

func (r *HolidayRepository) Exists(_ context.Context, date time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.holidays[date.Format(domain.DateFormat)]
	return ok, nil
}

func (r *HolidayRepository) Insert(_ context.Context, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := date.Format(domain.DateFormat)
	if _, ok := r.s.holidays[key]; ok {
		return nil
	}
	r.s.holidays[key] = domain.Holiday{
		ID:        r.s.id(),
		Date:      domain.DateOnly(date),
		CreatedAt: r.s.clock(),
	}
	return nil
}

func (r *HolidayRepository) Delete(_ context.Context, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.holidays, date.Format(domain.DateFormat))
	return nil
}

func (r *HolidayRepository) ListPage(_ context.Context, page pagination.Page) ([]domain.Holiday, int64, error) {
	all := r.sorted(func(a, b string) bool { return a > b })

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

func (r *HolidayRepository) ListRange(_ context.Context, from, to time.Time) ([]domain.Holiday, error) {
	lo, hi := from.Format(domain.DateFormat), to.Format(domain.DateFormat)
	out := make([]domain.Holiday, 0)
	for _, h := range r.sorted(func(a, b string) bool { return a < b }) {
		day := h.Date.Format(domain.DateFormat)
		if day >= lo && day <= hi {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *HolidayRepository) ListAll(_ context.Context) ([]domain.Holiday, error) {
	return r.sorted(func(a, b string) bool { return a < b }), nil
}

func (r *HolidayRepository) sorted(less func(a, b string) bool) []domain.Holiday {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	keys := make([]string, 0, len(r.s.holidays))
	for k := range r.s.holidays {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })

	out := make([]domain.Holiday, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.s.holidays[k])
	}
	return out
}
