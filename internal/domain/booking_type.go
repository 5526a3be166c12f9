package domain

import (
	"time"

	"github.com/m04kA/SMC-HubBookingService/pkg/types"
)

// Category категория бронирования
type Category string

const (
	CategoryHall           Category = "hall"
	CategoryStaircase      Category = "staircase"
	CategoryIndividualTour Category = "individual_tour"
	CategoryEventTour      Category = "event_tour"
)

// Valid проверяет, что категория известна
func (c Category) Valid() bool {
	switch c {
	case CategoryHall, CategoryStaircase, CategoryIndividualTour, CategoryEventTour:
		return true
	}
	return false
}

// UsesSlots зал и лестница бронируются слотами
func (c Category) UsesSlots() bool {
	return c == CategoryHall || c == CategoryStaircase
}

// IsTour индивидуальный или групповой тур
func (c Category) IsTour() bool {
	return c == CategoryIndividualTour || c == CategoryEventTour
}

// BookingWindowMode ограничение горизонта бронирования
type BookingWindowMode string

const (
	BookingWindowNone  BookingWindowMode = "none"
	BookingWindowLimit BookingWindowMode = "limit"
)

// BookingType тип бронирования с настройками своей категории
type BookingType struct {
	ID          int64
	Name        string
	Slug        string
	Category    Category
	WeekendDays []int // 0 = воскресенье ... 6 = суббота
	IsHidden    bool
	Config      CategoryConfig

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryConfig настройки, специфичные для категории
// Реализации: HallConfig, StaircaseConfig, IndividualTourConfig, EventTourConfig
type CategoryConfig interface {
	Category() Category
}

// HallConfig зал: цены и время задают слоты
type HallConfig struct{}

// StaircaseConfig лестница: как зал, но без доп. услуг
type StaircaseConfig struct{}

// IndividualTourConfig индивидуальные билеты с дневным лимитом
type IndividualTourConfig struct {
	TourStart         types.TimeString
	TourEnd           types.TimeString
	MaxDailyCapacity  int
	TicketPrice       float64
	WindowMode        BookingWindowMode
	WindowDays        int
	ExclusiveWithType *int64 // групповой тур, с которым делятся даты
}

// EventTourConfig групповые туры кластерами
type EventTourConfig struct {
	TourStart         types.TimeString
	TourEnd           types.TimeString
	MaxClusters       int
	MembersPerCluster int
	PricePerCluster   float64 // за час одного кластера
	ExclusiveWithType *int64  // индивидуальный тур, с которым делятся даты
}

func (HallConfig) Category() Category           { return CategoryHall }
func (StaircaseConfig) Category() Category      { return CategoryStaircase }
func (IndividualTourConfig) Category() Category { return CategoryIndividualTour }
func (EventTourConfig) Category() Category      { return CategoryEventTour }

// MaxHoursPerCluster ceil((end-start)/60), не меньше 1
func (c EventTourConfig) MaxHoursPerCluster() int {
	start, errStart := c.TourStart.Minutes()
	end, errEnd := c.TourEnd.Minutes()
	if errStart != nil || errEnd != nil || end <= start {
		return MinClusterHours
	}
	hours := (end - start + MinutesPerClusterHour - 1) / MinutesPerClusterHour
	if hours < MinClusterHours {
		return MinClusterHours
	}
	return hours
}

// IsWeekend день недели входит в выходные типа
func (t *BookingType) IsWeekend(date time.Time) bool {
	wd := int(date.Weekday())
	for _, d := range t.WeekendDays {
		if d == wd {
			return true
		}
	}
	return false
}

// IndividualTour настройки индивидуального тура, если это он
func (t *BookingType) IndividualTour() (IndividualTourConfig, bool) {
	c, ok := t.Config.(IndividualTourConfig)
	return c, ok
}

// EventTour настройки группового тура, если это он
func (t *BookingType) EventTour() (EventTourConfig, bool) {
	c, ok := t.Config.(EventTourConfig)
	return c, ok
}

// ExclusivePartner тип другой туровой категории, с которым даты взаимно исключают друг друга
func (t *BookingType) ExclusivePartner() *int64 {
	if c, ok := t.IndividualTour(); ok {
		return c.ExclusiveWithType
	}
	if c, ok := t.EventTour(); ok {
		return c.ExclusiveWithType
	}
	return nil
}

// TourWindow начало и конец тура для туровых категорий
func (t *BookingType) TourWindow() (start, end types.TimeString, ok bool) {
	if c, ok := t.IndividualTour(); ok {
		return c.TourStart, c.TourEnd, true
	}
	if c, ok := t.EventTour(); ok {
		return c.TourStart, c.TourEnd, true
	}
	return "", "", false
}

// LockKey ключ блокировки (ресурс, дата) для приёма бронирований
// Туры с общей исключительностью блокируются одним ключом, чтобы проверка партнёра была атомарной
func (t *BookingType) LockKey() int64 {
	partner := t.ExclusivePartner()
	if partner != nil && *partner < t.ID {
		return *partner
	}
	return t.ID
}

// BookingTypeSettings частичное обновление настроек типа
// nil означает "не менять"
type BookingTypeSettings struct {
	Name              *string
	WeekendDays       *[]int
	IsHidden          *bool
	TourStart         *types.TimeString
	TourEnd           *types.TimeString
	MaxDailyCapacity  *int
	TicketPrice       *float64
	WindowMode        *BookingWindowMode
	WindowDays        *int
	MaxClusters       *int
	MembersPerCluster *int
	PricePerCluster   *float64
	ExclusiveWithType *int64
}
