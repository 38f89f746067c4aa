package domain

import (
	"github.com/google/uuid"
	"github.com/yorutomo/booking-schedule-core/internal/core/json_types"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusRejected  BookingStatus = "rejected"
)

// CountsTowardQuota — учитывается ли бронь в дневной и недельной квоте.
func (s BookingStatus) CountsTowardQuota() bool {
	return s == BookingStatusPending || s == BookingStatusAccepted || s == BookingStatusCompleted
}

type Booking struct {
	ID          uuid.UUID       `json:"id"`
	ProfileID   string          `json:"profileId"`
	ProviderID  string          `json:"providerId,omitempty"`
	ServiceType ServiceType     `json:"serviceType,omitempty"`
	BookingDate json_types.Date `json:"bookingDate"`
	BookingTime string          `json:"bookingTime"`
	Status      BookingStatus   `json:"status"`
}

type CreateBookingRequest struct {
	ProfileID   string          `json:"profileId"`
	ServiceType ServiceType     `json:"serviceType,omitempty"`
	BookingDate json_types.Date `json:"bookingDate"`
	BookingTime string          `json:"bookingTime"`
	Location    string          `json:"location,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// DayBookingSnapshot — результат запроса занятости одной даты.
// Живет только внутри одного вычисления, никуда не сохраняется.
type DayBookingSnapshot struct {
	AvailableTimes []string `json:"availableTimes"`
	BookedTimes    []string `json:"bookedTimes"`
}

// FullyBooked — день считается полностью занятым, когда свободных
// слотов нет, а занятые есть.
func (s *DayBookingSnapshot) FullyBooked() bool {
	return len(s.AvailableTimes) == 0 && len(s.BookedTimes) > 0
}

// NormalizedBooked возвращает занятые слоты в нормализованной форме hour:minute.
func (s *DayBookingSnapshot) NormalizedBooked() map[string]struct{} {
	booked := make(map[string]struct{}, len(s.BookedTimes))
	for _, t := range s.BookedTimes {
		booked[NormalizeSlot(t)] = struct{}{}
	}
	return booked
}

// BookingDraft — текущий выбор пользователя до отправки.
// После успешной отправки черновик уничтожается и заменяется пустым.
type BookingDraft struct {
	ProfileID   string
	ProviderID  string
	ServiceType ServiceType
	Date        *CivilDate
	Time        string
	Location    string
	Notes       string
}

func NewBookingDraft(profileID, providerID string) *BookingDraft {
	return &BookingDraft{
		ProfileID:  profileID,
		ProviderID: providerID,
	}
}

// QuotaWindow — счетчики бронирований клиента вокруг целевой даты.
// Неделя всегда считается с понедельника.
type QuotaWindow struct {
	Date        CivilDate
	WeekStart   CivilDate
	WeekEnd     CivilDate
	DailyCount  int
	WeeklyCount int
}
