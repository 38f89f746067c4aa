package domain

import (
	"strconv"
	"time"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusPast      SlotStatus = "past"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusBlocked   SlotStatus = "blocked"
)

// SlotCatalog — фиксированный порядок слотов одного сервисного дня.
// День начинается в 09:00 и заканчивается в 02:00 следующих календарных суток,
// поэтому порядок позиционный, а не по числовому значению часа.
var SlotCatalog = []string{
	"09:00", "10:00", "11:00", "12:00", "13:00", "14:00",
	"15:00", "16:00", "17:00", "18:00", "19:00", "20:00",
	"21:00", "22:00", "23:00", "00:00", "01:00", "02:00",
}

// NormalizeSlot приводит слот к форме hour:minute.
// Часть данных апстрима приходит с хвостовыми секундами ("14:00:00").
func NormalizeSlot(slot string) string {
	if len(slot) > 5 {
		return slot[:5]
	}
	return slot
}

// SlotIndex возвращает позицию слота в каталоге.
func SlotIndex(slot string) (int, bool) {
	normalized := NormalizeSlot(slot)
	for i, s := range SlotCatalog {
		if s == normalized {
			return i, true
		}
	}
	return -1, false
}

// SlotMinuteOfDay возвращает минуту суток начала слота.
func SlotMinuteOfDay(slot string) (int, bool) {
	normalized := NormalizeSlot(slot)
	if len(normalized) != 5 || normalized[2] != ':' {
		return 0, false
	}

	hour, err := strconv.Atoi(normalized[:2])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(normalized[3:])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}

	return hour*60 + minute, true
}

// IsPastSlot проверяет, прошел ли слот для выбранной даты.
// Будущие даты не бывают прошедшими. Для сегодняшней даты слот считается
// прошедшим, как только его минута суток меньше или равна текущей:
// граница включительно, бронь в ту же минуту уже невозможна.
func IsPastSlot(now time.Time, date CivilDate, slot string) bool {
	if !date.Equal(CivilDateOf(now)) {
		return false
	}

	slotMinute, ok := SlotMinuteOfDay(slot)
	if !ok {
		return false
	}

	return slotMinute <= now.Hour()*60+now.Minute()
}

// Slot — один слот каталога с вычисленным статусом.
// Наружу всегда отдается весь размеченный каталог, а не отфильтрованный
// список: клиенту нужна причина недоступности, а не только факт.
type Slot struct {
	Time   string     `json:"time"`
	Status SlotStatus `json:"status"`
}
