package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited — апстрим ответил 429, запрос нужно притормозить.
	ErrRateLimited = errors.New("booking service rate limited")

	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrDateTimeNotChosen    = errors.New("booking date and time must be chosen")
	ErrServiceTypeNotChosen = errors.New("service type must be chosen")
	ErrEmailNotVerified     = errors.New("email verification required: please confirm your email address before booking")
	ErrSlotInPast           = errors.New("selected time slot is already in the past")
	ErrSlotAlreadyBooked    = errors.New("selected time slot is already booked")
	ErrSlotBlocked          = errors.New("selected time slot is blocked by a subsequent booking")
	ErrSlotUnknown          = errors.New("selected time slot is not in the service day")
)

// QuotaExceededError — превышение дневной или недельной квоты бронирований.
// В сообщении всегда фигурирует конкретная дата или диапазон недели.
type QuotaExceededError struct {
	Window QuotaWindow
	Weekly bool
}

func (e *QuotaExceededError) Error() string {
	if e.Weekly {
		return fmt.Sprintf("weekly booking quota reached for week %s..%s", e.Window.WeekStart, e.Window.WeekEnd)
	}
	return fmt.Sprintf("daily booking quota reached for %s", e.Window.Date)
}

// IsValidationError — ошибки, которые отдаются пользователю как проверочные,
// до какой-либо внешней записи.
func IsValidationError(err error) bool {
	var quotaErr *QuotaExceededError
	if errors.As(err, &quotaErr) {
		return true
	}

	for _, validation := range []error{
		ErrDateTimeNotChosen,
		ErrServiceTypeNotChosen,
		ErrEmailNotVerified,
		ErrSlotInPast,
		ErrSlotAlreadyBooked,
		ErrSlotBlocked,
		ErrSlotUnknown,
	} {
		if errors.Is(err, validation) {
			return true
		}
	}
	return false
}
