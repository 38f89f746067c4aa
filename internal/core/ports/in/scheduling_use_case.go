package in

import (
	"context"
	"time"

	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
)

type SchedulingUseCase interface {
	// Полностью занятые даты показываемого месяца
	GetFullyBookedDates(ctx context.Context, profileID string, year int, month time.Month) ([]domain.CivilDate, error)

	// Размеченный каталог слотов для конкретной даты и выбранной услуги
	ComputeDaySlots(ctx context.Context, profileID string, date domain.CivilDate, serviceType domain.ServiceType) ([]domain.Slot, error)

	// Отправка брони: все проверки в фиксированном порядке, затем запись
	Submit(ctx context.Context, token string, draft *domain.BookingDraft) (*domain.Booking, error)
}
