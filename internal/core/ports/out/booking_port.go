package out

import (
	"context"

	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
)

// BookingPort — контракт внешнего Booking Service.
// Он владеет всей долговременной правдой о бронях и квотах;
// здесь только клиентская сторона.
type BookingPort interface {
	GetProfile(ctx context.Context, profileID string) (*domain.Profile, error)

	// Занятость одной даты: списки свободных и занятых слотов
	GetAvailableTimes(ctx context.Context, profileID string, date domain.CivilDate) (*domain.DayBookingSnapshot, error)

	// Брони текущего клиента
	GetMyBookings(ctx context.Context, token string) ([]domain.Booking, error)

	CreateBooking(ctx context.Context, token string, req domain.CreateBookingRequest) (*domain.Booking, error)
}
