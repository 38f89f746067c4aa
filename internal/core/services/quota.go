package services

import (
	"context"
	"fmt"

	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
)

// EvaluateQuota считает дневной и недельный счетчики клиента вокруг целевой даты.
// Учитываются только активные статусы и только брони по анкетам маркетплейса.
// Неделя всегда начинается с понедельника.
func (s *SchedulingService) EvaluateQuota(ctx context.Context, token string, targetDate domain.CivilDate) (*domain.QuotaWindow, error) {
	bookings, err := s.bookingPort.GetMyBookings(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("quota.evaluate.bookings_fetch_failed: %w", err)
	}

	window := &domain.QuotaWindow{
		Date:      targetDate,
		WeekStart: targetDate.WeekStart(),
		WeekEnd:   targetDate.WeekEnd(),
	}

	for _, booking := range bookings {
		if !booking.Status.CountsTowardQuota() {
			continue
		}
		// Брони по редакционным анкетам в квоте не участвуют
		if booking.ProviderID == "" {
			continue
		}

		date := domain.CivilDateOf(booking.BookingDate.Date)
		if date.Equal(targetDate) {
			window.DailyCount++
		}
		if !date.Before(window.WeekStart) && !date.After(window.WeekEnd) {
			window.WeeklyCount++
		}
	}

	return window, nil
}

// checkQuota отклоняет окно, уже упершееся в дневной или недельный потолок.
func (s *SchedulingService) checkQuota(window *domain.QuotaWindow) error {
	if window.DailyCount >= s.cfg.Scheduler.DailyQuota {
		return &domain.QuotaExceededError{Window: *window}
	}
	if window.WeeklyCount >= s.cfg.Scheduler.WeeklyQuota {
		return &domain.QuotaExceededError{Window: *window, Weekly: true}
	}
	return nil
}
