package services

import (
	"context"

	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
	"github.com/yorutomo/booking-schedule-core/internal/core/ports/out"
)

// onBookingCreated — обработчик события "бронь создана" с шины реконсиляции.
// Кэш затронутого месяца инвалидируется сразу, а перечитывание откладывается:
// внешнему сервису нужно время, чтобы закоммитить только что подтвержденную запись.
func (s *SchedulingService) onBookingCreated(event domain.BookingCreatedEvent) {
	if s.cachePort == nil || !s.cfg.Cache.Enabled {
		return
	}

	yearMonth := event.Date.YearMonth()
	s.cachePort.InvalidateMonth(context.Background(), event.ProfileID, yearMonth)

	s.logger.Info("reconcile.cache.invalidated", out.LogFields{
		"profileId": event.ProfileID,
		"yearMonth": yearMonth,
	})

	go s.refetchAfterSettle(event.ProfileID, event.Date)
}

func (s *SchedulingService) refetchAfterSettle(profileID string, date domain.CivilDate) {
	ctx := context.Background()

	if err := sleepCtx(ctx, s.cfg.Scheduler.SettleDelay); err != nil {
		return
	}

	if _, err := s.GetFullyBookedDates(ctx, profileID, date.Year, date.Month); err != nil {
		s.logger.Warn("reconcile.refetch.failed", out.LogFields{
			"profileId": profileID,
			"yearMonth": date.YearMonth(),
			"error":     err.Error(),
		})
	}
}
