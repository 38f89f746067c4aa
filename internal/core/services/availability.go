package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
	"github.com/yorutomo/booking-schedule-core/internal/core/ports/out"
)

func availabilityKey(profileID, yearMonth string) string {
	return profileID + "/" + yearMonth
}

// GetFullyBookedDates возвращает полностью занятые даты показываемого месяца.
// Свежая запись кэша отдается сразу, без единого запроса к апстриму.
// Запрос, пришедший во время идущей загрузки того же месяца, отбрасывается,
// а не ставится в очередь: вызывающий получает оптимистичный пустой список.
func (s *SchedulingService) GetFullyBookedDates(ctx context.Context, profileID string, year int, month time.Month) ([]domain.CivilDate, error) {
	yearMonth := fmt.Sprintf("%04d-%02d", year, int(month))

	if s.cachePort != nil && s.cfg.Cache.Enabled {
		if facts, exists := s.cachePort.GetMonth(ctx, profileID, yearMonth); exists {
			s.logger.Debug("availability.cache.hit", out.LogFields{
				"profileId": profileID,
				"yearMonth": yearMonth,
			})
			return fullyBookedList(facts), nil
		}
	}

	key := availabilityKey(profileID, yearMonth)
	s.mu.Lock()
	if _, running := s.inFlight[key]; running {
		s.mu.Unlock()
		s.logger.Debug("availability.fetch.dropped", out.LogFields{
			"profileId": profileID,
			"yearMonth": yearMonth,
		})
		return []domain.CivilDate{}, nil
	}
	s.inFlight[key] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, key)
		s.mu.Unlock()
	}()

	s.logger.Info("availability.fetch.started", out.LogFields{
		"profileId": profileID,
		"yearMonth": yearMonth,
	})

	facts, err := s.fetchMonthAvailability(ctx, profileID, year, month)
	if err != nil {
		s.logger.Error("availability.fetch.failed", out.LogFields{
			"profileId": profileID,
			"yearMonth": yearMonth,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("availability.fetch.failed: %w", err)
	}

	if s.cachePort != nil && s.cfg.Cache.Enabled {
		s.cachePort.StoreMonth(ctx, profileID, yearMonth, facts)
	}

	return fullyBookedList(facts), nil
}

// fetchMonthAvailability опрашивает занятость по дням, строго последовательно
// и по возрастанию дат. Окно опроса — пересечение месяца с горизонтом
// сегодня..сегодня+14: далекое будущее почти всегда свободно, и тратить
// на него квоту апстримного лимитера незачем.
func (s *SchedulingService) fetchMonthAvailability(ctx context.Context, profileID string, year int, month time.Month) (map[domain.CivilDate]bool, error) {
	facts := make(map[domain.CivilDate]bool)

	today := s.Today()
	horizon := today.AddDays(s.cfg.Scheduler.PrefetchHorizonDays)

	monthStart := domain.CivilDate{Year: year, Month: month, Day: 1}
	monthEnd := domain.CivilDateOf(monthStart.At(time.UTC).AddDate(0, 1, -1))

	start := monthStart
	if today.After(start) {
		start = today
	}
	end := monthEnd
	if horizon.Before(end) {
		end = horizon
	}

	if end.Before(start) {
		return facts, nil
	}

	// Пауза между запросами, чтобы не разбудить апстримный лимитер
	limiter := rate.NewLimiter(rate.Every(s.cfg.Scheduler.ThrottleInterval), 1)

	for date := start; !date.After(end); date = date.AddDays(1) {
		if err := limiter.Wait(ctx); err != nil {
			return facts, err
		}

		snapshot, err := s.bookingPort.GetAvailableTimes(ctx, profileID, date)
		if err != nil {
			if errors.Is(err, domain.ErrRateLimited) {
				s.logger.Warn("availability.fetch.rate_limited", out.LogFields{
					"profileId": profileID,
					"date":      date.String(),
				})
				// Откатываемся и продолжаем со следующей даты, этот день пропускаем
				if backoffErr := sleepCtx(ctx, s.cfg.Scheduler.RateLimitBackoff); backoffErr != nil {
					return facts, backoffErr
				}
				continue
			}

			// Прочие ошибки одного дня не фатальны: день считается не занятым
			s.logger.Debug("availability.fetch.probe_failed", out.LogFields{
				"profileId": profileID,
				"date":      date.String(),
				"error":     err.Error(),
			})
			continue
		}

		facts[date] = snapshot.FullyBooked()
	}

	return facts, nil
}

func fullyBookedList(facts map[domain.CivilDate]bool) []domain.CivilDate {
	dates := make([]domain.CivilDate, 0)
	for date, fullyBooked := range facts {
		if fullyBooked {
			dates = append(dates, date)
		}
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}
