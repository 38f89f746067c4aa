package services

import (
	"context"
	"sync"
	"time"

	"github.com/yorutomo/booking-schedule-core/internal/config"
	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
	"github.com/yorutomo/booking-schedule-core/internal/core/ports/out"
)

type SchedulingService struct {
	bookingPort out.BookingPort
	authPort    out.AuthPort
	cachePort   out.AvailabilityCachePort
	busPort     out.EventBusPort
	clock       out.ClockPort
	logger      out.LoggerPort
	cfg         *config.Config

	// Флаги идущих загрузок месяца, по одному на ключ кэша
	mu       sync.Mutex
	inFlight map[string]struct{}

	unsubscribe func()
}

func NewSchedulingService(
	bookingPort out.BookingPort,
	authPort out.AuthPort,
	cachePort out.AvailabilityCachePort,
	busPort out.EventBusPort,
	clock out.ClockPort,
	cfg *config.Config,
	logger out.LoggerPort,
) *SchedulingService {
	s := &SchedulingService{
		bookingPort: bookingPort,
		authPort:    authPort,
		cachePort:   cachePort,
		busPort:     busPort,
		clock:       clock,
		cfg:         cfg,
		logger:      logger.WithModule("SchedulingService"),
		inFlight:    make(map[string]struct{}),
	}

	if busPort != nil {
		s.unsubscribe = busPort.SubscribeBookingCreated(s.onBookingCreated)
	}

	return s
}

// Close отписывает сервис от шины реконсиляции.
func (s *SchedulingService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Today — сегодняшняя календарная дата в гражданской таймзоне сервиса.
func (s *SchedulingService) Today() domain.CivilDate {
	return domain.CivilDateOf(s.clock.Now())
}

// sleepCtx спит с уважением к отмене контекста.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
