package bus

import (
	"sync"

	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
	"github.com/yorutomo/booking-schedule-core/internal/core/ports/out"
)

// MemoryBus — внутрипроцессная шина событий "бронь создана".
// Связывает открытые календари одного процесса; сессии разных
// пользователей сходятся к общей истине через Booking Service, а не через шину.
type MemoryBus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]func(domain.BookingCreatedEvent)
	logger      out.LoggerPort
}

func NewMemoryBus(logger out.LoggerPort) *MemoryBus {
	return &MemoryBus{
		subscribers: make(map[int]func(domain.BookingCreatedEvent)),
		logger:      logger.WithModule("MemoryBus"),
	}
}

// PublishBookingCreated доставляет событие всем текущим подписчикам.
// Доставка синхронная: подписчик сам решает, что откладывать.
func (b *MemoryBus) PublishBookingCreated(event domain.BookingCreatedEvent) {
	b.mu.RLock()
	handlers := make([]func(domain.BookingCreatedEvent), 0, len(b.subscribers))
	for _, handler := range b.subscribers {
		handlers = append(handlers, handler)
	}
	b.mu.RUnlock()

	b.logger.Info("bus.booking_created.published", out.LogFields{
		"bookingId":   event.BookingID,
		"profileId":   event.ProfileID,
		"date":        event.Date.String(),
		"subscribers": len(handlers),
	})

	for _, handler := range handlers {
		handler(event)
	}
}

func (b *MemoryBus) SubscribeBookingCreated(handler func(domain.BookingCreatedEvent)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
	}
}
