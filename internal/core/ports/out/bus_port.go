package out

import "github.com/yorutomo/booking-schedule-core/internal/core/domain"

// EventBusPort — внутрипроцессная шина событий "бронь создана".
// Это не сетевой протокол: шина связывает открытые календари одного
// процесса, а не сессии разных пользователей.
type EventBusPort interface {
	PublishBookingCreated(event domain.BookingCreatedEvent)

	// SubscribeBookingCreated возвращает функцию отписки
	SubscribeBookingCreated(handler func(domain.BookingCreatedEvent)) func()
}
