package services

import (
	"context"
	"fmt"

	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
	"github.com/yorutomo/booking-schedule-core/internal/core/ports/out"
)

// ComputeDaySlots размечает каталог слотов для конкретной даты и услуги.
func (s *SchedulingService) ComputeDaySlots(ctx context.Context, profileID string, date domain.CivilDate, serviceType domain.ServiceType) ([]domain.Slot, error) {
	snapshot, err := s.bookingPort.GetAvailableTimes(ctx, profileID, date)
	if err != nil {
		s.logger.Error("slots.compute.snapshot_failed", out.LogFields{
			"profileId": profileID,
			"date":      date.String(),
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("slots.compute.snapshot_failed: %w", err)
	}

	slots := s.labelSlots(date, serviceType, snapshot.NormalizedBooked())

	s.logger.Debug("slots.compute.done", out.LogFields{
		"profileId":   profileID,
		"date":        date.String(),
		"serviceType": string(serviceType),
	})

	return slots, nil
}

// labelSlots проходит каталог по порядку и присваивает каждому слоту статус.
// Порядок правил фиксирован: прошедший → занятый → затененный длительностью.
func (s *SchedulingService) labelSlots(date domain.CivilDate, serviceType domain.ServiceType, booked map[string]struct{}) []domain.Slot {
	now := s.clock.Now()
	duration := domain.ServiceDuration(serviceType)

	slots := make([]domain.Slot, 0, len(domain.SlotCatalog))
	for i, slotTime := range domain.SlotCatalog {
		status := domain.SlotStatusAvailable

		_, isBooked := booked[slotTime]

		switch {
		case domain.IsPastSlot(now, date, slotTime):
			status = domain.SlotStatusPast
		case isBooked:
			status = domain.SlotStatusBooked
		case isShadowed(i, duration, booked):
			// Слот сам не занят, но услуга, начатая здесь,
			// перекрыла бы более позднее бронирование
			status = domain.SlotStatusBlocked
		}

		slots = append(slots, domain.Slot{Time: slotTime, Status: status})
	}

	return slots
}

// isShadowed проверяет тень многослотовой услуги: занят ли хоть один из
// duration последовательных слотов начиная с start, либо вылезает ли услуга
// за хвост каталога (окно продолжения 00:00–02:00).
func isShadowed(start, duration int, booked map[string]struct{}) bool {
	if duration <= 1 {
		return false
	}

	if start+duration > len(domain.SlotCatalog) {
		return true
	}

	for offset := 1; offset < duration; offset++ {
		if _, exists := booked[domain.SlotCatalog[start+offset]]; exists {
			return true
		}
	}

	return false
}
