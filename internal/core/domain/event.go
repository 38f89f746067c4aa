package domain

import "github.com/google/uuid"

// BookingCreatedEvent — единственное событие шины реконсиляции.
// По нему открытые календари инвалидируют кэш затронутого месяца
// и перечитывают занятость.
type BookingCreatedEvent struct {
	BookingID  uuid.UUID `json:"bookingId"`
	ProfileID  string    `json:"profileId"`
	ProviderID string    `json:"providerId,omitempty"`
	Date       CivilDate `json:"date"`
	Time       string    `json:"time"`
}
