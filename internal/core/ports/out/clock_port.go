package out

import "time"

// ClockPort — источник "сейчас" в фиксированной гражданской таймзоне.
// Таймзона исполнения на "сейчас" не влияет.
type ClockPort interface {
	Now() time.Time
	Location() *time.Location
}
