package clock

import (
	"time"

	"github.com/yorutomo/booking-schedule-core/internal/config"
)

// SystemClock отдает время в гражданской таймзоне сервиса,
// какой бы ни была таймзона хоста.
type SystemClock struct {
	location *time.Location
}

func NewSystemClock(timezone string) (*SystemClock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = config.TimeZone
	}

	return &SystemClock{location: loc}, nil
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.location)
}

func (c *SystemClock) Location() *time.Location {
	return c.location
}
