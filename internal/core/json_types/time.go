package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// SlotTime — время слота в форме hour:minute.
// Часть внешних данных приходит с хвостовыми секундами ("14:00:00"),
// при разборе они отбрасываются.
type SlotTime struct {
	Time time.Time
}

func (t *SlotTime) UnmarshalJSON(data []byte) error {
	// Убираем кавычки вокруг строки
	str := string(data[1 : len(data)-1])

	parsedTime, err := time.Parse("15:04", str)
	if err != nil {
		parsedTime, err = time.Parse("15:04:05", str)
		if err != nil {
			return fmt.Errorf("failed to parse time: %v", err)
		}
	}

	*t = SlotTime{Time: parsedTime}
	return nil
}

func (t SlotTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format("15:04"))
}
