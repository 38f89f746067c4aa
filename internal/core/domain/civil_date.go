package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// CivilDate — календарная дата без времени и таймзоны.
// Все сравнения дат в сервисе ведутся через этот тип.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

func CivilDateOf(t time.Time) CivilDate {
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func ParseCivilDate(str string) (CivilDate, error) {
	parsed, err := time.Parse("2006-01-02", str)
	if err != nil {
		return CivilDate{}, fmt.Errorf("failed to parse civil date: %v", err)
	}
	return CivilDateOf(parsed), nil
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d CivilDate) YearMonth() string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

// At возвращает полночь этой даты в указанной таймзоне.
func (d CivilDate) At(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d CivilDate) AddDays(days int) CivilDate {
	return CivilDateOf(d.At(time.UTC).AddDate(0, 0, days))
}

func (d CivilDate) Equal(other CivilDate) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

func (d CivilDate) Before(other CivilDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d CivilDate) After(other CivilDate) bool {
	return !d.Equal(other) && !d.Before(other)
}

// ISOWeekday возвращает день недели, где понедельник = 1, воскресенье = 7.
func (d CivilDate) ISOWeekday() int {
	weekday := int(d.At(time.UTC).Weekday())
	if weekday == 0 {
		return 7
	}
	return weekday
}

// WeekStart — понедельник недели, в которую входит дата.
func (d CivilDate) WeekStart() CivilDate {
	return d.AddDays(-(d.ISOWeekday() - 1))
}

// WeekEnd — воскресенье той же недели.
func (d CivilDate) WeekEnd() CivilDate {
	return d.WeekStart().AddDays(6)
}

func (d CivilDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *CivilDate) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	parsed, err := ParseCivilDate(str)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}
