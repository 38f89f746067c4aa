package out

import (
	"context"

	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
)

// AvailabilityCachePort — кэш фактов занятости по месяцам.
// Ключ — пара (анкета, год-месяц), значение — карта "дата → полностью занят".
type AvailabilityCachePort interface {
	GetMonth(ctx context.Context, profileID string, yearMonth string) (map[domain.CivilDate]bool, bool)
	StoreMonth(ctx context.Context, profileID string, yearMonth string, facts map[domain.CivilDate]bool)
	InvalidateMonth(ctx context.Context, profileID string, yearMonth string)
}
