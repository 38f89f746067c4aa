package out

import (
	"context"

	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
)

// AuthPort — контракт внешнего Auth Service.
// Флаг подтверждения почты всегда перечитывается отсюда,
// локальному состоянию сессии не доверяем.
type AuthPort interface {
	GetCurrentUser(ctx context.Context, token string) (*domain.User, error)
}
