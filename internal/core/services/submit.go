package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
	"github.com/yorutomo/booking-schedule-core/internal/core/json_types"
	"github.com/yorutomo/booking-schedule-core/internal/core/ports/out"
)

type SubmissionState string

const (
	SubmissionStateIdle       SubmissionState = "idle"
	SubmissionStateValidating SubmissionState = "validating"
	SubmissionStateSubmitting SubmissionState = "submitting"
	SubmissionStateSucceeded  SubmissionState = "succeeded"
	SubmissionStateFailed     SubmissionState = "failed"
)

// SubmissionFlow — процесс отправки одной брони.
// idle → validating → submitting → succeeded | failed.
// Автоматических ретраев нет: из failed процесс перезапускает человек.
type SubmissionFlow struct {
	service *SchedulingService

	mu    sync.Mutex
	state SubmissionState
	draft *domain.BookingDraft
}

func (s *SchedulingService) NewSubmissionFlow(profileID, providerID string) *SubmissionFlow {
	return &SubmissionFlow{
		service: s,
		state:   SubmissionStateIdle,
		draft:   domain.NewBookingDraft(profileID, providerID),
	}
}

// Submit — вход уровня use case: одноразовый процесс вокруг готового черновика.
func (s *SchedulingService) Submit(ctx context.Context, token string, draft *domain.BookingDraft) (*domain.Booking, error) {
	flow := &SubmissionFlow{
		service: s,
		state:   SubmissionStateIdle,
		draft:   draft,
	}
	return flow.Submit(ctx, token)
}

func (f *SubmissionFlow) State() SubmissionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *SubmissionFlow) Draft() *domain.BookingDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *SubmissionFlow) setState(state SubmissionState) {
	f.mu.Lock()
	f.state = state
	f.mu.Unlock()
}

// Submit прогоняет проверки в фиксированном порядке и создает бронь.
// Первая неудачная проверка завершает процесс; до внешней записи
// в этом случае дело не доходит.
func (f *SubmissionFlow) Submit(ctx context.Context, token string) (*domain.Booking, error) {
	f.setState(SubmissionStateValidating)

	s := f.service
	draft := f.Draft()

	// 1. Авторизация
	if token == "" {
		return f.fail(domain.ErrNotAuthenticated)
	}

	// 2. Дата и время выбраны
	if draft.Date == nil || draft.Time == "" {
		return f.fail(domain.ErrDateTimeNotChosen)
	}

	// 3. Тип услуги выбран
	if draft.ServiceType == "" {
		return f.fail(domain.ErrServiceTypeNotChosen)
	}

	// 4. Подтверждение почты перечитываем из Auth Service:
	// подтверждение могло пройти в соседней вкладке, а могло и не пройти
	user, err := s.authPort.GetCurrentUser(ctx, token)
	if err != nil {
		return f.fail(fmt.Errorf("submit.user.fetch_failed: %w", err))
	}
	if user == nil || !user.EmailVerified {
		return f.fail(domain.ErrEmailNotVerified)
	}

	// 5. Квоты, только для анкет маркетплейса
	profile, err := s.bookingPort.GetProfile(ctx, draft.ProfileID)
	if err != nil {
		return f.fail(fmt.Errorf("submit.profile.fetch_failed: %w", err))
	}
	if profile.ProviderSourced() {
		window, err := s.EvaluateQuota(ctx, token, *draft.Date)
		if err != nil {
			return f.fail(err)
		}
		if err := s.checkQuota(window); err != nil {
			return f.fail(err)
		}
	}

	// 6. Слот не в прошлом
	if domain.IsPastSlot(s.clock.Now(), *draft.Date, draft.Time) {
		return f.fail(domain.ErrSlotInPast)
	}

	// 7–8. Слот не занят и не затенен — по свежему снимку занятости
	snapshot, err := s.bookingPort.GetAvailableTimes(ctx, draft.ProfileID, *draft.Date)
	if err != nil {
		return f.fail(fmt.Errorf("submit.snapshot.fetch_failed: %w", err))
	}

	booked := snapshot.NormalizedBooked()
	slotTime := domain.NormalizeSlot(draft.Time)

	if _, exists := booked[slotTime]; exists {
		return f.fail(domain.ErrSlotAlreadyBooked)
	}

	index, known := domain.SlotIndex(slotTime)
	if !known {
		return f.fail(domain.ErrSlotUnknown)
	}
	if isShadowed(index, domain.ServiceDuration(draft.ServiceType), booked) {
		return f.fail(domain.ErrSlotBlocked)
	}

	f.setState(SubmissionStateSubmitting)

	// Верхняя граница на запись: зависший апстрим переводит процесс в failed,
	// а не оставляет его в submitting навсегда
	submitCtx := ctx
	if s.cfg.Scheduler.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, s.cfg.Scheduler.SubmitTimeout)
		defer cancel()
	}

	booking, err := s.bookingPort.CreateBooking(submitCtx, token, domain.CreateBookingRequest{
		ProfileID:   draft.ProfileID,
		ServiceType: draft.ServiceType,
		BookingDate: json_types.Date{Date: draft.Date.At(s.clock.Location())},
		BookingTime: slotTime,
		Location:    draft.Location,
		Notes:       draft.Notes,
	})
	if err != nil {
		// Ошибка апстрима отдается как есть, черновик остается редактируемым
		s.logger.Error("submit.create.failed", out.LogFields{
			"profileId": draft.ProfileID,
			"date":      draft.Date.String(),
			"time":      slotTime,
			"error":     err.Error(),
		})
		return f.fail(err)
	}

	if s.busPort != nil {
		s.busPort.PublishBookingCreated(domain.BookingCreatedEvent{
			BookingID:  booking.ID,
			ProfileID:  draft.ProfileID,
			ProviderID: draft.ProviderID,
			Date:       *draft.Date,
			Time:       slotTime,
		})
	}

	// Черновик уничтожается, на его месте — новый пустой
	f.mu.Lock()
	f.state = SubmissionStateSucceeded
	f.draft = domain.NewBookingDraft(draft.ProfileID, draft.ProviderID)
	f.mu.Unlock()

	s.logger.Info("submit.succeeded", out.LogFields{
		"bookingId": booking.ID,
		"profileId": draft.ProfileID,
		"date":      draft.Date.String(),
		"time":      slotTime,
	})

	return booking, nil
}

func (f *SubmissionFlow) fail(err error) (*domain.Booking, error) {
	f.setState(SubmissionStateFailed)
	return nil, err
}
