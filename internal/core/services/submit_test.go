package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
)

type recordingBus struct {
	mu        sync.Mutex
	published []domain.BookingCreatedEvent
}

func (b *recordingBus) PublishBookingCreated(event domain.BookingCreatedEvent) {
	b.mu.Lock()
	b.published = append(b.published, event)
	b.mu.Unlock()
}

// Обработчики не вызываются: шина здесь только записывает публикации
func (b *recordingBus) SubscribeBookingCreated(func(domain.BookingCreatedEvent)) func() {
	return func() {}
}

func validDraft() *domain.BookingDraft {
	draft := domain.NewBookingDraft("profile-1", "provider-1")
	draft.ServiceType = domain.ServiceTypeOneShot
	draft.Date = &domain.CivilDate{Year: 2025, Month: time.June, Day: 11}
	draft.Time = "13:00"
	return draft
}

func TestSubmitRequiresAuthentication(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, testZone)
	fixture := newFixture(now, nil)

	// Токен проверяется раньше всего остального, даже пустого черновика
	draft := domain.NewBookingDraft("profile-1", "provider-1")
	if _, err := fixture.service.Submit(context.Background(), "", draft); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if fixture.booking.createdCount() != 0 {
		t.Fatalf("no booking must be created on a failed check")
	}
}

func TestSubmitRequiresDateTimeAndService(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, testZone)
	fixture := newFixture(now, nil)

	draft := domain.NewBookingDraft("profile-1", "provider-1")
	if _, err := fixture.service.Submit(context.Background(), "token", draft); !errors.Is(err, domain.ErrDateTimeNotChosen) {
		t.Fatalf("expected ErrDateTimeNotChosen, got %v", err)
	}

	draft = validDraft()
	draft.ServiceType = ""
	if _, err := fixture.service.Submit(context.Background(), "token", draft); !errors.Is(err, domain.ErrServiceTypeNotChosen) {
		t.Fatalf("expected ErrServiceTypeNotChosen, got %v", err)
	}
}

func TestSubmitRequiresVerifiedEmail(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, testZone)
	fixture := newFixture(now, nil)
	fixture.auth.user = &domain.User{ID: "user-9", EmailVerified: false}

	if _, err := fixture.service.Submit(context.Background(), "token", validDraft()); !errors.Is(err, domain.ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}
	if fixture.booking.createdCount() != 0 {
		t.Fatalf("no booking must be created for an unverified email")
	}
}

func TestSubmitRejectsExhaustedDailyQuota(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, testZone)
	fixture := newFixture(now, nil)

	fixture.booking.bookings = []domain.Booking{
		quotaBooking(11, domain.BookingStatusPending, "provider-1"),
		quotaBooking(11, domain.BookingStatusAccepted, "provider-1"),
	}

	_, err := fixture.service.Submit(context.Background(), "token", validDraft())

	var quotaErr *domain.QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if fixture.booking.createdCount() != 0 {
		t.Fatalf("no booking must be created over quota")
	}
}

func TestSubmitSkipsQuotaForEditorialProfiles(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, testZone)
	fixture := newFixture(now, nil)

	// Редакционная анкета: владельца-провайдера нет, квоты не применяются
	fixture.booking.profile.OwnerUserID = ""
	fixture.booking.bookings = []domain.Booking{
		quotaBooking(11, domain.BookingStatusPending, "provider-1"),
		quotaBooking(11, domain.BookingStatusAccepted, "provider-1"),
	}
	fixture.booking.snapshots["2025-06-11"] = &domain.DayBookingSnapshot{AvailableTimes: []string{"13:00"}}

	if _, err := fixture.service.Submit(context.Background(), "token", validDraft()); err != nil {
		t.Fatalf("editorial profile must bypass quota, got %v", err)
	}
}

func TestSubmitRejectsPastSlot(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, testZone)
	fixture := newFixture(now, nil)

	today := domain.CivilDateOf(now)
	draft := validDraft()
	draft.Date = &today
	draft.Time = "09:00"

	if _, err := fixture.service.Submit(context.Background(), "token", draft); !errors.Is(err, domain.ErrSlotInPast) {
		t.Fatalf("expected ErrSlotInPast, got %v", err)
	}
}

func TestSubmitRejectsStaleBookedSlot(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, testZone)
	fixture := newFixture(now, nil)

	// Свежий снимок занятости важнее того, что видел пользователь на экране
	fixture.booking.snapshots["2025-06-11"] = &domain.DayBookingSnapshot{BookedTimes: []string{"13:00:00"}}

	if _, err := fixture.service.Submit(context.Background(), "token", validDraft()); !errors.Is(err, domain.ErrSlotAlreadyBooked) {
		t.Fatalf("expected ErrSlotAlreadyBooked, got %v", err)
	}
}

func TestSubmitRejectsShadowedSlot(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, testZone)
	fixture := newFixture(now, nil)

	fixture.booking.snapshots["2025-06-11"] = &domain.DayBookingSnapshot{
		AvailableTimes: []string{"13:00"},
		BookedTimes:    []string{"14:00"},
	}

	draft := validDraft()
	draft.ServiceType = domain.ServiceTypeTwoShot

	if _, err := fixture.service.Submit(context.Background(), "token", draft); !errors.Is(err, domain.ErrSlotBlocked) {
		t.Fatalf("expected ErrSlotBlocked, got %v", err)
	}
}

func TestSubmitRejectsUnknownSlot(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, testZone)
	fixture := newFixture(now, nil)

	draft := validDraft()
	draft.Time = "08:00"

	if _, err := fixture.service.Submit(context.Background(), "token", draft); !errors.Is(err, domain.ErrSlotUnknown) {
		t.Fatalf("expected ErrSlotUnknown, got %v", err)
	}
}

func TestSubmitUpstreamErrorReturnedVerbatim(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, testZone)
	fixture := newFixture(now, nil)

	fixture.booking.createErr = errors.New("boom")
	fixture.booking.snapshots["2025-06-11"] = &domain.DayBookingSnapshot{AvailableTimes: []string{"13:00"}}

	_, err := fixture.service.Submit(context.Background(), "token", validDraft())
	if err == nil || err.Error() != "boom" {
		t.Fatalf("upstream error must be returned as is, got %v", err)
	}
}

func TestSubmissionFlowHappyPath(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, testZone)
	busPort := &recordingBus{}
	fixture := newFixture(now, busPort)
	defer fixture.service.Close()

	fixture.booking.snapshots["2025-06-11"] = &domain.DayBookingSnapshot{AvailableTimes: []string{"13:00"}}

	flow := fixture.service.NewSubmissionFlow("profile-1", "provider-1")
	if flow.State() != SubmissionStateIdle {
		t.Fatalf("new flow must start idle, got %s", flow.State())
	}

	draft := flow.Draft()
	draft.ServiceType = domain.ServiceTypeOneShot
	draft.Date = &domain.CivilDate{Year: 2025, Month: time.June, Day: 11}
	draft.Time = "13:00:00"

	booking, err := flow.Submit(context.Background(), "token")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if booking == nil || booking.ID != fixture.booking.createdBooking.ID {
		t.Fatalf("expected the upstream booking back, got %+v", booking)
	}
	if flow.State() != SubmissionStateSucceeded {
		t.Fatalf("expected succeeded state, got %s", flow.State())
	}

	// Время брони нормализовано до часов и минут
	if len(fixture.booking.created) != 1 || fixture.booking.created[0].BookingTime != "13:00" {
		t.Fatalf("unexpected create request: %+v", fixture.booking.created)
	}

	// Старый черновик уничтожен, на его месте пустой
	if fresh := flow.Draft(); fresh.Time != "" || fresh.Date != nil || fresh.ProfileID != "profile-1" {
		t.Fatalf("expected a fresh draft after success, got %+v", fresh)
	}

	if len(busPort.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(busPort.published))
	}
	event := busPort.published[0]
	if event.ProfileID != "profile-1" || event.Time != "13:00" || event.Date.String() != "2025-06-11" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestSubmissionFlowFailureKeepsDraft(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, testZone)
	fixture := newFixture(now, nil)

	fixture.booking.createErr = errors.New("boom")
	fixture.booking.snapshots["2025-06-11"] = &domain.DayBookingSnapshot{AvailableTimes: []string{"13:00"}}

	flow := fixture.service.NewSubmissionFlow("profile-1", "provider-1")
	draft := flow.Draft()
	draft.ServiceType = domain.ServiceTypeOneShot
	draft.Date = &domain.CivilDate{Year: 2025, Month: time.June, Day: 11}
	draft.Time = "13:00"

	if _, err := flow.Submit(context.Background(), "token"); err == nil {
		t.Fatalf("expected upstream failure")
	}
	if flow.State() != SubmissionStateFailed {
		t.Fatalf("expected failed state, got %s", flow.State())
	}

	// Черновик не тронут: человек правит его и отправляет заново
	if kept := flow.Draft(); kept.Time != "13:00" {
		t.Fatalf("draft must survive a failed submit, got %+v", kept)
	}
}
