package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yorutomo/booking-schedule-core/internal/config"
	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
	"github.com/yorutomo/booking-schedule-core/internal/core/ports/out"
)

var testZone = time.FixedZone("UTC+8", 8*60*60)

type nopLogger struct{}

func (nopLogger) Debug(string, out.LogFields)               {}
func (nopLogger) Info(string, out.LogFields)                {}
func (nopLogger) Warn(string, out.LogFields)                {}
func (nopLogger) Error(string, out.LogFields)               {}
func (l nopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(string) out.LoggerPort        { return l }

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time           { return c.now }
func (c *stubClock) Location() *time.Location { return c.now.Location() }

type fakeBookingPort struct {
	mu sync.Mutex

	snapshots   map[string]*domain.DayBookingSnapshot
	snapshotErr map[string]error
	probes      []domain.CivilDate

	// Для проверки защиты от повторного запуска
	probeStarted chan struct{}
	probeBlock   chan struct{}

	profile    *domain.Profile
	profileErr error

	bookings    []domain.Booking
	bookingsErr error

	created        []domain.CreateBookingRequest
	createErr      error
	createdBooking *domain.Booking
}

func newFakeBookingPort() *fakeBookingPort {
	return &fakeBookingPort{
		snapshots:   make(map[string]*domain.DayBookingSnapshot),
		snapshotErr: make(map[string]error),
		profile: &domain.Profile{
			ID:          "profile-1",
			ProviderID:  "provider-1",
			OwnerUserID: "user-9",
			Services: []domain.ServiceOffering{
				{Type: domain.ServiceTypeOneShot, Price: 3000},
				{Type: domain.ServiceTypeTwoShot, Price: 5500},
			},
		},
		createdBooking: &domain.Booking{
			ID:        uuid.New(),
			ProfileID: "profile-1",
			Status:    domain.BookingStatusPending,
		},
	}
}

func (p *fakeBookingPort) GetProfile(ctx context.Context, profileID string) (*domain.Profile, error) {
	if p.profileErr != nil {
		return nil, p.profileErr
	}
	return p.profile, nil
}

func (p *fakeBookingPort) GetAvailableTimes(ctx context.Context, profileID string, date domain.CivilDate) (*domain.DayBookingSnapshot, error) {
	p.mu.Lock()
	p.probes = append(p.probes, date)
	p.mu.Unlock()

	if p.probeStarted != nil {
		p.probeStarted <- struct{}{}
	}
	if p.probeBlock != nil {
		<-p.probeBlock
	}

	if err, exists := p.snapshotErr[date.String()]; exists {
		return nil, err
	}
	if snapshot, exists := p.snapshots[date.String()]; exists {
		return snapshot, nil
	}
	return &domain.DayBookingSnapshot{AvailableTimes: []string{"09:00"}}, nil
}

func (p *fakeBookingPort) GetMyBookings(ctx context.Context, token string) ([]domain.Booking, error) {
	if p.bookingsErr != nil {
		return nil, p.bookingsErr
	}
	return p.bookings, nil
}

func (p *fakeBookingPort) CreateBooking(ctx context.Context, token string, req domain.CreateBookingRequest) (*domain.Booking, error) {
	p.mu.Lock()
	p.created = append(p.created, req)
	p.mu.Unlock()

	if p.createErr != nil {
		return nil, p.createErr
	}
	return p.createdBooking, nil
}

func (p *fakeBookingPort) probeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.probes)
}

func (p *fakeBookingPort) createdCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.created)
}

type fakeAuthPort struct {
	user *domain.User
	err  error
}

func (a *fakeAuthPort) GetCurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.user, nil
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]map[domain.CivilDate]bool
	invalidated []string

	// Сигнал о сохранении, для ожидания отложенного перечитывания
	stored chan string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]map[domain.CivilDate]bool)}
}

func (c *fakeCache) GetMonth(ctx context.Context, profileID, yearMonth string) (map[domain.CivilDate]bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	facts, exists := c.entries[profileID+"/"+yearMonth]
	return facts, exists
}

func (c *fakeCache) StoreMonth(ctx context.Context, profileID, yearMonth string, facts map[domain.CivilDate]bool) {
	key := profileID + "/" + yearMonth

	c.mu.Lock()
	c.entries[key] = facts
	c.mu.Unlock()

	if c.stored != nil {
		c.stored <- key
	}
}

func (c *fakeCache) InvalidateMonth(ctx context.Context, profileID, yearMonth string) {
	key := profileID + "/" + yearMonth

	c.mu.Lock()
	delete(c.entries, key)
	c.invalidated = append(c.invalidated, key)
	c.mu.Unlock()
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.entries[key]
	return exists
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Scheduler.PrefetchHorizonDays = 14
	cfg.Scheduler.DailyQuota = 2
	cfg.Scheduler.WeeklyQuota = 10
	cfg.Cache.Enabled = true
	cfg.Cache.Size = 10
	cfg.Cache.TTL = 10 * time.Minute
	return cfg
}

type serviceFixture struct {
	service *SchedulingService
	booking *fakeBookingPort
	auth    *fakeAuthPort
	cache   *fakeCache
	clock   *stubClock
	cfg     *config.Config
}

func newFixture(now time.Time, busPort out.EventBusPort) *serviceFixture {
	bookingPort := newFakeBookingPort()
	authPort := &fakeAuthPort{user: &domain.User{ID: "user-9", EmailVerified: true}}
	cachePort := newFakeCache()
	clock := &stubClock{now: now}
	cfg := testConfig()

	service := NewSchedulingService(bookingPort, authPort, cachePort, busPort, clock, cfg, nopLogger{})

	return &serviceFixture{
		service: service,
		booking: bookingPort,
		auth:    authPort,
		cache:   cachePort,
		clock:   clock,
		cfg:     cfg,
	}
}
