package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yorutomo/booking-schedule-core/internal/config"
	"github.com/yorutomo/booking-schedule-core/internal/core/domain"
	"github.com/yorutomo/booking-schedule-core/internal/core/ports/out"
)

type monthEntry struct {
	Facts     map[domain.CivilDate]bool
	FetchedAt time.Time
}

// CacheAdapter — ограниченный кэш фактов занятости по месяцам.
// Запись живет не дольше TTL с момента загрузки; при переполнении
// вытесняется самая старая по порядку вставки.
type CacheAdapter struct {
	cache  *lru.Cache[string, *monthEntry]
	ttl    time.Duration
	clock  out.ClockPort
	mu     sync.RWMutex
	logger out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, clock out.ClockPort, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	lruCache, err := lru.New[string, *monthEntry](cfg.Cache.Size)
	if err != nil {
		logger.Error("cache.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.Size,
		})
		return nil, err
	}

	return &CacheAdapter{
		cache:  lruCache,
		ttl:    cfg.Cache.TTL,
		clock:  clock,
		logger: logger.WithModule("CacheAdapter"),
	}, nil
}

func monthKey(profileID, yearMonth string) string {
	return profileID + "/" + yearMonth
}

// GetMonth читает запись через Peek, не обновляя ее позицию в LRU:
// вытеснение должно идти по порядку вставки, а не по порядку чтения.
func (c *CacheAdapter) GetMonth(ctx context.Context, profileID, yearMonth string) (map[domain.CivilDate]bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache.Peek(monthKey(profileID, yearMonth))
	if !exists {
		c.logger.Debug("cache.month.miss", out.LogFields{
			"profileId": profileID,
			"yearMonth": yearMonth,
		})
		return nil, false
	}

	if c.clock.Now().Sub(entry.FetchedAt) > c.ttl {
		c.logger.Debug("cache.month.expired", out.LogFields{
			"profileId": profileID,
			"yearMonth": yearMonth,
			"fetchedAt": entry.FetchedAt,
		})
		return nil, false
	}

	c.logger.Debug("cache.month.hit", out.LogFields{
		"profileId":  profileID,
		"yearMonth":  yearMonth,
		"factsCount": len(entry.Facts),
	})
	return entry.Facts, true
}

func (c *CacheAdapter) StoreMonth(ctx context.Context, profileID, yearMonth string, facts map[domain.CivilDate]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.month.store", out.LogFields{
		"profileId":  profileID,
		"yearMonth":  yearMonth,
		"factsCount": len(facts),
	})

	c.cache.Add(monthKey(profileID, yearMonth), &monthEntry{
		Facts:     facts,
		FetchedAt: c.clock.Now(),
	})
}

func (c *CacheAdapter) InvalidateMonth(ctx context.Context, profileID, yearMonth string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Remove(monthKey(profileID, yearMonth))
}
