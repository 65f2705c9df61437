package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aminhilali/minaret/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Cache stores resolved schedules in redis. Entries carry a TTL a bit
// over a day; expiry is a safety net, correctness comes from the
// day-embedding keys.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr, username, password string, ttl time.Duration) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       0,
	})
	return &Cache{rdb: rdb, ttl: ttl}
}

// Ping verifies the backend is reachable at startup.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

// entry is the persisted form of a schedule. Timestamps are RFC3339
// with offset, so they deserialize into the wall-clock instants they
// were stored as.
type entry struct {
	Day        string            `json:"day"`
	Times      map[string]string `json:"times"`
	HijriDay   int               `json:"hijri_day"`
	HijriMonth int               `json:"hijri_month"`
	HijriYear  int               `json:"hijri_year"`
	Gregorian  string            `json:"gregorian"`
	Adjustment int               `json:"adjustment"`
}

func (c *Cache) Get(ctx context.Context, key string) (*domain.Schedule, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("redis entry decode: %w", err)
	}

	times := make(map[domain.PrayerName]time.Time, len(e.Times))
	for name, stamp := range e.Times {
		t, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			return nil, fmt.Errorf("redis entry time %s: %w", name, err)
		}
		times[domain.PrayerName(name)] = t
	}

	hijri := domain.HijriDate{Day: e.HijriDay, Month: e.HijriMonth, Year: e.HijriYear}
	return domain.NewSchedule(e.Day, times, hijri, e.Gregorian, e.Adjustment)
}

func (c *Cache) Put(ctx context.Context, key string, schedule *domain.Schedule) error {
	times := make(map[string]string, len(schedule.Times))
	for name, t := range schedule.Times {
		times[string(name)] = t.Format(time.RFC3339)
	}

	raw, err := json.Marshal(entry{
		Day:        schedule.Day,
		Times:      times,
		HijriDay:   schedule.Hijri.Day,
		HijriMonth: schedule.Hijri.Month,
		HijriYear:  schedule.Hijri.Year,
		Gregorian:  schedule.Gregorian,
		Adjustment: schedule.Adjustment,
	})
	if err != nil {
		return err
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
