package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aminhilali/minaret/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeProvider struct {
	calls int
	err   error
}

func (p *fakeProvider) Timings(_ context.Context, day time.Time, _, _ decimal.Decimal, _, _ int) (*domain.DayTimings, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}

	at := func(hour, minute int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
	}
	return &domain.DayTimings{
		Times: map[domain.PrayerName]time.Time{
			domain.Fajr:    at(5, 7),
			domain.Sunrise: at(6, 24),
			domain.Dhuhr:   at(12, 5),
			domain.Asr:     at(15, 35),
			domain.Maghrib: at(18, 12),
			domain.Isha:    at(19, 32),
		},
		Hijri:     domain.HijriDate{Day: 18, Month: 3, Year: 1448},
		Gregorian: day.Format("02-01-2006"),
	}, nil
}

type fakeCache struct {
	entries map[string]*domain.Schedule
	getErr  error
	putErr  error
	gets    int
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.Schedule)}
}

func (c *fakeCache) Get(_ context.Context, key string) (*domain.Schedule, error) {
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	schedule, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return schedule, nil
}

func (c *fakeCache) Put(_ context.Context, key string, schedule *domain.Schedule) error {
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[key] = schedule
	return nil
}

func testParams(t *testing.T) ResolveParams {
	t.Helper()
	params, err := NewResolveParams("23.8103", "90.4125", 1, 0, 0)
	require.NoError(t, err)
	return params
}

func testResolver(provider domain.TimingsProvider, cache domain.ScheduleCache, clock domain.Clock) *ScheduleResolver {
	return NewScheduleResolver(provider, cache, clock, 2*time.Minute, zap.NewNop())
}

func TestNewResolveParamsValidation(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon string
		school   int
		wantErr  error
	}{
		{"missing latitude", "", "90.4", 0, ErrMissingCoordinates},
		{"missing longitude", "23.8", "", 0, ErrMissingCoordinates},
		{"non-numeric latitude", "north", "90.4", 0, ErrInvalidCoordinates},
		{"latitude out of range", "90.5", "90.4", 0, ErrInvalidCoordinates},
		{"longitude out of range", "23.8", "-180.1", 0, ErrInvalidCoordinates},
		{"invalid school", "23.8", "90.4", 2, ErrInvalidSchool},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewResolveParams(tc.lat, tc.lon, 1, tc.school, 0)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	params, err := NewResolveParams(" 23.8103 ", "90.4125", 1, 1, -1)
	require.NoError(t, err)
	require.Equal(t, "23.8103", params.Latitude.String())
	require.Equal(t, -1, params.Adjustment)
}

func TestResolveIdempotentSameDay(t *testing.T) {
	provider := &fakeProvider{}
	cache := newFakeCache()
	clock := &fakeClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
	resolver := testResolver(provider, cache, clock)

	first, err := resolver.Resolve(context.Background(), testParams(t))
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), testParams(t))
	require.NoError(t, err)

	require.Equal(t, 1, provider.calls, "second call must be served from cache")
	require.Equal(t, first, second)
	require.Equal(t, "2026-09-01", first.Day)
}

func TestResolveNewDayFetchesAgain(t *testing.T) {
	provider := &fakeProvider{}
	cache := newFakeCache()
	clock := &fakeClock{now: time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC)}
	resolver := testResolver(provider, cache, clock)

	first, err := resolver.Resolve(context.Background(), testParams(t))
	require.NoError(t, err)

	clock.Advance(2 * time.Minute) // crosses midnight
	second, err := resolver.Resolve(context.Background(), testParams(t))
	require.NoError(t, err)

	require.Equal(t, 2, provider.calls)
	require.Equal(t, "2026-09-01", first.Day)
	require.Equal(t, "2026-09-02", second.Day)
}

func TestResolveUpstreamErrorSurfaces(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("%w: status 503", domain.ErrUpstreamUnavailable)}
	clock := &fakeClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
	resolver := testResolver(provider, newFakeCache(), clock)

	_, err := resolver.Resolve(context.Background(), testParams(t))
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestResolveCacheFailureTripsBreaker(t *testing.T) {
	provider := &fakeProvider{}
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	clock := &fakeClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
	resolver := testResolver(provider, cache, clock)

	_, err := resolver.Resolve(context.Background(), testParams(t))
	require.NoError(t, err, "broken cache must not fail the read path")
	require.Equal(t, 1, cache.gets)
	require.Equal(t, 1, provider.calls)

	// Inside the cooldown the cache is bypassed entirely.
	clock.Advance(30 * time.Second)
	_, err = resolver.Resolve(context.Background(), testParams(t))
	require.NoError(t, err)
	require.Equal(t, 1, cache.gets, "cache must not be touched during cooldown")
	require.Equal(t, 2, provider.calls)

	// After the cooldown the cache is consulted again with no manual reset.
	cache.getErr = nil
	clock.Advance(2 * time.Minute)
	_, err = resolver.Resolve(context.Background(), testParams(t))
	require.NoError(t, err)
	require.Equal(t, 2, cache.gets)
}

func TestResolveCacheWriteFailureIgnored(t *testing.T) {
	provider := &fakeProvider{}
	cache := newFakeCache()
	cache.putErr = errors.New("disk full")
	clock := &fakeClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
	resolver := testResolver(provider, cache, clock)

	schedule, err := resolver.Resolve(context.Background(), testParams(t))
	require.NoError(t, err)
	require.NotNil(t, schedule)
	require.Equal(t, 1, cache.puts)
}
