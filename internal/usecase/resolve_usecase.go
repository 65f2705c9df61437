package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aminhilali/minaret/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrMissingCoordinates = errors.New("latitude and longitude are required")
	ErrInvalidCoordinates = errors.New("invalid latitude or longitude")
	ErrInvalidSchool      = errors.New("school must be 0 or 1")
)

var (
	maxLatitude  = decimal.NewFromInt(90)
	maxLongitude = decimal.NewFromInt(180)
)

// ResolveParams is one validated resolution request: where, which
// calculation method and asr school, and the hijri day offset.
type ResolveParams struct {
	Latitude   decimal.Decimal
	Longitude  decimal.Decimal
	Method     int
	School     int
	Adjustment int
}

// NewResolveParams validates raw inputs into ResolveParams. Latitude
// and longitude are decimal strings; rejection happens here, before
// any network call.
func NewResolveParams(latitude, longitude string, method, school, adjustment int) (ResolveParams, error) {
	latitude = strings.TrimSpace(latitude)
	longitude = strings.TrimSpace(longitude)
	if latitude == "" || longitude == "" {
		return ResolveParams{}, ErrMissingCoordinates
	}

	lat, err := decimal.NewFromString(latitude)
	if err != nil {
		return ResolveParams{}, ErrInvalidCoordinates
	}
	lon, err := decimal.NewFromString(longitude)
	if err != nil {
		return ResolveParams{}, ErrInvalidCoordinates
	}
	if lat.Abs().GreaterThan(maxLatitude) || lon.Abs().GreaterThan(maxLongitude) {
		return ResolveParams{}, ErrInvalidCoordinates
	}
	if school != 0 && school != 1 {
		return ResolveParams{}, ErrInvalidSchool
	}

	return ResolveParams{
		Latitude:   lat,
		Longitude:  lon,
		Method:     method,
		School:     school,
		Adjustment: adjustment,
	}, nil
}

// cacheKey embeds every resolution parameter plus the calendar day, so
// a changed parameter or a new day never reads a stale entry.
func (p ResolveParams) cacheKey(day string) string {
	return fmt.Sprintf("timings:%s:%s:%s:%d:%d:%d",
		day, p.Latitude.String(), p.Longitude.String(), p.Method, p.School, p.Adjustment)
}

// ScheduleResolver turns ResolveParams into a Schedule, cache-first.
//
// When the cache backend itself fails (not a plain miss) the resolver
// trips a breaker: for the cooldown window it bypasses the cache and
// goes straight upstream instead of hammering a broken backend on
// every request. Normal behavior resumes on the first request after
// the window. The breaker is per-resolver state, not a global.
type ScheduleResolver struct {
	provider domain.TimingsProvider
	cache    domain.ScheduleCache
	clock    domain.Clock
	logger   *zap.Logger
	cooldown time.Duration

	mu             sync.Mutex
	cacheDownUntil time.Time
}

func NewScheduleResolver(provider domain.TimingsProvider, cache domain.ScheduleCache, clock domain.Clock, cooldown time.Duration, logger *zap.Logger) *ScheduleResolver {
	return &ScheduleResolver{
		provider: provider,
		cache:    cache,
		clock:    clock,
		logger:   logger,
		cooldown: cooldown,
	}
}

// Resolve returns the schedule for today. Identical params on the same
// calendar day return identical data, the second read served from
// cache. Cache writes are best-effort and never fail the read path.
func (r *ScheduleResolver) Resolve(ctx context.Context, params ResolveParams) (*domain.Schedule, error) {
	now := r.clock.Now()
	day := now.Format(domain.DayFormat)
	key := params.cacheKey(day)

	if r.cacheUsable(now) {
		cached, err := r.cache.Get(ctx, key)
		switch {
		case err == nil:
			return cached, nil
		case errors.Is(err, domain.ErrNotFound):
			// miss, fetch upstream
		default:
			r.tripBreaker(now)
			r.logger.Warn("schedule cache unavailable, bypassing",
				zap.Duration("cooldown", r.cooldown), zap.Error(err))
		}
	}

	raw, err := r.provider.Timings(ctx, now, params.Latitude, params.Longitude, params.Method, params.School)
	if err != nil {
		return nil, err
	}

	schedule, err := domain.NewSchedule(day, raw.Times, raw.Hijri.Adjust(params.Adjustment), raw.Gregorian, params.Adjustment)
	if err != nil {
		return nil, err
	}

	if r.cacheUsable(r.clock.Now()) {
		if err := r.cache.Put(ctx, key, schedule); err != nil {
			r.tripBreaker(r.clock.Now())
			r.logger.Warn("schedule cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return schedule, nil
}

func (r *ScheduleResolver) cacheUsable(now time.Time) bool {
	if r.cache == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return !now.Before(r.cacheDownUntil)
}

func (r *ScheduleResolver) tripBreaker(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cacheDownUntil = now.Add(r.cooldown)
}
