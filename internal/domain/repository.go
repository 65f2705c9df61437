package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned by a cache lookup that found nothing.
	// Any other lookup error means the backend itself is unhealthy.
	ErrNotFound = errors.New("not found")

	// ErrNoSchedule means no schedule has been resolved yet for today.
	ErrNoSchedule = errors.New("no schedule resolved")

	// ErrUpstreamUnavailable marks a transient upstream failure: the
	// prayer-times service was unreachable or answered non-2xx.
	ErrUpstreamUnavailable = errors.New("prayer times service unavailable")
)

// DayTimings is the upstream service's answer for one day, parsed into
// local timestamps but not yet adjusted or validated into a Schedule.
type DayTimings struct {
	Times     map[PrayerName]time.Time
	Hijri     HijriDate
	Gregorian string
}

// TimingsProvider fetches raw timings for a day and location from the
// upstream prayer-times service.
type TimingsProvider interface {
	Timings(ctx context.Context, day time.Time, latitude, longitude decimal.Decimal, method, school int) (*DayTimings, error)
}

// ScheduleCache is a day-keyed store of resolved schedules. Keys embed
// every resolution parameter plus the calendar day, so entries need no
// invalidation: a new day or a changed parameter produces a new key.
type ScheduleCache interface {
	Get(ctx context.Context, key string) (*Schedule, error)
	Put(ctx context.Context, key string, schedule *Schedule) error
}

// FiringStore tracks which alerts already fired. Implementations may
// be in-memory (records die with the process) or persisted (records
// survive a restart); the scheduler does not care which.
type FiringStore interface {
	Seen(ctx context.Context, key FiringKey) (bool, error)
	Record(ctx context.Context, key FiringKey) error
}

// Notifier delivers one alert to one sink. Delivery is fire-and-forget
// from the scheduler's perspective: a failure is logged, never retried
// within the same window.
type Notifier interface {
	Name() string
	Deliver(ctx context.Context, event AlertEvent) error
}

// Clock abstracts wall-clock time so every time-dependent component
// can be tested without waiting.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
