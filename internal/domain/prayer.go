package domain

import (
	"fmt"
	"time"
)

// PrayerName identifies one of the six daily timings returned by the
// upstream service. Sunrise is informational only: it is rendered in
// schedules but is never "current" or "next" for alerting purposes.
type PrayerName string

const (
	Fajr    PrayerName = "Fajr"
	Sunrise PrayerName = "Sunrise"
	Dhuhr   PrayerName = "Dhuhr"
	Asr     PrayerName = "Asr"
	Maghrib PrayerName = "Maghrib"
	Isha    PrayerName = "Isha"
)

// AllPrayers lists every timing in chronological order.
var AllPrayers = []PrayerName{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// AlertingPrayers lists the five prayers that participate in state
// derivation and alerting, in chronological order.
var AlertingPrayers = []PrayerName{Fajr, Dhuhr, Asr, Maghrib, Isha}

// DayFormat is the calendar-day layout used in cache keys and firing
// keys.
const DayFormat = "2006-01-02"

// AlertKind distinguishes the three alert families the scheduler fires.
type AlertKind string

const (
	KindAzan  AlertKind = "azan"
	KindSehri AlertKind = "sehri"
	KindIftar AlertKind = "iftar"
)

// Schedule is one resolved day's prayer timings. It is immutable once
// built; consumers replace the whole value when the day or any
// resolution parameter changes.
type Schedule struct {
	Day        string // Gregorian calendar day the times belong to, YYYY-MM-DD
	Times      map[PrayerName]time.Time
	Hijri      HijriDate
	Gregorian  string // upstream display form, e.g. "05-09-2026"
	Adjustment int    // hijri day offset that was applied
}

// NewSchedule builds a Schedule and checks its shape: exactly one
// timestamp per prayer, non-decreasing in chronological order.
func NewSchedule(day string, times map[PrayerName]time.Time, hijri HijriDate, gregorian string, adjustment int) (*Schedule, error) {
	for _, name := range AllPrayers {
		if _, ok := times[name]; !ok {
			return nil, fmt.Errorf("schedule for %s missing %s", day, name)
		}
	}
	for i := 1; i < len(AllPrayers); i++ {
		prev, cur := AllPrayers[i-1], AllPrayers[i]
		if times[cur].Before(times[prev]) {
			return nil, fmt.Errorf("schedule for %s out of order: %s before %s", day, cur, prev)
		}
	}
	return &Schedule{
		Day:        day,
		Times:      times,
		Hijri:      hijri,
		Gregorian:  gregorian,
		Adjustment: adjustment,
	}, nil
}

// Time returns the timestamp for the given prayer.
func (s *Schedule) Time(name PrayerName) time.Time {
	return s.Times[name]
}

// FiringKey identifies one alert occurrence. Keys embed the calendar
// day, so records from a previous day simply stop matching after
// midnight and no explicit reset is needed.
type FiringKey struct {
	Day    string // YYYY-MM-DD
	Kind   AlertKind
	Prayer PrayerName
}

func (k FiringKey) String() string {
	return k.Day + "/" + string(k.Kind) + "/" + string(k.Prayer)
}

// AlertEvent is one alert the scheduler decided to deliver.
type AlertEvent struct {
	Key FiringKey
	At  time.Time // the prayer timestamp the alert refers to
}

// Transition is the state machine's output: which prayer window we are
// in, which prayer comes next, and how long until it. Recomputed on
// every evaluation, never persisted.
type Transition struct {
	Current  PrayerName // empty before Fajr
	Next     PrayerName
	TimeLeft time.Duration
}

// Countdown formats a duration as zero-padded HH:MM:SS, clamped to
// 00:00:00 for non-positive input.
func Countdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}
