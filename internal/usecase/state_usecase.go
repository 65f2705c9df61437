package usecase

import (
	"time"

	"github.com/aminhilali/minaret/internal/domain"
)

// Evaluate derives the prayer state for a moment in time. It is a
// total function: any schedule and any timestamp produce a valid
// Transition.
//
// The five alerting prayers are scanned in chronological order and the
// first one strictly after now becomes Next; the one before it (none
// for Fajr) is Current. At or after Isha the next occurrence is
// tomorrow's Fajr, taken as today's Fajr clock time one calendar day
// later. A fresh schedule for the new day is resolved by the
// scheduler's daily refresh, not here.
//
// The linear scan runs on every tick. Five elements make anything
// cleverer pointless.
func Evaluate(schedule *domain.Schedule, now time.Time) domain.Transition {
	var current domain.PrayerName
	for _, name := range domain.AlertingPrayers {
		ts := schedule.Time(name)
		if ts.After(now) {
			return domain.Transition{Current: current, Next: name, TimeLeft: ts.Sub(now)}
		}
		current = name
	}

	nextFajr := schedule.Time(domain.Fajr).AddDate(0, 0, 1)
	return domain.Transition{Current: domain.Isha, Next: domain.Fajr, TimeLeft: nextFajr.Sub(now)}
}

// Windows holds the alert trigger windows. Azan and Sehri are
// half-widths: a prayer's Azan fires while |prayer - now| <= Azan.
type Windows struct {
	Azan      time.Duration
	SehriLead time.Duration // how long before Fajr the Sehri reminder lands
	Sehri     time.Duration
}

// PendingAlerts returns the alerts whose trigger window contains now
// and whose firing key has not been seen yet. It is pure given the
// seen predicate; the scheduler wraps it with a real FiringStore and
// real delivery.
//
// Today's date is derived from now on every call. Caching it across
// ticks would break the first evaluation after midnight.
func PendingAlerts(schedule *domain.Schedule, now time.Time, w Windows, seen func(domain.FiringKey) bool) []domain.AlertEvent {
	day := now.Format(domain.DayFormat)
	var events []domain.AlertEvent

	appendIfUnseen := func(kind domain.AlertKind, prayer domain.PrayerName, at time.Time) {
		key := domain.FiringKey{Day: day, Kind: kind, Prayer: prayer}
		if !seen(key) {
			events = append(events, domain.AlertEvent{Key: key, At: at})
		}
	}

	for _, name := range domain.AlertingPrayers {
		ts := schedule.Time(name)
		if within(ts.Sub(now), w.Azan) {
			appendIfUnseen(domain.KindAzan, name, ts)
		}
		switch name {
		case domain.Fajr:
			sehriAt := ts.Add(-w.SehriLead)
			if within(sehriAt.Sub(now), w.Sehri) {
				appendIfUnseen(domain.KindSehri, domain.Fajr, sehriAt)
			}
		case domain.Maghrib:
			if within(ts.Sub(now), w.Azan) {
				appendIfUnseen(domain.KindIftar, domain.Maghrib, ts)
			}
		}
	}

	return events
}

func within(diff, half time.Duration) bool {
	return diff >= -half && diff <= half
}
