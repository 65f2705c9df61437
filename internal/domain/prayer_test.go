package domain

import (
	"testing"
	"time"
)

func clockTime(t *testing.T, hhmm string) time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		t.Fatalf("bad clock time %q: %v", hhmm, err)
	}
	return time.Date(2026, time.September, 1, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}

func validTimes(t *testing.T) map[PrayerName]time.Time {
	t.Helper()
	return map[PrayerName]time.Time{
		Fajr:    clockTime(t, "05:07"),
		Sunrise: clockTime(t, "06:24"),
		Dhuhr:   clockTime(t, "12:05"),
		Asr:     clockTime(t, "15:35"),
		Maghrib: clockTime(t, "18:12"),
		Isha:    clockTime(t, "19:32"),
	}
}

func TestNewSchedule(t *testing.T) {
	schedule, err := NewSchedule("2026-09-01", validTimes(t), HijriDate{Day: 18, Month: 3, Year: 1448}, "01-09-2026", 0)
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	if got := schedule.Time(Maghrib); !got.Equal(clockTime(t, "18:12")) {
		t.Errorf("Time(Maghrib) = %v", got)
	}
}

func TestNewScheduleMissingPrayer(t *testing.T) {
	times := validTimes(t)
	delete(times, Asr)
	if _, err := NewSchedule("2026-09-01", times, HijriDate{}, "", 0); err == nil {
		t.Fatal("expected error for missing prayer")
	}
}

func TestNewScheduleOutOfOrder(t *testing.T) {
	times := validTimes(t)
	times[Isha] = clockTime(t, "17:00") // before Maghrib
	if _, err := NewSchedule("2026-09-01", times, HijriDate{}, "", 0); err == nil {
		t.Fatal("expected error for out-of-order times")
	}
}

func TestCountdown(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-5 * time.Second, "00:00:00"},
		{time.Second, "00:00:01"},
		{90 * time.Second, "00:01:30"},
		{time.Hour + 19*time.Minute + 30*time.Second, "01:19:30"},
		{26 * time.Hour, "26:00:00"},
	}
	for _, tc := range tests {
		if got := Countdown(tc.d); got != tc.want {
			t.Errorf("Countdown(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestFiringKeyString(t *testing.T) {
	key := FiringKey{Day: "2026-09-01", Kind: KindAzan, Prayer: Maghrib}
	if got := key.String(); got != "2026-09-01/azan/Maghrib" {
		t.Errorf("String() = %q", got)
	}
}
