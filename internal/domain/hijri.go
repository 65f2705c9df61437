package domain

// hijriMonths in calendar order, 1-indexed via HijriDate.MonthName.
var hijriMonths = []string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani",
	"Jumada al-Ula", "Jumada al-Thaniyah", "Rajab", "Shaban",
	"Ramadan", "Shawwal", "Dhul-Qadah", "Dhul-Hijjah",
}

// HijriDate is the Islamic-calendar date tracked alongside the
// Gregorian date for display.
type HijriDate struct {
	Day   int
	Month int // 1..12, 1 = Muharram
	Year  int
}

func (h HijriDate) MonthName() string {
	if h.Month < 1 || h.Month > 12 {
		return ""
	}
	return hijriMonths[h.Month-1]
}

// monthLength follows the tabular simplification the upstream data
// uses: odd months have 30 days, even months 29. Real lunar months
// vary; astronomical accuracy is not attempted here.
func monthLength(month int) int {
	if month%2 == 1 {
		return 30
	}
	return 29
}

// Adjust shifts the date by offset days, rolling the month and year
// when the day under- or overflows the month's length. Year changes
// only when the month wraps past Muharram or Dhul-Hijjah.
func (h HijriDate) Adjust(offset int) HijriDate {
	d := h
	d.Day += offset
	for d.Day < 1 {
		d.Month--
		if d.Month < 1 {
			d.Month = 12
			d.Year--
		}
		d.Day += monthLength(d.Month)
	}
	for d.Day > monthLength(d.Month) {
		d.Day -= monthLength(d.Month)
		d.Month++
		if d.Month > 12 {
			d.Month = 1
			d.Year++
		}
	}
	return d
}
