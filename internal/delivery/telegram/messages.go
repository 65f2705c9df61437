package telegram

import (
	"fmt"
	"strings"

	"github.com/aminhilali/minaret/internal/domain"
)

const HelpText = `Commands:
/start - subscribe this chat
/help - show this help
/today - today's prayer schedule
/next - next prayer and countdown
`

func alertText(event domain.AlertEvent) string {
	clock := event.At.Format("15:04")
	switch event.Key.Kind {
	case domain.KindSehri:
		return fmt.Sprintf("Sehri reminder: Fajr is at %s.", clock)
	case domain.KindIftar:
		return fmt.Sprintf("Iftar time. Maghrib %s.", clock)
	default:
		return fmt.Sprintf("Azan time for %s (%s).", event.Key.Prayer, clock)
	}
}

func formatSchedule(schedule *domain.Schedule) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Prayer times for %s\n", schedule.Gregorian))
	builder.WriteString(fmt.Sprintf("%d %s %d AH\n\n", schedule.Hijri.Day, schedule.Hijri.MonthName(), schedule.Hijri.Year))
	for _, name := range domain.AllPrayers {
		builder.WriteString(fmt.Sprintf("%-8s %s\n", name, schedule.Time(name).Format("15:04")))
	}
	return builder.String()
}

func formatTransition(transition domain.Transition) string {
	var builder strings.Builder
	if transition.Current != "" {
		builder.WriteString(fmt.Sprintf("Current: %s\n", transition.Current))
	}
	builder.WriteString(fmt.Sprintf("Next: %s in %s", transition.Next, domain.Countdown(transition.TimeLeft)))
	return builder.String()
}
