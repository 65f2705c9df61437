package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aminhilali/minaret/internal/domain"
	"github.com/aminhilali/minaret/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type hijriPayload struct {
	Day       int    `json:"day"`
	Month     int    `json:"month"`
	MonthName string `json:"monthName"`
	Year      int    `json:"year"`
}

type schedulePayload struct {
	Day        string            `json:"day"`
	Gregorian  string            `json:"gregorianDate"`
	Hijri      hijriPayload      `json:"hijriDate"`
	Adjustment int               `json:"hijriAdjustment"`
	Timings    map[string]string `json:"timings"`
}

type transitionPayload struct {
	Current    string `json:"current,omitempty"`
	Next       string `json:"next"`
	TimeLeftMs int64  `json:"timeLeftMs"`
	Countdown  string `json:"countdown"`
}

func toSchedulePayload(schedule *domain.Schedule) schedulePayload {
	timings := make(map[string]string, len(schedule.Times))
	for name, t := range schedule.Times {
		timings[string(name)] = t.Format("15:04")
	}
	return schedulePayload{
		Day:       schedule.Day,
		Gregorian: schedule.Gregorian,
		Hijri: hijriPayload{
			Day:       schedule.Hijri.Day,
			Month:     schedule.Hijri.Month,
			MonthName: schedule.Hijri.MonthName(),
			Year:      schedule.Hijri.Year,
		},
		Adjustment: schedule.Adjustment,
		Timings:    timings,
	}
}

func toTransitionPayload(transition domain.Transition) transitionPayload {
	timeLeft := transition.TimeLeft
	if timeLeft < 0 {
		timeLeft = 0
	}
	return transitionPayload{
		Current:    string(transition.Current),
		Next:       string(transition.Next),
		TimeLeftMs: timeLeft.Milliseconds(),
		Countdown:  domain.Countdown(transition.TimeLeft),
	}
}

func (s *Server) timings(c *gin.Context) {
	method, err := intQuery(c, "method", s.defaults.Method)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid method"})
		return
	}
	school, err := intQuery(c, "school", s.defaults.School)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid school"})
		return
	}
	adjustment, err := intQuery(c, "adjustment", s.defaults.Adjustment)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid adjustment"})
		return
	}

	params, err := usecase.NewResolveParams(c.Query("latitude"), c.Query("longitude"), method, school, adjustment)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := s.resolver.Resolve(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load prayer times"})
			return
		}
		s.logger.Error("timings request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toSchedulePayload(schedule))
}

func (s *Server) now(c *gin.Context) {
	transition, err := s.scheduler.CurrentTransition()
	if err != nil {
		if errors.Is(err, domain.ErrNoSchedule) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no schedule resolved yet"})
			return
		}
		s.logger.Error("now request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	payload := gin.H{"transition": toTransitionPayload(transition)}
	if schedule := s.scheduler.Schedule(); schedule != nil {
		payload["schedule"] = toSchedulePayload(schedule)
	}
	c.JSON(http.StatusOK, payload)
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
