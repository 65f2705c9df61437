package aladhan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aminhilali/minaret/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client talks to the Al Adhan timings API.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Timings fetches the timings for one day and location. The returned
// timestamps are built on day's calendar date in day's location.
func (c *Client) Timings(ctx context.Context, day time.Time, latitude, longitude decimal.Decimal, method, school int) (*domain.DayTimings, error) {
	endpoint := fmt.Sprintf("%s/timings/%s", c.baseURL, day.Format("02-01-2006"))

	params := url.Values{}
	params.Set("latitude", latitude.String())
	params.Set("longitude", longitude.String())
	if method >= 0 {
		params.Set("method", strconv.Itoa(method))
	}
	if school >= 0 {
		params.Set("school", strconv.Itoa(school))
	}
	reqURL := endpoint + "?" + params.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("timings request failed", zap.String("url", endpoint), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer response.Body.Close()

	c.logger.Debug(
		"timings request complete",
		zap.String("url", endpoint),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, response.StatusCode)
	}

	var payload timingsResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrUpstreamUnavailable, err)
	}
	if payload.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: code=%d status=%s", domain.ErrUpstreamUnavailable, payload.Code, payload.Status)
	}

	return mapToDayTimings(payload.Data, day)
}

func mapToDayTimings(data timingsData, day time.Time) (*domain.DayTimings, error) {
	times := make(map[domain.PrayerName]time.Time, len(domain.AllPrayers))
	for _, name := range domain.AllPrayers {
		raw, ok := data.Timings[string(name)]
		if !ok {
			return nil, fmt.Errorf("timings missing %s", name)
		}
		t, err := parseClock(raw, day)
		if err != nil {
			return nil, fmt.Errorf("timings %s: %w", name, err)
		}
		times[name] = t
	}

	hijriDay, err := strconv.Atoi(strings.TrimSpace(data.Date.Hijri.Day))
	if err != nil {
		return nil, fmt.Errorf("hijri day %q: %w", data.Date.Hijri.Day, err)
	}
	hijriYear, err := strconv.Atoi(strings.TrimSpace(data.Date.Hijri.Year))
	if err != nil {
		return nil, fmt.Errorf("hijri year %q: %w", data.Date.Hijri.Year, err)
	}

	return &domain.DayTimings{
		Times: times,
		Hijri: domain.HijriDate{
			Day:   hijriDay,
			Month: data.Date.Hijri.Month.Number,
			Year:  hijriYear,
		},
		Gregorian: data.Date.Gregorian.Date,
	}, nil
}

// parseClock parses "HH:MM" or "HH:MM (TZ)" into a timestamp on day's
// date in day's location. The API sometimes appends a timezone label;
// only the leading HH:MM is significant.
func parseClock(raw string, day time.Time) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	hhmm := strings.Split(s, ":")
	if len(hhmm) != 2 {
		return time.Time{}, fmt.Errorf("invalid time %q", raw)
	}
	hour, err := strconv.Atoi(hhmm[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err := strconv.Atoi(hhmm[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid minute in %q", raw)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}
