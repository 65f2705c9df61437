package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/aminhilali/minaret/internal/domain"
	"go.uber.org/zap"
)

// AlertScheduler owns the evaluation loop: on a fixed interval it
// re-derives the prayer state, detects open alert windows, and
// delivers each alert at most once per calendar day per prayer.
//
// The firing store is written before delivery is attempted, so a sink
// failure still counts the alert as fired. That trades a possible lost
// notification for never spamming retries inside the same window.
type AlertScheduler struct {
	resolver *ScheduleResolver
	params   ResolveParams
	firing   domain.FiringStore
	sinks    []domain.Notifier
	clock    domain.Clock
	logger   *zap.Logger
	interval time.Duration
	windows  Windows

	mu       sync.RWMutex
	schedule *domain.Schedule

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewAlertScheduler(
	resolver *ScheduleResolver,
	params ResolveParams,
	firing domain.FiringStore,
	sinks []domain.Notifier,
	clock domain.Clock,
	interval time.Duration,
	windows Windows,
	logger *zap.Logger,
) *AlertScheduler {
	return &AlertScheduler{
		resolver: resolver,
		params:   params,
		firing:   firing,
		sinks:    sinks,
		clock:    clock,
		logger:   logger,
		interval: interval,
		windows:  windows,
	}
}

// AddSink registers another delivery sink. Call before Start; the
// sink slice is not guarded against concurrent mutation.
func (s *AlertScheduler) AddSink(sink domain.Notifier) {
	s.sinks = append(s.sinks, sink)
}

// Schedule returns the currently active schedule, nil before the first
// successful resolution. The schedule is immutable; replacement is the
// only write, so readers need no further coordination.
func (s *AlertScheduler) Schedule() *domain.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule
}

// CurrentTransition evaluates the state machine against the active
// schedule right now.
func (s *AlertScheduler) CurrentTransition() (domain.Transition, error) {
	schedule := s.Schedule()
	if schedule == nil {
		return domain.Transition{}, domain.ErrNoSchedule
	}
	return Evaluate(schedule, s.clock.Now()), nil
}

// Start launches the evaluation loop. It returns immediately; the
// first schedule resolution happens inside the loop goroutine.
func (s *AlertScheduler) Start(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		s.run(runCtx)
	}()
}

// Stop cancels the loop and waits briefly for it to drain.
func (s *AlertScheduler) Stop() {
	s.runMu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.logger.Warn("timeout stopping alert scheduler")
	}
}

func (s *AlertScheduler) run(ctx context.Context) {
	s.refreshSchedule(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunTick(ctx)
		}
	}
}

// RunTick performs one evaluation pass: refresh the schedule if the
// calendar day rolled over, then fire whatever windows are open.
// "Today" is recomputed from the clock on every pass so the loop stays
// correct across midnight.
func (s *AlertScheduler) RunTick(ctx context.Context) {
	now := s.clock.Now()
	today := now.Format(domain.DayFormat)

	schedule := s.Schedule()
	if schedule == nil || schedule.Day != today {
		s.refreshSchedule(ctx)
		schedule = s.Schedule()
		if schedule == nil {
			return
		}
	}

	events := PendingAlerts(schedule, now, s.windows, s.seenFn(ctx))
	for _, event := range events {
		if err := s.firing.Record(ctx, event.Key); err != nil {
			s.logger.Warn("failed to record alert firing", zap.String("key", event.Key.String()), zap.Error(err))
			continue
		}
		s.deliver(ctx, event)
	}
}

func (s *AlertScheduler) seenFn(ctx context.Context) func(domain.FiringKey) bool {
	return func(key domain.FiringKey) bool {
		seen, err := s.firing.Seen(ctx, key)
		if err != nil {
			// Uncertain store state: suppress rather than risk a
			// duplicate. The window is wide enough for a later tick.
			s.logger.Warn("firing store read failed", zap.String("key", key.String()), zap.Error(err))
			return true
		}
		return seen
	}
}

func (s *AlertScheduler) deliver(ctx context.Context, event domain.AlertEvent) {
	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, event); err != nil {
			s.logger.Warn("alert delivery failed",
				zap.String("sink", sink.Name()),
				zap.String("key", event.Key.String()),
				zap.Error(err))
			continue
		}
		s.logger.Info("alert delivered",
			zap.String("sink", sink.Name()),
			zap.String("kind", string(event.Key.Kind)),
			zap.String("prayer", string(event.Key.Prayer)))
	}
}

// refreshSchedule resolves today's schedule and swaps it in. On
// failure the previous schedule (possibly yesterday's) stays active so
// the countdown keeps rendering something.
func (s *AlertScheduler) refreshSchedule(ctx context.Context) {
	schedule, err := s.resolver.Resolve(ctx, s.params)
	if err != nil {
		s.logger.Error("failed to refresh schedule", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.schedule = schedule
	s.mu.Unlock()

	s.logger.Info("schedule refreshed",
		zap.String("day", schedule.Day),
		zap.Int("hijri_day", schedule.Hijri.Day),
		zap.String("hijri_month", schedule.Hijri.MonthName()),
		zap.Int("hijri_year", schedule.Hijri.Year))
}
