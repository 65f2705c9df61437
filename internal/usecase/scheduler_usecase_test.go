package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aminhilali/minaret/internal/domain"
	"github.com/aminhilali/minaret/internal/infra/memstore"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSink struct {
	name      string
	delivered []domain.AlertEvent
	err       error
}

func (s *fakeSink) Name() string { return s.name }

func (s *fakeSink) Deliver(_ context.Context, event domain.AlertEvent) error {
	s.delivered = append(s.delivered, event)
	return s.err
}

func testScheduler(t *testing.T, clock domain.Clock, sink domain.Notifier) (*AlertScheduler, *fakeProvider) {
	t.Helper()
	provider := &fakeProvider{}
	resolver := NewScheduleResolver(provider, memstore.NewScheduleCache(), clock, 2*time.Minute, zap.NewNop())
	scheduler := NewAlertScheduler(
		resolver, testParams(t), memstore.NewFiringStore(),
		[]domain.Notifier{sink},
		clock, 20*time.Second, defaultWindows(), zap.NewNop(),
	)
	return scheduler, provider
}

func TestSchedulerFiresAzanOncePerWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 9, 1, 12, 4, 10, 0, time.UTC)}
	sink := &fakeSink{name: "test"}
	scheduler, _ := testScheduler(t, clock, sink)

	// Five consecutive ticks inside the Dhuhr Azan window.
	for i := 0; i < 5; i++ {
		scheduler.RunTick(context.Background())
		clock.Advance(20 * time.Second)
	}

	require.Len(t, sink.delivered, 1)
	event := sink.delivered[0]
	require.Equal(t, domain.KindAzan, event.Key.Kind)
	require.Equal(t, domain.Dhuhr, event.Key.Prayer)
	require.Equal(t, "2026-09-01", event.Key.Day)
}

func TestSchedulerDeliveryFailureStillRecorded(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 9, 1, 12, 4, 50, 0, time.UTC)}
	sink := &fakeSink{name: "test", err: errors.New("sink down")}
	scheduler, _ := testScheduler(t, clock, sink)

	scheduler.RunTick(context.Background())
	clock.Advance(20 * time.Second)
	scheduler.RunTick(context.Background())

	// One attempt, no retry inside the same window.
	require.Len(t, sink.delivered, 1)
}

func TestSchedulerFailingSinkDoesNotBlockOthers(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 9, 1, 12, 4, 50, 0, time.UTC)}
	broken := &fakeSink{name: "broken", err: errors.New("sink down")}
	healthy := &fakeSink{name: "healthy"}
	scheduler, _ := testScheduler(t, clock, broken)
	scheduler.AddSink(healthy)

	scheduler.RunTick(context.Background())

	require.Len(t, broken.delivered, 1)
	require.Len(t, healthy.delivered, 1)
}

func TestSchedulerRefreshesScheduleAcrossMidnight(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 9, 1, 23, 59, 59, 0, time.UTC)}
	sink := &fakeSink{name: "test"}
	scheduler, provider := testScheduler(t, clock, sink)

	scheduler.RunTick(context.Background())
	require.Equal(t, "2026-09-01", scheduler.Schedule().Day)
	require.Equal(t, 1, provider.calls)

	clock.Set(time.Date(2026, 9, 2, 0, 0, 5, 0, time.UTC))
	scheduler.RunTick(context.Background())
	require.Equal(t, "2026-09-02", scheduler.Schedule().Day)
	require.Equal(t, 2, provider.calls)
}

func TestSchedulerYesterdayFiringDoesNotSuppressToday(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 9, 1, 18, 12, 0, 0, time.UTC)}
	sink := &fakeSink{name: "test"}
	scheduler, _ := testScheduler(t, clock, sink)

	scheduler.RunTick(context.Background())
	require.Len(t, sink.delivered, 2) // Azan + Iftar at Maghrib

	clock.Set(time.Date(2026, 9, 2, 18, 12, 0, 0, time.UTC))
	scheduler.RunTick(context.Background())
	require.Len(t, sink.delivered, 4)
	require.Equal(t, "2026-09-02", sink.delivered[2].Key.Day)
}

func TestSchedulerCurrentTransitionWithoutSchedule(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
	scheduler, _ := testScheduler(t, clock, &fakeSink{name: "test"})

	_, err := scheduler.CurrentTransition()
	require.ErrorIs(t, err, domain.ErrNoSchedule)
}

func TestSchedulerKeepsStaleScheduleOnRefreshFailure(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
	sink := &fakeSink{name: "test"}
	scheduler, provider := testScheduler(t, clock, sink)

	scheduler.RunTick(context.Background())
	require.NotNil(t, scheduler.Schedule())

	provider.err = domain.ErrUpstreamUnavailable
	clock.Set(time.Date(2026, 9, 2, 0, 0, 5, 0, time.UTC))
	scheduler.RunTick(context.Background())

	// Yesterday's schedule stays active so the UI keeps rendering.
	require.Equal(t, "2026-09-01", scheduler.Schedule().Day)
}
