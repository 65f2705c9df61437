package log

import (
	"context"

	"github.com/aminhilali/minaret/internal/domain"
	"go.uber.org/zap"
)

// AlertSink writes every alert to the structured log. It is always
// registered, so firings stay observable even when no external sink is
// configured.
type AlertSink struct {
	logger *zap.Logger
}

func NewAlertSink(logger *zap.Logger) *AlertSink {
	return &AlertSink{logger: logger}
}

func (s *AlertSink) Name() string { return "log" }

func (s *AlertSink) Deliver(_ context.Context, event domain.AlertEvent) error {
	s.logger.Info("prayer alert",
		zap.String("kind", string(event.Key.Kind)),
		zap.String("prayer", string(event.Key.Prayer)),
		zap.Time("at", event.At))
	return nil
}
