package app

import (
	"context"
	"fmt"

	"github.com/aminhilali/minaret/internal/config"
	"github.com/aminhilali/minaret/internal/delivery/httpapi"
	"github.com/aminhilali/minaret/internal/delivery/telegram"
	"github.com/aminhilali/minaret/internal/domain"
	"github.com/aminhilali/minaret/internal/infra/aladhan"
	"github.com/aminhilali/minaret/internal/infra/db"
	"github.com/aminhilali/minaret/internal/infra/log"
	"github.com/aminhilali/minaret/internal/infra/memstore"
	"github.com/aminhilali/minaret/internal/infra/rediscache"
	"github.com/aminhilali/minaret/internal/usecase"
	"go.uber.org/zap"
)

type App struct {
	server    *httpapi.Server
	hub       *httpapi.Hub
	scheduler *usecase.AlertScheduler
	bot       *telegram.Bot
	logger    *zap.Logger
	cleanupFn []func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	params, err := usecase.NewResolveParams(cfg.Latitude, cfg.Longitude, cfg.Method, cfg.School, cfg.HijriAdjustment)
	if err != nil {
		return nil, fmt.Errorf("invalid location config: %w", err)
	}

	app := &App{logger: logger}

	var cache domain.ScheduleCache
	if cfg.RedisEnabled() {
		redisCache := rediscache.New(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisScheduleTTL)
		if err := redisCache.Ping(ctx); err != nil {
			// The resolver's breaker copes with a flaky backend; a dead
			// address at startup is worth surfacing loudly.
			logger.Warn("redis unreachable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		app.cleanupFn = append(app.cleanupFn, redisCache.Close)
		cache = redisCache
	} else {
		cache = memstore.NewScheduleCache()
	}

	var firing domain.FiringStore
	if cfg.DBEnabled() {
		dbConn, err := db.Open(cfg, logger)
		if err != nil {
			return nil, err
		}
		app.cleanupFn = append(app.cleanupFn, func() error {
			sqlDB, err := dbConn.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
		firing = db.NewFiringRepository(dbConn)
	} else {
		firing = memstore.NewFiringStore()
	}

	client := aladhan.NewClient(cfg.AladhanBaseURL, cfg.AladhanTimeout, logger)
	clock := domain.SystemClock{}
	resolver := usecase.NewScheduleResolver(client, cache, clock, cfg.CacheBreakerCooldown, logger)

	windows := usecase.Windows{
		Azan:      cfg.AzanWindow,
		SehriLead: cfg.SehriLead,
		Sehri:     cfg.SehriWindow,
	}
	scheduler := usecase.NewAlertScheduler(
		resolver, params, firing,
		[]domain.Notifier{log.NewAlertSink(logger)},
		clock, cfg.EvalInterval, windows, logger,
	)

	hub := httpapi.NewHub(scheduler, cfg.CountdownInterval, logger)
	scheduler.AddSink(hub)

	if cfg.TelegramEnabled() {
		api, err := telegram.NewAPI(cfg.TelegramBotToken)
		if err != nil {
			return nil, err
		}
		scheduler.AddSink(telegram.NewNotifier(api, cfg.TelegramChatID, logger))
		handlers := telegram.NewHandlers(scheduler, logger)
		app.bot = telegram.NewBot(api, handlers, 60)
	}

	defaults := httpapi.Defaults{Method: cfg.Method, School: cfg.School, Adjustment: cfg.HijriAdjustment}
	app.server = httpapi.NewServer(cfg.ListenAddr, cfg.AllowedOrigins, resolver, scheduler, hub, defaults, logger)
	app.hub = hub
	app.scheduler = scheduler

	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("minaret service starting")

	a.scheduler.Start(ctx)
	go a.hub.Run(ctx)

	if a.bot != nil {
		go func() {
			if err := a.bot.Start(ctx); err != nil {
				a.logger.Warn("telegram bot stopped", zap.Error(err))
			}
		}()
	}

	a.logger.Info("minaret service started")
	return a.server.Run(ctx)
}

func (a *App) Shutdown() {
	a.logger.Info("minaret service shutting down")
	a.scheduler.Stop()
	for _, cleanup := range a.cleanupFn {
		if err := cleanup(); err != nil {
			a.logger.Warn("cleanup failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
