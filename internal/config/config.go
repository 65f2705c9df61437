package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	ListenAddr     string   `env:"LISTEN_ADDR,default=:8080"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS,default=*"`

	Latitude        string `env:"LATITUDE,required"`
	Longitude       string `env:"LONGITUDE,required"`
	Method          int    `env:"CALCULATION_METHOD,default=2"`
	School          int    `env:"ASR_SCHOOL,default=0"`
	HijriAdjustment int    `env:"HIJRI_ADJUSTMENT,default=0"`

	AladhanBaseURL string        `env:"ALADHAN_BASE_URL,default=https://api.aladhan.com/v1"`
	AladhanTimeout time.Duration `env:"ALADHAN_TIMEOUT,default=10s"`

	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisUsername    string        `env:"REDIS_USERNAME"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisScheduleTTL time.Duration `env:"REDIS_SCHEDULE_TTL,default=48h"`

	DBHost            string        `env:"DB_HOST"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `env:"TELEGRAM_CHAT_ID"`

	EvalInterval         time.Duration `env:"EVAL_INTERVAL,default=20s"`
	CountdownInterval    time.Duration `env:"COUNTDOWN_INTERVAL,default=1s"`
	AzanWindow           time.Duration `env:"AZAN_WINDOW,default=60s"`
	SehriLead            time.Duration `env:"SEHRI_LEAD,default=10m"`
	SehriWindow          time.Duration `env:"SEHRI_WINDOW,default=60s"`
	CacheBreakerCooldown time.Duration `env:"CACHE_BREAKER_COOLDOWN,default=2m"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
}

// RedisEnabled reports whether a redis schedule cache is configured;
// without it the process-local cache is used.
func (c Config) RedisEnabled() bool { return c.RedisAddr != "" }

// DBEnabled reports whether firing records are persisted to postgres;
// without it they live in memory and die with the process.
func (c Config) DBEnabled() bool { return c.DBHost != "" }

// TelegramEnabled reports whether the telegram sink is configured.
func (c Config) TelegramEnabled() bool { return c.TelegramBotToken != "" && c.TelegramChatID != 0 }

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
