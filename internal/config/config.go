package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

// TimeZone — единая гражданская таймзона всего сервиса.
// Вся арифметика дат и времени ведется в ней, таймзона хоста не используется.
var TimeZone = time.FixedZone("UTC+8", 8*60*60)

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Asia/Taipei"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	BookingService struct {
		URL    string `env:"BOOKING_SERVICE_URL"`
		APIKey string `env:"BOOKING_SERVICE_API_KEY"`
	}

	AuthService struct {
		URL string `env:"AUTH_SERVICE_URL"`
	}

	Scheduler struct {
		PrefetchHorizonDays int           `env:"SCHEDULER_PREFETCH_HORIZON_DAYS" envDefault:"14"`
		ThrottleInterval    time.Duration `env:"SCHEDULER_THROTTLE_INTERVAL" envDefault:"400ms"`
		RateLimitBackoff    time.Duration `env:"SCHEDULER_RATE_LIMIT_BACKOFF" envDefault:"3s"`
		SettleDelay         time.Duration `env:"SCHEDULER_SETTLE_DELAY" envDefault:"750ms"`
		SubmitTimeout       time.Duration `env:"SCHEDULER_SUBMIT_TIMEOUT" envDefault:"15s"`
		DailyQuota          int           `env:"SCHEDULER_DAILY_QUOTA" envDefault:"2"`
		WeeklyQuota         int           `env:"SCHEDULER_WEEKLY_QUOTA" envDefault:"10"`
	}

	Cache struct {
		Enabled bool          `env:"CACHE_ENABLED" envDefault:"true"`
		Size    int           `env:"CACHE_SIZE" envDefault:"10"`
		TTL     time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	// Если таймзона из конфига не загрузилась, остаемся на UTC+8
	if loc, err := time.LoadLocation(cfg.App.Timezone); err == nil {
		TimeZone = loc
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
