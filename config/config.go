package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

type ServerConfig struct {
	Addr         string        `envconfig:"ADDR" default:":8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"45s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
}

// ChatConfig configures the completion API. An empty APIKey disables /chat
// but is not a startup error.
type ChatConfig struct {
	APIKey  string        `envconfig:"API_KEY"`
	APIURL  string        `envconfig:"API_URL" default:"https://api.openai.com"`
	Model   string        `envconfig:"MODEL" default:"gpt-3.5-turbo"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// RatesConfig configures the mortgage rate provider. An empty APIKey selects
// the static default rates.
type RatesConfig struct {
	APIKey  string        `envconfig:"KEY"`
	APIURL  string        `envconfig:"URL" default:"https://api.api-ninjas.com"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

// RateLimitConfig sets per-client request budgets per Window. MaxRequests
// guards /chat; the loan endpoints are recomputed on every input change and
// get the larger CalculateMaxRequests.
type RateLimitConfig struct {
	MaxRequests          int           `envconfig:"MAX_REQUESTS" default:"5"`
	CalculateMaxRequests int           `envconfig:"CALCULATE_MAX_REQUESTS" default:"600"`
	Window               time.Duration `envconfig:"WINDOW" default:"1m"`
	CleanupSchedule      string        `envconfig:"CLEANUP_SCHEDULE" default:"@every 30m"`
}

type CacheConfig struct {
	Driver string        `envconfig:"DRIVER" default:"memory"`
	TTL    time.Duration `envconfig:"TTL" default:"1h"`
}

type RedisConfig struct {
	Addr     string `envconfig:"ADDR" default:"localhost:6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
	Prefix   string `envconfig:"PREFIX" default:"mortgage-agent:"`
}

// StorageConfig selects the calculation log backend. An empty SQLitePath
// keeps the log in memory.
type StorageConfig struct {
	SQLitePath  string `envconfig:"SQLITE_PATH"`
	MemoryLimit int    `envconfig:"MEMORY_LIMIT" default:"1000"`
}

type LogConfig struct {
	Level      string `envconfig:"LEVEL" default:"info"`
	Format     string `envconfig:"FORMAT" default:"text"`
	Prefix     string `envconfig:"PREFIX" default:"mortgage-agent"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
}

type App struct {
	Env       string          `envconfig:"APP_ENV" default:"development"`
	Server    ServerConfig    `envconfig:"SERVER"`
	Chat      ChatConfig      `envconfig:"OPENAI"`
	Rates     RatesConfig     `envconfig:"API_NINJAS"`
	RateLimit RateLimitConfig `envconfig:"RATE_LIMIT"`
	Cache     CacheConfig     `envconfig:"CACHE"`
	Redis     RedisConfig     `envconfig:"REDIS"`
	Storage   StorageConfig   `envconfig:"STORAGE"`
	Log       LogConfig       `envconfig:"LOG"`
}

// Load reads the first env file found in envFiles (or .env when none are
// given) and then processes the environment. Missing files are not errors.
func Load(envFiles ...string) (*App, error) {
	logger := slog.Default()

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	loaded := false
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			logger.Debug("Environment file not found", "path", path)
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger.Warn("Failed to load environment file", "path", path, "error", err)
			continue
		}
		logger.Debug("Loaded environment file", "path", path)
		loaded = true
		break
	}
	if !loaded {
		logger.Debug("No .env file found, using system environment variables")
	}

	return FromEnv()
}

// FromEnv processes the current environment only.
func FromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *App) Validate() error {
	switch c.Cache.Driver {
	case CacheDriverMemory, CacheDriverRedis:
	default:
		return fmt.Errorf("CACHE_DRIVER must be %q or %q, got %q", CacheDriverMemory, CacheDriverRedis, c.Cache.Driver)
	}
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be positive")
	}
	if c.RateLimit.CalculateMaxRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_CALCULATE_MAX_REQUESTS must be positive")
	}
	if c.Storage.MemoryLimit <= 0 {
		return fmt.Errorf("STORAGE_MEMORY_LIMIT must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// LogAttrs summarizes the configuration for a startup log line. Secrets are
// masked.
func (c *App) LogAttrs() []any {
	return []any{
		"env", c.Env,
		"addr", c.Server.Addr,
		"openai_api_key", MaskValue(c.Chat.APIKey),
		"openai_model", c.Chat.Model,
		"rates_api_url", c.Rates.APIURL,
		"rates_api_key", MaskValue(c.Rates.APIKey),
		"rate_limit_max_requests", c.RateLimit.MaxRequests,
		"rate_limit_calculate_max_requests", c.RateLimit.CalculateMaxRequests,
		"rate_limit_window", c.RateLimit.Window,
		"cache_driver", c.Cache.Driver,
		"cache_ttl", c.Cache.TTL,
		"sqlite_path", c.Storage.SQLitePath,
	}
}

func MaskValue(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
