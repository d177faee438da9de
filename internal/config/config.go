package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	DefaultDatabaseDSN         = "inkwell.db"
	DefaultAuthSecret          = "dev-secret-key"
	DefaultTokenTTL            = 168 * time.Hour
	DefaultBaseURL             = "localhost:8081"
	DefaultRedisURL            = "redis://localhost:6379/0"
	DefaultCORSOrigin          = "http://localhost:5173"
	DefaultRateLimitPerMin     = 300
	DefaultAuthRateLimitPerMin = 20
)

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

type Config struct {
	// Server-side settings
	DatabaseDSN         string        `env:"DATABASE_URI"`
	AuthSecret          string        `env:"AUTH_SECRET"`
	TokenTTL            time.Duration `env:"TOKEN_TTL"`
	RedisURL            string        `env:"REDIS_URL"`
	OwnerEmail          string        `env:"OWNER_EMAIL"`
	CORSOrigin          string        `env:"CORS_ORIGIN"`
	RateLimitPerMin     int           `env:"RATE_LIMIT_PER_MIN"`
	AuthRateLimitPerMin int           `env:"AUTH_RATE_LIMIT_PER_MIN"`
	LogJSON             bool          `env:"LOG_JSON"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres DSN или путь к SQLite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "срок жизни токена")
	flag.StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "адрес Redis для кеша")
	flag.StringVar(&cfg.OwnerEmail, "owner-email", cfg.OwnerEmail, "email, который при регистрации получает роль OWNER")
	flag.StringVar(&cfg.CORSOrigin, "cors-origin", cfg.CORSOrigin, "разрешённый Origin для CORS")
	flag.IntVar(&cfg.RateLimitPerMin, "rate-limit", cfg.RateLimitPerMin, "запросов в минуту с одного IP")
	flag.IntVar(&cfg.AuthRateLimitPerMin, "auth-rate-limit", cfg.AuthRateLimitPerMin, "попыток входа/регистрации в минуту с одного IP")
	flag.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "JSON-логи (production)")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the Inkwell server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = DefaultDatabaseDSN
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = DefaultAuthSecret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = DefaultRedisURL
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = DefaultCORSOrigin
	}
	if cfg.RateLimitPerMin <= 0 {
		cfg.RateLimitPerMin = DefaultRateLimitPerMin
	}
	if cfg.AuthRateLimitPerMin <= 0 {
		cfg.AuthRateLimitPerMin = DefaultAuthRateLimitPerMin
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	// Fill client defaults if empty
	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir, _ = os.UserHomeDir()
		}
		cfg.TokenFile = filepath.Join(dir, "Inkwell", "auth_token")
	}
}
