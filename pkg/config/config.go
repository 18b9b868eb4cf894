package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	API        APIConfig
	Log        LogConfig
	List       ListConfig
	Workers    WorkerConfig
	Breaker    BreakerConfig
	Attachment AttachmentConfig
	Redis      RedisConfig
	Metrics    MetricsConfig
	DevServer  DevServerConfig
}

// APIConfig describes the remote portal API.
type APIConfig struct {
	BaseURL        string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// ListConfig tunes paged list views.
type ListConfig struct {
	DefaultPageSize int
	RowHeight       int
}

// WorkerConfig sizes the pool running network calls off the event loop.
type WorkerConfig struct {
	PoolSize int
}

// BreakerConfig toggles the fail-fast circuit breaker around outbound calls.
type BreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
}

// AttachmentConfig controls lazily fetched attachment content.
type AttachmentConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	DownloadDir  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// MetricsConfig exposes Prometheus metrics when Addr is set.
type MetricsConfig struct {
	Addr string
}

// DevServerConfig configures the sandbox backend.
type DevServerConfig struct {
	Port           int
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL:        strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		ConnectTimeout: parseDuration(v.GetString("API_CONNECT_TIMEOUT"), 10*time.Second),
		RequestTimeout: parseDuration(v.GetString("API_REQUEST_TIMEOUT"), 0),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.List = ListConfig{
		DefaultPageSize: positiveOr(v.GetInt("LIST_DEFAULT_PAGE_SIZE"), 10),
		RowHeight:       positiveOr(v.GetInt("LIST_ROW_HEIGHT"), 28),
	}

	cfg.Workers = WorkerConfig{PoolSize: positiveOr(v.GetInt("WORKER_POOL_SIZE"), 4)}

	cfg.Breaker = BreakerConfig{
		Enabled:          v.GetBool("BREAKER_ENABLED"),
		FailureThreshold: positiveOr(v.GetInt("BREAKER_FAILURE_THRESHOLD"), 5),
		OpenTimeout:      parseDuration(v.GetString("BREAKER_OPEN_TIMEOUT"), 30*time.Second),
	}

	cfg.Attachment = AttachmentConfig{
		CacheEnabled: v.GetBool("ATTACHMENT_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("ATTACHMENT_CACHE_TTL"), 15*time.Minute),
		DownloadDir:  v.GetString("DOWNLOAD_DIR"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Metrics = MetricsConfig{Addr: v.GetString("METRICS_ADDR")}

	cfg.DevServer = DevServerConfig{
		Port:           v.GetInt("DEVSERVER_PORT"),
		JWTSecret:      v.GetString("DEVSERVER_JWT_SECRET"),
		TokenTTL:       parseDuration(v.GetString("DEVSERVER_TOKEN_TTL"), 8*time.Hour),
		AllowedOrigins: splitAndTrim(v.GetString("DEVSERVER_ALLOWED_ORIGINS")),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("API_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("API_CONNECT_TIMEOUT", "10s")
	v.SetDefault("API_REQUEST_TIMEOUT", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("LIST_DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("LIST_ROW_HEIGHT", 28)
	v.SetDefault("WORKER_POOL_SIZE", 4)

	v.SetDefault("BREAKER_ENABLED", false)
	v.SetDefault("BREAKER_FAILURE_THRESHOLD", 5)
	v.SetDefault("BREAKER_OPEN_TIMEOUT", "30s")

	v.SetDefault("ATTACHMENT_CACHE_ENABLED", false)
	v.SetDefault("ATTACHMENT_CACHE_TTL", "15m")
	v.SetDefault("DOWNLOAD_DIR", "./downloads")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("METRICS_ADDR", "")

	v.SetDefault("DEVSERVER_PORT", 8080)
	v.SetDefault("DEVSERVER_JWT_SECRET", "dev_secret")
	v.SetDefault("DEVSERVER_TOKEN_TTL", "8h")
	v.SetDefault("DEVSERVER_ALLOWED_ORIGINS", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
