package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the client.
type Config struct {
	App      AppConfig
	API      APIConfig
	Storage  StorageConfig
	Logger   LoggerConfig
	Session  SessionConfig
	Messages MessagesConfig
	FakeAPI  FakeAPIConfig
	Metrics  MetricsConfig
}

// AppConfig controls the local web shell.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// APIConfig describes the remote job board API.
type APIConfig struct {
	Origin               string
	TokenPath            string
	ClientTimeoutSeconds int
}

// StorageConfig selects and configures the durable key-value backend.
type StorageConfig struct {
	Driver         string
	Path           string
	Secret         string
	PostgresDSN    string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SessionConfig tunes session state behavior.
type SessionConfig struct {
	EagerExpiryLogout bool
}

// MessagesConfig selects the error-code message table.
type MessagesConfig struct {
	Locale string
	Path   string
}

// FakeAPIConfig enables the development backend.
type FakeAPIConfig struct {
	Enabled bool
	Host    string
	Port    string
	Secret  string
}

// MetricsConfig toggles optional exporters.
type MetricsConfig struct {
	OTelEnabled bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "jobit-client"),
			Env:     getEnv("APP_ENV", "development"),
			Host:    getEnv("APP_HOST", "127.0.0.1"),
			Port:    getEnv("APP_PORT", "5173"),
			Version: getEnv("APP_VERSION", "dev"),

			RequestTimeoutSeconds: getEnvAsInt("APP_REQUEST_TIMEOUT_SECONDS", 0),
		},
		API: APIConfig{
			Origin:               strings.TrimRight(getEnv("API_ORIGIN", "http://127.0.0.1:8000"), "/"),
			TokenPath:            getEnv("API_TOKEN_PATH", "/auth/token"),
			ClientTimeoutSeconds: getEnvAsInt("HTTP_CLIENT_TIMEOUT_SECONDS", 0),
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(getEnv("STORAGE_DRIVER", "file")),
			Path:           getEnv("STORAGE_PATH", "jobit-session.json"),
			Secret:         os.Getenv("STORAGE_SECRET"),
			PostgresDSN:    os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 4)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			RedisAddr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			RedisPassword:  os.Getenv("REDIS_PASSWORD"),
			RedisDB:        redisDB,
			RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "jobit:"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Session: SessionConfig{
			EagerExpiryLogout: getEnvAsBool("SESSION_EAGER_EXPIRY_LOGOUT", true),
		},
		Messages: MessagesConfig{
			Locale: getEnv("MESSAGES_LOCALE", "es"),
			Path:   os.Getenv("MESSAGES_PATH"),
		},
		FakeAPI: FakeAPIConfig{
			Enabled: getEnvAsBool("FAKE_API_ENABLED", false),
			Host:    getEnv("FAKE_API_HOST", "127.0.0.1"),
			Port:    getEnv("FAKE_API_PORT", "8000"),
			Secret:  getEnv("FAKE_API_SECRET", "dev-secret"),
		},
		Metrics: MetricsConfig{
			OTelEnabled: getEnvAsBool("METRICS_OTEL_ENABLED", false),
		},
	}

	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr returns the HTTP bind address of the shell.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout bounds each shell request. Zero disables the bound.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Addr returns the HTTP bind address of the fake API.
func (f FakeAPIConfig) Addr() string {
	return fmt.Sprintf("%s:%s", f.Host, f.Port)
}

// ClientTimeout returns the configured gateway timeout. Zero keeps the transport default.
func (a APIConfig) ClientTimeout() time.Duration {
	if a.ClientTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.ClientTimeoutSeconds) * time.Second
}

// TokenURL returns the absolute URL of the token endpoint.
func (a APIConfig) TokenURL() string {
	return a.Origin + "/" + strings.TrimLeft(a.TokenPath, "/")
}

func (a APIConfig) validate() error {
	u, err := url.Parse(a.Origin)
	if err != nil {
		return fmt.Errorf("invalid API_ORIGIN: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_ORIGIN %q: scheme and host required", a.Origin)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
