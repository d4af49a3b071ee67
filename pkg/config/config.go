package config

import (
	"errors"
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

	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	Kiosk   KioskConfig
	Export  ExportConfig
	Log     LogConfig
}

// APIConfig describes how to reach the attendance backend.
type APIConfig struct {
	BaseURL        string
	Timeout        time.Duration
	PageSize       int
	SearchDebounce time.Duration
}

// SessionConfig controls credential storage.
type SessionConfig struct {
	// Store selects the credential backend: "file" or "redis".
	Store          string
	CredentialFile string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// KioskConfig tunes the attendance terminal loop.
type KioskConfig struct {
	TerminalID      string
	CaptureInterval time.Duration
	MatchThreshold  float64
	MetricsAddr     string
}

// ExportConfig sets where list exports land.
type ExportConfig struct {
	OutputDir string
}

type LogConfig struct {
	Level  string
	Format string
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL:        strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout:        parseDuration(v.GetString("API_TIMEOUT"), 15*time.Second),
		PageSize:       v.GetInt("API_PAGE_SIZE"),
		SearchDebounce: parseDuration(v.GetString("API_SEARCH_DEBOUNCE"), 500*time.Millisecond),
	}
	if cfg.API.PageSize <= 0 {
		cfg.API.PageSize = 5
	}

	cfg.Session = SessionConfig{
		Store:          v.GetString("SESSION_STORE"),
		CredentialFile: v.GetString("SESSION_CREDENTIAL_FILE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Kiosk = KioskConfig{
		TerminalID:      v.GetString("KIOSK_TERMINAL_ID"),
		CaptureInterval: parseDuration(v.GetString("KIOSK_CAPTURE_INTERVAL"), 2*time.Second),
		MatchThreshold:  v.GetFloat64("KIOSK_MATCH_THRESHOLD"),
		MetricsAddr:     v.GetString("KIOSK_METRICS_ADDR"),
	}

	cfg.Export = ExportConfig{OutputDir: v.GetString("EXPORT_OUTPUT_DIR")}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("API_TIMEOUT", "15s")
	v.SetDefault("API_PAGE_SIZE", 5)
	v.SetDefault("API_SEARCH_DEBOUNCE", "500ms")

	v.SetDefault("SESSION_STORE", "file")
	v.SetDefault("SESSION_CREDENTIAL_FILE", ".attendance-session.json")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("KIOSK_TERMINAL_ID", "kiosk-1")
	v.SetDefault("KIOSK_CAPTURE_INTERVAL", "2s")
	v.SetDefault("KIOSK_MATCH_THRESHOLD", 0.6)
	v.SetDefault("KIOSK_METRICS_ADDR", ":9091")

	v.SetDefault("EXPORT_OUTPUT_DIR", "./exports")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
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
