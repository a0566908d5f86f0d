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
	Env  string
	Port int

	Backend BackendConfig
	Session SessionConfig
	Log     LogConfig
	Metrics MetricsConfig
}

// BackendConfig locates the REST backend holding the records.
type BackendConfig struct {
	BaseURL     string
	Timeout     time.Duration
	TeacherPath string
	StudentPath string
}

// SessionConfig governs browser session lifetime in the admin shell.
type SessionConfig struct {
	CookieName    string
	TTL           time.Duration
	SweepInterval time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
	Path    string
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Backend = BackendConfig{
		BaseURL:     strings.TrimRight(v.GetString("BACKEND_URL"), "/"),
		Timeout:     parseDuration(v.GetString("BACKEND_TIMEOUT"), 10*time.Second),
		TeacherPath: normalizePath(v.GetString("TEACHER_PATH")),
		StudentPath: normalizePath(v.GetString("STUDENT_PATH")),
	}

	cfg.Session = SessionConfig{
		CookieName:    v.GetString("SESSION_COOKIE"),
		TTL:           parseDuration(v.GetString("SESSION_TTL"), 30*time.Minute),
		SweepInterval: parseDuration(v.GetString("SESSION_SWEEP_INTERVAL"), time.Minute),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
		Path:    v.GetString("METRICS_PATH"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("BACKEND_URL", "http://localhost:3000")
	v.SetDefault("BACKEND_TIMEOUT", "10s")
	v.SetDefault("TEACHER_PATH", "/teacher")
	v.SetDefault("STUDENT_PATH", "/name")

	v.SetDefault("SESSION_COOKIE", "admin_session")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "1m")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("METRICS_PATH", "/metrics")
}

// isMissingFile covers viper returning the raw fs error for an explicit
// config file path that does not exist.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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

func normalizePath(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}
