package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	HTTP     HTTPConfig
	Log      LogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string // development, production, test
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string // postgres or sqlite
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
	Path     string // sqlite file path or ":memory:"
	LogLevel string // silent, error, warn, info
}

// JWTConfig holds token settings
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// CookieConfig holds settings for the auth cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// HTTPConfig holds Fiber server limits
type HTTPConfig struct {
	BodyLimitBytes  int
	RateLimitMax    int
	RateLimitWindow time.Duration
	AllowedOrigins  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// envBindings maps config keys to the environment variable names the
// service has always used.
var envBindings = map[string][]string{
	"app.name":                       {"APP_NAME"},
	"app.env":                        {"APP_ENV"},
	"app.port":                       {"PORT"},
	"database.driver":                {"DB_DRIVER"},
	"database.host":                  {"DB_HOST"},
	"database.port":                  {"DB_PORT"},
	"database.user":                  {"DB_USER"},
	"database.password":              {"DB_PASSWORD"},
	"database.name":                  {"DB_NAME"},
	"database.sslmode":               {"DB_SSLMODE"},
	"database.timezone":              {"DB_TIMEZONE"},
	"database.path":                  {"DB_PATH"},
	"database.log_level":             {"DB_LOG_LEVEL"},
	"jwt.secret":                     {"JWT_SECRET_KEY", "JWT_SECRET"},
	"jwt.expiration_hours":           {"JWT_EXPIRATION_HOURS"},
	"cookie.name":                    {"COOKIE_NAME"},
	"cookie.secure":                  {"COOKIE_SECURE"},
	"http.body_limit_bytes":          {"BODY_LIMIT_BYTES"},
	"http.body_limit_mb":             {"BODY_LIMIT_MB"},
	"http.rate_limit_max":            {"RATE_LIMIT_MAX"},
	"http.rate_limit_window_seconds": {"RATE_LIMIT_WINDOW_SECONDS"},
	"http.allowed_origins":           {"ALLOWED_ORIGINS"},
	"log.level":                      {"LOG_LEVEL"},
	"log.format":                     {"LOG_FORMAT"},
	"log.output":                     {"LOG_OUTPUT"},
}

// Load reads configuration. Priority (highest to lowest):
// 1. Environment variables (a .env file is loaded into the environment first)
// 2. config.toml in the working directory
// 3. Built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	setDefaults(v)
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	// BODY_LIMIT_BYTES wins over BODY_LIMIT_MB.
	bodyLimit := v.GetInt("http.body_limit_bytes")
	if bodyLimit <= 0 {
		bodyLimit = v.GetInt("http.body_limit_mb") * 1024 * 1024
	}

	env := strings.ToLower(strings.TrimSpace(v.GetString("app.env")))
	cookieSecure := v.GetBool("cookie.secure")
	if !v.IsSet("cookie.secure") && env == "production" {
		cookieSecure = true
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  env,
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("database.driver")),
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Name:     v.GetString("database.name"),
			SSLMode:  v.GetString("database.sslmode"),
			TimeZone: v.GetString("database.timezone"),
			Path:     v.GetString("database.path"),
			LogLevel: v.GetString("database.log_level"),
		},
		JWT: JWTConfig{
			Secret:     strings.TrimSpace(v.GetString("jwt.secret")),
			Expiration: time.Duration(v.GetInt("jwt.expiration_hours")) * time.Hour,
		},
		Cookie: CookieConfig{
			Name:   v.GetString("cookie.name"),
			Secure: cookieSecure,
		},
		HTTP: HTTPConfig{
			BodyLimitBytes:  bodyLimit,
			RateLimitMax:    v.GetInt("http.rate_limit_max"),
			RateLimitWindow: time.Duration(v.GetInt("http.rate_limit_window_seconds")) * time.Second,
			AllowedOrigins:  v.GetString("http.allowed_origins"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "invoicing-backend")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.path", "invoicing.db")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("jwt.expiration_hours", 24*7)

	v.SetDefault("cookie.name", "token")

	v.SetDefault("http.body_limit_mb", 4)
	v.SetDefault("http.rate_limit_max", 60)
	v.SetDefault("http.rate_limit_window_seconds", 60)
	v.SetDefault("http.allowed_origins", "*")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
}

// Validate checks settings the service cannot start without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT secret not configured (set JWT_SECRET_KEY or JWT_SECRET)")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("JWT expiration must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone)
}
