package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from the environment.
// It is built once at startup and treated as read-only afterwards.
type Config struct {
	AppEnv      string
	LogLevel    string
	ServerPort  string
	SwaggerHost string
	ResetDB     bool
	// PublicURL is the externally reachable origin used in emailed links.
	PublicURL   string

	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Mail     MailConfig
}

// DatabaseConfig selects the gorm dialector and its DSN.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// RedisConfig configures the fail-safe cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig configures session tokens and password resets.
type AuthConfig struct {
	JWTSecret        string
	JWTExpire        time.Duration
	CookieExpireDays int
	ResetTokenTTL    time.Duration
}

// MailConfig configures outbound email. An empty Host selects the log sender.
type MailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	Retries   int
}

// Load builds Config from an optional .env file plus the process environment.
func Load() *Config {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		AppEnv:      v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		ServerPort:  v.GetString("SERVER_PORT"),
		SwaggerHost: v.GetString("SWAGGER_HOST"),
		ResetDB:     v.GetBool("RESET_DB"),
		PublicURL:   v.GetString("PUBLIC_URL"),
		Database: DatabaseConfig{
			Driver: v.GetString("DB_DRIVER"),
			DSN:    v.GetString("DB_DSN"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret:        v.GetString("JWT_SECRET"),
			JWTExpire:        v.GetDuration("JWT_EXPIRE"),
			CookieExpireDays: v.GetInt("JWT_COOKIE_EXPIRE_DAYS"),
			ResetTokenTTL:    v.GetDuration("RESET_TOKEN_TTL"),
		},
		Mail: MailConfig{
			Host:      v.GetString("SMTP_HOST"),
			Port:      v.GetInt("SMTP_PORT"),
			Username:  v.GetString("SMTP_USERNAME"),
			Password:  v.GetString("SMTP_PASSWORD"),
			FromEmail: v.GetString("FROM_EMAIL"),
			FromName:  v.GetString("FROM_NAME"),
			Retries:   v.GetInt("MAIL_RETRIES"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("RESET_DB", false)
	v.SetDefault("PUBLIC_URL", "http://localhost:8080")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_DSN", "user:password@tcp(localhost:3306)/marketplace?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_EXPIRE", 30*24*time.Hour)
	v.SetDefault("JWT_COOKIE_EXPIRE_DAYS", 30)
	v.SetDefault("RESET_TOKEN_TTL", 10*time.Minute)
	v.SetDefault("SMTP_PORT", 2525)
	v.SetDefault("FROM_EMAIL", "noreply@marketplace.local")
	v.SetDefault("FROM_NAME", "Marketplace")
	v.SetDefault("MAIL_RETRIES", 2)
}

// CookieExpiry returns the lifetime of the token cookie.
func (a AuthConfig) CookieExpiry() time.Duration {
	return time.Duration(a.CookieExpireDays) * 24 * time.Hour
}
