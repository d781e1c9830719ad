package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"API_PORT"`
	Env         string   `mapstructure:"ENV"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	MongoURI                 string        `mapstructure:"MONGO_URI"`
	MongoDatabase            string        `mapstructure:"MONGO_DATABASE"`
	DBConnectRetries         int           `mapstructure:"DB_CONNECT_RETRIES"`
	DBConnectBackoff         time.Duration `mapstructure:"DB_CONNECT_BACKOFF"`
	DBServerSelectionTimeout time.Duration `mapstructure:"DB_SERVER_SELECTION_TIMEOUT"`
	DBSocketTimeout          time.Duration `mapstructure:"DB_SOCKET_TIMEOUT"`

	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	JWTTTL     time.Duration `mapstructure:"JWT_TTL"`
	BcryptCost int           `mapstructure:"BCRYPT_COST"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	LogFile   string `mapstructure:"LOG_FILE"`

	// EnforceSlotAvailability turns the availability lookup from advisory
	// into a hard check on appointment create/update.
	EnforceSlotAvailability bool `mapstructure:"ENFORCE_SLOT_AVAILABILITY"`

	EmailEnabled bool   `mapstructure:"EMAIL_ENABLED"`
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`
}

var keys = []string{
	"API_PORT", "ENV", "CORS_ORIGINS",
	"MONGO_URI", "MONGO_DATABASE", "DB_CONNECT_RETRIES", "DB_CONNECT_BACKOFF",
	"DB_SERVER_SELECTION_TIMEOUT", "DB_SOCKET_TIMEOUT",
	"JWT_SECRET", "JWT_TTL", "BCRYPT_COST",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	"ENFORCE_SLOT_AVAILABILITY",
	"EMAIL_ENABLED", "SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MONGO_DATABASE", "dentaclinic")
	v.SetDefault("DB_CONNECT_RETRIES", 3)
	v.SetDefault("DB_CONNECT_BACKOFF", 500*time.Millisecond)
	v.SetDefault("DB_SERVER_SELECTION_TIMEOUT", 5*time.Second)
	v.SetDefault("DB_SOCKET_TIMEOUT", 45*time.Second)
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("ENFORCE_SLOT_AVAILABILITY", false)
	v.SetDefault("EMAIL_ENABLED", false)
	v.SetDefault("SMTP_PORT", 587)
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(strings.Join(cfg.CORSOrigins, ","))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.DBConnectRetries < 1 {
		errs = append(errs, errors.New("DB_CONNECT_RETRIES must be at least 1"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d out of range [4,31]", c.BcryptCost))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
