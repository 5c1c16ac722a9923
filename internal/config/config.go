package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

const devJWTSecret = "dev-secret-change-in-production"

// Storage drivers.
const (
	StorageMemory = "memory"
	StorageMySQL  = "mysql"
)

var ErrDevSecretInProduction = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port     string
	Env      string
	LogLevel string
	AppURL   string

	StorageDriver string
	DatabaseDSN   string

	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	RedisAddr     string
	RedisPassword string

	SMTP SMTPConfig

	CORSAllowedOrigins []string
	AuthRateLimit      float64
	AuthRateBurst      int

	SeedSampleData     bool
	VerificationBypass bool
}

// SMTPConfig holds outbound mail settings. Mail is only sent when Enabled reports true.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Enabled reports whether enough settings are present to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.User != "" && c.From != ""
}

// IsProduction reports whether the service runs with ENV=production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from the environment, falling back to development defaults.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_URL", "http://localhost:3000")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/neuralhub?parseTime=true")
	v.SetDefault("JWT_SECRET", devJWTSecret)
	v.SetDefault("JWT_EXPIRY", 7*24*time.Hour)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("AUTH_RATE_LIMIT", 5)
	v.SetDefault("AUTH_RATE_BURST", 10)
	v.SetDefault("SEED_SAMPLE_DATA", false)
	v.SetDefault("VERIFICATION_BYPASS", true)

	cfg := Config{
		Port:          v.GetString("PORT"),
		Env:           v.GetString("ENV"),
		LogLevel:      strings.ToLower(v.GetString("LOG_LEVEL")),
		AppURL:        strings.TrimRight(v.GetString("APP_URL"), "/"),
		StorageDriver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DatabaseDSN:   v.GetString("DATABASE_DSN"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTExpiry:     v.GetDuration("JWT_EXPIRY"),
		BcryptCost:    v.GetInt("BCRYPT_COST"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		SMTP: SMTPConfig{
			Host: v.GetString("SMTP_HOST"),
			Port: v.GetInt("SMTP_PORT"),
			User: v.GetString("SMTP_USER"),
			Pass: v.GetString("SMTP_PASS"),
			From: v.GetString("SMTP_FROM"),
		},
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		AuthRateLimit:      v.GetFloat64("AUTH_RATE_LIMIT"),
		AuthRateBurst:      v.GetInt("AUTH_RATE_BURST"),
		SeedSampleData:     v.GetBool("SEED_SAMPLE_DATA"),
		VerificationBypass: v.GetBool("VERIFICATION_BYPASS"),
	}

	// The manual verification shortcut never runs in production.
	if cfg.IsProduction() {
		cfg.VerificationBypass = false
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	if cfg.StorageDriver == StorageMySQL {
		dsn, err := normalizeDSN(cfg.DatabaseDSN)
		if err != nil {
			return Config{}, err
		}
		cfg.DatabaseDSN = dsn
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.IsProduction() && c.JWTSecret == devJWTSecret {
		return ErrDevSecretInProduction
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWTExpiry)
	}
	switch c.StorageDriver {
	case StorageMemory:
	case StorageMySQL:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

// normalizeDSN makes the driver scan DATETIME columns into time.Time in UTC,
// whatever the operator wrote in DATABASE_DSN.
func normalizeDSN(dsn string) (string, error) {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_DSN: %w", err)
	}
	mc.ParseTime = true
	mc.Loc = time.UTC
	return mc.FormatDSN(), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
