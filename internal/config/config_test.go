package config

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.VerificationBypass)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("APP_URL", "https://neuralhub.example/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "mailer")
	t.Setenv("SMTP_FROM", "noreply@neuralhub.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "https://neuralhub.example", cfg.AppURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SMTP.Enabled())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")

	_, err := Load()
	assert.ErrorIs(t, err, ErrDevSecretInProduction)
}

func TestLoad_ProductionDisablesVerificationBypass(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("VERIFICATION_BYPASS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.VerificationBypass)
}

func TestLoad_StorageDriver(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "postgres")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("mysql with bad dsn", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mysql")
		t.Setenv("DATABASE_DSN", "not a dsn")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("mysql with valid dsn", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "MySQL")
		t.Setenv("DATABASE_DSN", "user:pass@tcp(db:3306)/neuralhub?parseTime=true")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, StorageMySQL, cfg.StorageDriver)
	})
}

func TestLoad_MySQLDSNAlwaysParsesTime(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
	}{
		{"missing parseTime", "user:pass@tcp(db:3306)/neuralhub"},
		{"parseTime disabled", "user:pass@tcp(db:3306)/neuralhub?parseTime=false&loc=Local"},
		{"already set", "user:pass@tcp(db:3306)/neuralhub?parseTime=true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORAGE_DRIVER", "mysql")
			t.Setenv("DATABASE_DSN", tt.dsn)

			cfg, err := Load()
			require.NoError(t, err)

			mc, err := mysql.ParseDSN(cfg.DatabaseDSN)
			require.NoError(t, err)
			assert.True(t, mc.ParseTime)
			assert.Equal(t, time.UTC, mc.Loc)
			assert.Equal(t, "neuralhub", mc.DBName)
			assert.Equal(t, "db:3306", mc.Addr)
		})
	}
}

func TestLoad_MemoryKeepsDSNUntouched(t *testing.T) {
	t.Setenv("DATABASE_DSN", "user:pass@tcp(db:3306)/neuralhub")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "user:pass@tcp(db:3306)/neuralhub", cfg.DatabaseDSN)
}
