package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"ANKISHO_APP_NAME":          os.Getenv("ANKISHO_APP_NAME"),
		"ANKISHO_APP_ENV":           os.Getenv("ANKISHO_APP_ENV"),
		"ANKISHO_APP_PORT":          os.Getenv("ANKISHO_APP_PORT"),
		"ANKISHO_DATABASE_HOST":     os.Getenv("ANKISHO_DATABASE_HOST"),
		"ANKISHO_DATABASE_PORT":     os.Getenv("ANKISHO_DATABASE_PORT"),
		"ANKISHO_DATABASE_USER":     os.Getenv("ANKISHO_DATABASE_USER"),
		"ANKISHO_DATABASE_PASSWORD": os.Getenv("ANKISHO_DATABASE_PASSWORD"),
		"ANKISHO_DATABASE_DBNAME":   os.Getenv("ANKISHO_DATABASE_DBNAME"),
		"ANKISHO_DATABASE_SSLMODE":  os.Getenv("ANKISHO_DATABASE_SSLMODE"),
		"ANKISHO_JWT_SECRET":        os.Getenv("ANKISHO_JWT_SECRET"),
		"ANKISHO_LOCK_BACKEND":      os.Getenv("ANKISHO_LOCK_BACKEND"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "ankisho-billing", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "ankisho", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "memory", cfg.Lock.Backend)
		assert.Equal(t, 30*time.Second, cfg.Lock.TTL)
		assert.Equal(t, time.Minute, cfg.Scheduler.CheckInterval)
		assert.Equal(t, 24*time.Hour, cfg.JWT.TokenExpiration)
	})

	t.Run("loads values from environment variables with ANKISHO prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("ANKISHO_APP_NAME", "test-app")
		os.Setenv("ANKISHO_APP_PORT", "9000")
		os.Setenv("ANKISHO_DATABASE_HOST", "testdb.local")
		os.Setenv("ANKISHO_DATABASE_PORT", "5433")
		os.Setenv("ANKISHO_DATABASE_USER", "testuser")
		os.Setenv("ANKISHO_DATABASE_PASSWORD", "testpass")
		os.Setenv("ANKISHO_DATABASE_DBNAME", "testdb")
		os.Setenv("ANKISHO_DATABASE_SSLMODE", "require")
		os.Setenv("ANKISHO_LOCK_BACKEND", "redis")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, "redis", cfg.Lock.Backend)
	})

	t.Run("production requires jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("ANKISHO_APP_ENV", "production")
		os.Setenv("ANKISHO_DATABASE_PASSWORD", "prodpass")
		os.Setenv("ANKISHO_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("production rejects short jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("ANKISHO_APP_ENV", "production")
		os.Setenv("ANKISHO_JWT_SECRET", "short")
		os.Setenv("ANKISHO_DATABASE_PASSWORD", "prodpass")
		os.Setenv("ANKISHO_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 characters")
	})

	t.Run("production rejects sslmode disable", func(t *testing.T) {
		clearEnv()
		os.Setenv("ANKISHO_APP_ENV", "production")
		os.Setenv("ANKISHO_JWT_SECRET", "a-very-long-secret-key-for-testing-only!")
		os.Setenv("ANKISHO_DATABASE_PASSWORD", "prodpass")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("rejects unknown lock backend", func(t *testing.T) {
		clearEnv()
		os.Setenv("ANKISHO_LOCK_BACKEND", "zookeeper")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lock.backend")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.local",
		Port:     5432,
		User:     "app",
		Password: "p@ss:word/1",
		DBName:   "ankisho",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.local:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped.
	assert.NotContains(t, dsn, "p@ss:word/1")
}
