package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessTTL)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestFromEnvRejectsDefaultSecretInProd(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestFromEnvS3RequiresBucket(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnvParsesOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("JWT_ACCESS_TTL", "15m")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
}

func TestFromEnvInvalidDuration(t *testing.T) {
	t.Setenv("RESET_TOKEN_TTL", "soon")
	_, err := FromEnv()
	require.Error(t, err)
}
