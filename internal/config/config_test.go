package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
}

func TestLoadConfig(t *testing.T) {
	setRequired(t)
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "portfolio_test")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,,")
	t.Setenv("API_PREFIX", "api/")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	require.Equal(t, "portfolio_test", cfg.MongoDB.Database)
	require.Equal(t, "/api", cfg.Server.APIPrefix)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, 24*time.Hour, cfg.JWT.TokenTTL)
	require.Equal(t, "admin@example.com", cfg.SMTP.Recipient)
}

func TestLoadConfig_RequiresSecretAndAdmin(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfig()
	require.Error(t, err)

	setRequired(t)
	t.Setenv("ADMIN_PASSWORD", "")
	_, err = LoadConfig()
	require.Error(t, err)
}
