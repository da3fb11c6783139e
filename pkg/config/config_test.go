package config_test

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/saunabooking/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "sauna_booking", cfg.Database.Database)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.OTEL.Enabled)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("ACCESS_TOKEN_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
}

func TestLoad_RejectsInvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestTrustedProxies(t *testing.T) {
	t.Run("none by default", func(t *testing.T) {
		cfg, err := config.Load()
		require.NoError(t, err)
		nets, err := cfg.Server.TrustedProxyNets()
		require.NoError(t, err)
		assert.Empty(t, nets)
	})

	t.Run("cidrs and bare addresses", func(t *testing.T) {
		t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.10")

		cfg, err := config.Load()
		require.NoError(t, err)
		nets, err := cfg.Server.TrustedProxyNets()
		require.NoError(t, err)
		require.Len(t, nets, 2)
		assert.True(t, nets[0].Contains(net.ParseIP("10.1.2.3")))
		assert.True(t, nets[1].Contains(net.ParseIP("192.0.2.10")))
		assert.False(t, nets[1].Contains(net.ParseIP("192.0.2.11")))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		t.Setenv("TRUSTED_PROXIES", "proxy.internal")

		_, err := config.Load()
		assert.Error(t, err)
	})
}

func TestDatabaseDSN(t *testing.T) {
	db := config.DatabaseConfig{
		Host: "localhost", Port: 5432, User: "postgres", Password: "secret",
		Database: "sauna_booking", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=sauna_booking sslmode=disable",
		db.DatabaseDSN(),
	)
}
