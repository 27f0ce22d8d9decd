package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, "http://localhost:8080", cfg.APIURL)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 3000, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, 4*time.Hour, cfg.CartTTL)
	require.Equal(t, 587, cfg.EmailPort)
	require.Empty(t, cfg.EmailHost)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("API_URL", "https://api.veriport.example")
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "8443")
	t.Setenv("CART_TTL", "90m")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "30")
	t.Setenv("EMAIL_HOST", "smtp.veriport.example")
	t.Setenv("EMAIL_SECURE", "true")

	cfg := LoadConfig()

	require.Equal(t, "https://api.veriport.example", cfg.APIURL)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, 8443, cfg.Port)
	require.Equal(t, 90*time.Minute, cfg.CartTTL)

	// Bare integers are read as minutes.
	require.Equal(t, 30*time.Minute, cfg.ShutdownGracePeriod)

	require.Equal(t, "smtp.veriport.example", cfg.EmailHost)
	require.True(t, cfg.EmailSecure)
}

func TestSecureCookies(t *testing.T) {
	require.False(t, Config{Env: "dev"}.SecureCookies())
	require.True(t, Config{Env: "staging"}.SecureCookies())
	require.True(t, Config{Env: "prod"}.SecureCookies())
}
