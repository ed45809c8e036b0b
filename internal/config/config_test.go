package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"SERVER_PORT", "REQUEST_TIMEOUT", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"DB_QUERY_TIMEOUT", "JWT_SECRET", "ACCESS_TOKEN_TTL", "BCRYPT_COST",
		"USERS_OPEN_REGISTRATION", "CORS_ORIGINS", "FIRST_SUPERUSER", "FIRST_SUPERUSER_PASSWORD",
		"LOG_LEVEL", "LOG_COLOR", "TRUST_PROXY_HEADERS", "RATE_LIMIT_RPM",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.ServerPort)
	require.Equal(t, 8*24*time.Hour, cfg.AccessTokenTTL)
	require.True(t, cfg.OpenRegistration)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel)
	require.Empty(t, cfg.DatabaseURL)
}

func TestLoad_GeneratesSecretWhenUnset(t *testing.T) {
	clearEnv(t)

	first, err := Load()
	require.NoError(t, err)
	require.True(t, first.JWTSecretGenerated)
	require.Len(t, first.JWTSecret, 43)

	second, err := Load()
	require.NoError(t, err)
	require.NotEqual(t, first.JWTSecret, second.JWTSecret)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("USERS_OPEN_REGISTRATION", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_MAX_CONNS", "20")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "from-env", cfg.JWTSecret)
	require.False(t, cfg.JWTSecretGenerated)
	require.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	require.False(t, cfg.OpenRegistration)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel)
	require.Equal(t, int32(20), cfg.DBMaxConns)
	require.False(t, cfg.TrustProxyHeaders)
}

func TestLoad_RegistrationFlagSpellings(t *testing.T) {
	cases := map[string]bool{
		"false": false,
		"0":     false,
		"off":   false,
		"no":    false,
		"OFF":   false,
		"true":  true,
		"on":    true,
		"yes":   true,
	}

	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("USERS_OPEN_REGISTRATION", raw)

			cfg, err := Load()
			require.NoError(t, err)
			require.Equal(t, want, cfg.OpenRegistration)
		})
	}
}

func TestLoad_RejectsUnparseableValues(t *testing.T) {
	cases := map[string]string{
		"USERS_OPEN_REGISTRATION": "disabled",
		"ACCESS_TOKEN_TTL":        "8d",
		"DB_MAX_CONNS":            "not-a-number",
		"LOG_LEVEL":               "loud",
		"TRUST_PROXY_HEADERS":     "maybe",
	}

	for key, raw := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, raw)

			cfg, err := Load()
			require.Error(t, err)
			require.Nil(t, cfg)
			require.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_ReportsEveryBadValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("USERS_OPEN_REGISTRATION", "disabled")
	t.Setenv("RATE_LIMIT_RPM", "lots")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "USERS_OPEN_REGISTRATION")
	require.Contains(t, err.Error(), "RATE_LIMIT_RPM")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ServerPort:     "8080",
			RequestTimeout: time.Second,
			JWTSecret:      "secret",
			AccessTokenTTL: time.Hour,
			DBQueryTimeout: time.Second,
			DBMaxConns:     4,
			DBMinConns:     1,
		}
	}

	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"empty secret":       func(c *Config) { c.JWTSecret = " " },
		"empty port":         func(c *Config) { c.ServerPort = "" },
		"zero ttl":           func(c *Config) { c.AccessTokenTTL = 0 },
		"zero query timeout": func(c *Config) { c.DBQueryTimeout = 0 },
		"min above max":      func(c *Config) { c.DBMinConns = 5 },
		"superuser no pass":  func(c *Config) { c.FirstSuperuserEmail = "root@example.com" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
