package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration

	DatabaseURL    string
	DBMaxConns     int32
	DBMinConns     int32
	DBQueryTimeout time.Duration

	// JWTSecret is fixed for the process lifetime. When JWT_SECRET is unset a
	// random secret is generated and JWTSecretGenerated is true; every restart
	// then invalidates outstanding tokens.
	JWTSecret          string
	JWTSecretGenerated bool
	AccessTokenTTL     time.Duration
	BcryptCost         int

	OpenRegistration bool

	CORSOrigins      []string
	RateLimitRPM     int
	AuthRateLimitRPM int

	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Only enable it behind a proxy that overwrites those headers.
	TrustProxyHeaders bool

	FirstSuperuserEmail    string
	FirstSuperuserPassword string
	FirstSuperuserName     string

	LogLevel slog.Level
	LogColor bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		ServerPort:              env.getString("SERVER_PORT", "8080"),
		ServerReadHeaderTimeout: env.getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      env.getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       env.getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          env.getDuration("REQUEST_TIMEOUT", 30*time.Second),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:              int32(env.getInt("DB_MAX_CONNS", 10)),
		DBMinConns:              int32(env.getInt("DB_MIN_CONNS", 1)),
		DBQueryTimeout:          env.getDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		JWTSecret:               strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AccessTokenTTL:          env.getDuration("ACCESS_TOKEN_TTL", 8*24*time.Hour),
		BcryptCost:              env.getInt("BCRYPT_COST", 12),
		OpenRegistration:        env.getBool("USERS_OPEN_REGISTRATION", true),
		CORSOrigins:             splitCSV(env.getString("CORS_ORIGINS", "*")),
		RateLimitRPM:            env.getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:        env.getInt("AUTH_RATE_LIMIT_RPM", 10),
		TrustProxyHeaders:       env.getBool("TRUST_PROXY_HEADERS", false),
		FirstSuperuserEmail:     strings.TrimSpace(os.Getenv("FIRST_SUPERUSER")),
		FirstSuperuserPassword:  os.Getenv("FIRST_SUPERUSER_PASSWORD"),
		FirstSuperuserName:      env.getString("FIRST_SUPERUSER_NAME", "Administrator"),
		LogLevel:                env.getLevel("LOG_LEVEL", slog.LevelInfo),
		LogColor:                env.getBool("LOG_COLOR", true),
	}

	if err := env.err(); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		secret, err := GenerateSecret()
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
		cfg.JWTSecretGenerated = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}

	if c.DBQueryTimeout <= 0 {
		return fmt.Errorf("DB_QUERY_TIMEOUT must be positive")
	}

	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}

	if c.FirstSuperuserEmail != "" && c.FirstSuperuserPassword == "" {
		return fmt.Errorf("FIRST_SUPERUSER_PASSWORD is required when FIRST_SUPERUSER is set")
	}

	return nil
}

// GenerateSecret returns 32 random bytes encoded as URL-safe base64.
func GenerateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate signing secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// envReader reads typed values from the environment. A set but unparseable
// value is recorded as an error instead of silently taking the fallback.
type envReader struct {
	errs []error
}

func (e *envReader) err() error {
	return errors.Join(e.errs...)
}

func (e *envReader) fail(key string, raw string, want string) {
	e.errs = append(e.errs, fmt.Errorf("%s: %q is not a valid %s", key, raw, want))
}

func (e *envReader) getString(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func (e *envReader) getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		e.fail(key, raw, "integer")
		return fallback
	}

	return v
}

func (e *envReader) getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	switch strings.ToLower(raw) {
	case "1", "t", "true", "yes", "y", "on":
		return true
	case "0", "f", "false", "no", "n", "off":
		return false
	}

	e.fail(key, raw, "boolean")
	return fallback
}

func (e *envReader) getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		e.fail(key, raw, "duration")
		return fallback
	}

	return v
}

func (e *envReader) getLevel(key string, fallback slog.Level) slog.Level {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		e.fail(key, raw, "log level")
		return fallback
	}

	return level
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
