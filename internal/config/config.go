package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const defaultPort = "8585"

type Config struct {
	Port         string        `envconfig:"PORT" default:"8585"`
	DBPath       string        `envconfig:"DB_PATH" default:"./meatpoint.db"`
	CookieDomain string        `envconfig:"COOKIE_DOMAIN"`
	CookieSecure bool          `envconfig:"COOKIE_SECURE" default:"false"`
	SessionTTL   time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat    string        `envconfig:"LOG_FORMAT" default:"text"`
	OTLPEndpoint string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string        `envconfig:"SERVICE_NAME" default:"meatpoint"`
	Env          string        `envconfig:"ENV" default:"dev"`

	CSRFKeyB64    string `envconfig:"CSRF_KEY"`
	SessionKeyB64 string `envconfig:"SESSION_KEY"`
	AuthSecretB64 string `envconfig:"AUTH_SECRET"`

	// Decoded from the *B64 fields above.
	CSRFKey    []byte `ignored:"true"`
	SessionKey []byte `ignored:"true"`
	AuthSecret []byte `ignored:"true"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	cfg.CSRFKey = decodeKey("CSRF_KEY", cfg.CSRFKeyB64)
	cfg.SessionKey = decodeKey("SESSION_KEY", cfg.SessionKeyB64)
	cfg.AuthSecret = decodeKey("AUTH_SECRET", cfg.AuthSecretB64)

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", cfg.Port)
		cfg.Port = defaultPort
	}

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// decodeKey decodes a base64 secret of at least 32 bytes. Anything else is
// replaced by a random key that will not survive a restart.
func decodeKey(name, value string) []byte {
	if value == "" {
		slog.Warn(name + " environment variable not set. Generating a random key for development. This key will change on each restart. PLEASE SET " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil || len(decoded) < 32 {
		slog.Warn(name + " is invalid or too short (min 32 bytes). Generating a random key for development. PLEASE SET A SECURE " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	return decoded
}

func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	return b
}
