package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/database"
)

// Config is built once at startup and handed to constructors. Nothing below
// cmd/ reads the environment directly.
type Config struct {
	Port             string
	DatabaseURL      string
	DatabaseTimeZone string
	// DatabaseEncoding is applied as the postgres client_encoding when set.
	DatabaseEncoding string
	JWTSecret        []byte
	AdminEmail       string
	TokenTTL         time.Duration
	BcryptCost       int
	LoginRateLimit   int
	LoginRateWindow  time.Duration
	CORSOrigins      []string
	// SnowflakeNode identifies this instance in generated record IDs.
	SnowflakeNode    int64
}

// Defaults used when the optional variables are unset.
const (
	DefaultPort            = "5000"
	DefaultTokenTTL        = 5 * time.Hour
	DefaultBcryptCost      = 10
	DefaultLoginRateLimit  = 5
	DefaultLoginRateWindow = 15 * time.Minute
	DefaultSnowflakeNode   = 1

	maxSnowflakeNode = 1023
)

var ErrMissing = errors.New("missing required environment variable")

// Load reads the process environment.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := Config{
		Port:             get("PORT"),
		DatabaseURL:      get("DATABASE_URL"),
		DatabaseTimeZone: get("DATABASE_TIMEZONE"),
		DatabaseEncoding: get("DATABASE_CLIENT_ENCODING"),
		JWTSecret:        []byte(get("JWT_SECRET")),
		AdminEmail:       get("ADMIN_EMAIL"),
		TokenTTL:         DefaultTokenTTL,
		BcryptCost:       DefaultBcryptCost,
		LoginRateLimit:   DefaultLoginRateLimit,
		LoginRateWindow:  DefaultLoginRateWindow,
		SnowflakeNode:    DefaultSnowflakeNode,
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(cfg.JWTSecret) == 0 {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.AdminEmail == "" {
		missing = append(missing, "ADMIN_EMAIL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}

	var err error
	if v := get("TOKEN_TTL"); v != "" {
		if cfg.TokenTTL, err = parsePositiveDuration("TOKEN_TTL", v); err != nil {
			return Config{}, err
		}
	}
	if v := get("LOGIN_RATE_WINDOW"); v != "" {
		if cfg.LoginRateWindow, err = parsePositiveDuration("LOGIN_RATE_WINDOW", v); err != nil {
			return Config{}, err
		}
	}
	if v := get("LOGIN_RATE_LIMIT"); v != "" {
		if cfg.LoginRateLimit, err = parsePositiveInt("LOGIN_RATE_LIMIT", v); err != nil {
			return Config{}, err
		}
	}
	if v := get("BCRYPT_COST"); v != "" {
		if cfg.BcryptCost, err = parsePositiveInt("BCRYPT_COST", v); err != nil {
			return Config{}, err
		}
	}
	if v := get("SNOWFLAKE_NODE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 || n > maxSnowflakeNode {
			return Config{}, fmt.Errorf("SNOWFLAKE_NODE: must be between 0 and %d, got %q", maxSnowflakeNode, v)
		}
		cfg.SnowflakeNode = n
	}
	if v := get("CORS_ALLOWED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	return cfg, nil
}

// Database returns the connection settings for database.Connect.
func (c Config) Database() database.Config {
	return database.Config{
		DSN:            c.DatabaseURL,
		MaxConns:       5,
		Timeout:        5 * time.Second,
		TimeZone:       c.DatabaseTimeZone,
		ClientEncoding: c.DatabaseEncoding,
	}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

func parsePositiveDuration(key, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func parsePositiveInt(key, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return n, nil
}
