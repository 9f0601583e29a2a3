package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"deckboard/internal/database"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "DECKBOARD"

type OAuthClient struct {
	ClientID     string
	ClientSecret string
}

type Config struct {
	HTTPAddress    string
	HTTPMode       string
	Database       database.Config
	JWTSecret      string
	TokenTTL       time.Duration
	RedisURL       string
	CacheTTL       time.Duration
	LogLevel       string
	AuditSchedule  string
	AllowedOrigins []string
	OAuthRedirect  string
	OAuth          map[string]OAuthClient
}

// LoadDotEnv reads .env style files into the process environment. Missing
// files are ignored; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func NewViper() *viper.Viper {
	v := viper.New()
	ApplyDefaults(v)
	return v
}

// ApplyDefaults sets defaults and binds DECKBOARD_* environment variables,
// e.g. DECKBOARD_DATABASE_DSN for database.dsn.
func ApplyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// an empty DECKBOARD_AUDIT_SCHEDULE disables the audit
	v.AllowEmptyEnv(true)

	v.SetDefault("http.address", ":8080")
	v.SetDefault("http.mode", "release")
	v.SetDefault("database.driver", database.DriverSQLite)
	v.SetDefault("database.path", "deckboard.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.migrate", true)
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("log.level", "info")
	v.SetDefault("audit.schedule", "@every 15m")
	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("oauth.redirect_url", "http://localhost:8080/auth/callback")

	for _, key := range []string{"database.dsn", "auth.jwt_secret", "redis.url"} {
		_ = v.BindEnv(key)
	}
	for _, provider := range []string{"google", "github", "apple"} {
		_ = v.BindEnv("oauth." + provider + ".client_id")
		_ = v.BindEnv("oauth." + provider + ".client_secret")
	}
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTPAddress: v.GetString("http.address"),
		HTTPMode:    v.GetString("http.mode"),
		Database: database.Config{
			Driver:          strings.ToLower(v.GetString("database.driver")),
			DSN:             v.GetString("database.dsn"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			Migrate:         v.GetBool("database.migrate"),
		},
		JWTSecret:      v.GetString("auth.jwt_secret"),
		TokenTTL:       v.GetDuration("auth.token_ttl"),
		RedisURL:       v.GetString("redis.url"),
		CacheTTL:       v.GetDuration("cache.ttl"),
		LogLevel:       v.GetString("log.level"),
		AuditSchedule:  strings.TrimSpace(v.GetString("audit.schedule")),
		AllowedOrigins: splitList(v.GetStringSlice("cors.allowed_origins")),
		OAuthRedirect:  v.GetString("oauth.redirect_url"),
		OAuth:          make(map[string]OAuthClient),
	}
	for _, provider := range []string{"google", "github", "apple"} {
		client := OAuthClient{
			ClientID:     v.GetString("oauth." + provider + ".client_id"),
			ClientSecret: v.GetString("oauth." + provider + ".client_secret"),
		}
		if client.ClientID != "" {
			cfg.OAuth[provider] = client
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// splitList accepts both YAML lists and a comma separated env value.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	switch c.Database.Driver {
	case database.DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	case database.DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", database.DriverPostgres, database.DriverSQLite, c.Database.Driver)
	}
	if c.HTTPAddress == "" {
		return fmt.Errorf("http.address is required")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	return nil
}
