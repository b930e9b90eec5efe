// Package config loads the server configuration.
//
// LAYERING (later layers override earlier ones):
//
//  1. defaults       → defaultConfig(), loaded through koanf's structs provider
//  2. YAML file      → --config flag, else $FORUM_CONFIG, else ./config.yaml if present
//  3. environment    → FORUM_ prefix, "__" separates sections:
//     FORUM_JWT__SECRET_KEY=...     → jwt.secret_key
//     FORUM_SERVER__PORT=9000       → server.port
//     FORUM_SERVER__CORS_ORIGINS=a,b → server.cors_origins (comma-separated)
//
// WHY "__" AND NOT "_"?
// Key names contain underscores themselves (secret_key, shutdown_timeout), so a
// single underscore cannot tell "section boundary" from "part of the name".
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/sakif/forum-backend/internal/auth"
)

const (
	// EnvPrefix is stripped from every environment variable koanf reads.
	EnvPrefix = "FORUM_"
	// ConfigPathEnvVar names the config file when no --config flag is given.
	ConfigPathEnvVar = "FORUM_CONFIG"
	// DefaultConfigPath is used only if it exists.
	DefaultConfigPath = "config.yaml"
)

// Database drivers. The values are database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
	JWT      JWTConfig      `koanf:"jwt"`
	Auth     AuthConfig     `koanf:"auth"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// JWTConfig holds the HS256 signing key. It is read once at start-up and
// never logged.
type JWTConfig struct {
	SecretKey string `koanf:"secret_key"`
}

// AuthConfig selects the password digest scheme. See auth.NewHasher.
type AuthConfig struct {
	PasswordScheme string `koanf:"password_scheme"`
	BcryptCost     int    `koanf:"bcrypt_cost"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    "forum.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Auth: AuthConfig{
			PasswordScheme: auth.SchemeSHA256,
			BcryptCost:     12,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// and FORUM_* environment variables, then validates it.
//
// An explicit path (argument or $FORUM_CONFIG) that does not exist is an
// error; the implicit ./config.yaml is simply skipped when absent.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: loading defaults: %w", err)
	}

	// Layer 2: config file
	configPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: loading %s: %w", configPath, err)
		}
	}

	// Layer 3: environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	if err := splitSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps FORUM_JWT__SECRET_KEY to jwt.secret_key.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// sliceConfigPaths are list-valued keys that an env var supplies as one
// comma-separated string.
var sliceConfigPaths = []string{"server.cors_origins"}

func splitSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		str, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := make([]string, 0, strings.Count(str, ",")+1)
		for _, p := range strings.Split(str, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("config: setting %s: %w", path, err)
		}
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		return path, nil
	}

	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return DefaultConfigPath, nil
	}
	return "", nil
}

// Validate reports every invalid setting at once. The server refuses to
// start on any of them.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.SecretKey == "" {
		errs = append(errs, errors.New("jwt.secret_key is required (set FORUM_JWT__SECRET_KEY)"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not one of %q, %q",
			c.Database.Driver, DriverSQLite, DriverPostgres))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}

	switch c.Auth.PasswordScheme {
	case auth.SchemeSHA256, auth.SchemeBcrypt:
	default:
		errs = append(errs, fmt.Errorf("auth.password_scheme %q is not one of %q, %q",
			c.Auth.PasswordScheme, auth.SchemeSHA256, auth.SchemeBcrypt))
	}

	if _, err := c.Logging.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not text or json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel parses Level into a slog.Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", l.Level)
	}
}
