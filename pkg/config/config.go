// Package config reads Cluetooth database connection settings from the
// environment, with an optional .env file.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults mirror the deployment the schema lives on. The password has no
// default and must be supplied.
const (
	DefaultHost    = "localhost"
	DefaultPort    = 5432
	DefaultUser    = "postgres"
	DefaultDBName  = "cluedb"
	DefaultSSLMode = "disable"
)

// Config holds the connection parameters for the Cluetooth database.
type Config struct {
	URL      string // full DSN; overrides the individual fields when set
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ConfigError reports a missing or invalid connection parameter.
type ConfigError struct {
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Param, e.Reason)
}

// IsConfigError reports whether err is a *ConfigError, unwrapping as needed.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// FromEnv loads a .env file when present and reads the CLUE_* variables.
// CLUE_DATABASE_URL takes precedence over the individual CLUE_DB_* fields.
func FromEnv() (Config, error) {
	godotenv.Load()

	cfg := Config{
		URL:      os.Getenv("CLUE_DATABASE_URL"),
		Host:     envOr("CLUE_DB_HOST", DefaultHost),
		Port:     DefaultPort,
		User:     envOr("CLUE_DB_USER", DefaultUser),
		Password: os.Getenv("CLUE_DB_PASSWORD"),
		DBName:   envOr("CLUE_DB_NAME", DefaultDBName),
		SSLMode:  envOr("CLUE_DB_SSLMODE", DefaultSSLMode),
	}
	if raw := os.Getenv("CLUE_DB_PORT"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p <= 0 || p > 65535 {
			return Config{}, &ConfigError{Param: "CLUE_DB_PORT", Reason: fmt.Sprintf("invalid port %q", raw)}
		}
		cfg.Port = p
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Validate checks that enough parameters are present to build a DSN.
func (c Config) Validate() error {
	if c.URL != "" {
		return nil
	}
	if c.Host == "" {
		return &ConfigError{Param: "CLUE_DB_HOST", Reason: "host is empty"}
	}
	if c.User == "" {
		return &ConfigError{Param: "CLUE_DB_USER", Reason: "user is empty"}
	}
	if c.Password == "" {
		return &ConfigError{Param: "CLUE_DB_PASSWORD", Reason: "required when CLUE_DATABASE_URL is not set"}
	}
	if c.DBName == "" {
		return &ConfigError{Param: "CLUE_DB_NAME", Reason: "database name is empty"}
	}
	return nil
}

// DSN returns the postgres connection string. URL-style DSNs without an
// explicit sslmode get sslmode=disable appended.
func (c Config) DSN() (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if c.URL != "" {
		return withSSLMode(c.URL), nil
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func withSSLMode(dsn string) string {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return dsn
	}
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "sslmode=" + DefaultSSLMode
}

// Addr describes the target without credentials, for error messages.
func (c Config) Addr() string {
	if c.URL != "" {
		if u, err := url.Parse(c.URL); err == nil && u.Host != "" {
			return u.Host + u.Path
		}
		return "database url"
	}
	return fmt.Sprintf("%s:%d/%s", c.Host, c.Port, c.DBName)
}
