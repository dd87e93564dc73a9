package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds the whole application configuration. Values come from three
// layers: built-in defaults, an optional yaml config file, and environment
// variables, each layer overriding the one before it.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Store   StoreConfig   `koanf:"store"`
	Auth    AuthConfig    `koanf:"auth"`
	Logging LoggingConfig `koanf:"logging"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`
}

// StoreConfig selects the document store backend. "badger" keeps documents
// in an embedded database under Path; "postgres" keeps them in the
// database the DSN points at; "memory" keeps nothing at all.
type StoreConfig struct {
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
	DSN     string `koanf:"dsn"`
}

type AuthConfig struct {
	Secret     string        `koanf:"secret"`
	Pepper     string        `koanf:"pepper"`
	AccessTTL  time.Duration `koanf:"access_ttl"`
	RefreshTTL time.Duration `koanf:"refresh_ttl"`
}

type LoggingConfig struct {
	Level string `koanf:"level"`
}

// Addr returns the listen address of the server.
func (sc ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", sc.Host, sc.Port)
}

// IsProd reports whether the app runs in production mode.
func (c Config) IsProd() bool {
	return c.Server.Env == "prod"
}

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/musicee/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "MUSICEE_CONFIG"

// DefaultConfig returns the dev setup the server starts with when nothing
// else is configured.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 1111,
			Env:  "dev",
		},
		Store: StoreConfig{
			Backend: "badger",
			Path:    "musicee.db",
			DSN:     "",
		},
		Auth: AuthConfig{
			Secret:     "secret-hmac-key",
			Pepper:     "secret-random-string",
			AccessTTL:  30 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads the configuration: defaults first, then the config
// file if there is one, then MUSICEE_* environment variables. In
// production a missing explicit secret is an error, never a default.
func LoadConfig() (Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load config defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("MUSICEE_", ".", envTransformFunc), nil); err != nil {
		return Config{}, fmt.Errorf("load config from env: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if c.IsProd() && c.Auth.Secret == DefaultConfig().Auth.Secret {
		return Config{}, fmt.Errorf("refusing to run in prod with the default auth secret")
	}
	return c, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps MUSICEE_* environment variable names to config
// paths. Unknown variables are dropped so random environment noise can't
// leak into the config.
func envTransformFunc(key string) string {
	mappings := map[string]string{
		"musicee_host":             "server.host",
		"musicee_port":             "server.port",
		"musicee_env":              "server.env",
		"musicee_store_backend":    "store.backend",
		"musicee_store_path":       "store.path",
		"musicee_store_dsn":        "store.dsn",
		"musicee_auth_secret":      "auth.secret",
		"musicee_auth_pepper":      "auth.pepper",
		"musicee_auth_access_ttl":  "auth.access_ttl",
		"musicee_auth_refresh_ttl": "auth.refresh_ttl",
		"musicee_log_level":        "logging.level",
	}
	if mapped, ok := mappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
