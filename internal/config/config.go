package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/harunnryd/planboard/internal/pathutil"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	API     APIConfig     `koanf:"api" yaml:"api"`
	Session SessionConfig `koanf:"session" yaml:"session"`
	Sync    SyncConfig    `koanf:"sync" yaml:"sync"`
	Log     LogConfig     `koanf:"log" yaml:"log"`
}

type APIConfig struct {
	BaseURL string `koanf:"base_url" yaml:"base_url"`
	WSURL   string `koanf:"ws_url" yaml:"ws_url"`
	Timeout string `koanf:"timeout" yaml:"timeout"`
}

type SessionConfig struct {
	Path        string `koanf:"path" yaml:"path"`
	Key         string `koanf:"key" yaml:"key"`
	LockTimeout string `koanf:"lock_timeout" yaml:"lock_timeout"`
	LockRetry   string `koanf:"lock_retry" yaml:"lock_retry"`
}

type SyncConfig struct {
	Reconnect         bool   `koanf:"reconnect" yaml:"reconnect"`
	ReconnectInitial  string `koanf:"reconnect_initial" yaml:"reconnect_initial"`
	ReconnectMax      string `koanf:"reconnect_max" yaml:"reconnect_max"`
	ReconnectAttempts int    `koanf:"reconnect_attempts" yaml:"reconnect_attempts"`
	PollInterval      string `koanf:"poll_interval" yaml:"poll_interval"`
}

type LogConfig struct {
	Level string `koanf:"level" yaml:"level"`
}

const (
	DefaultAPIBaseURL            = "http://localhost:8000"
	DefaultAPIWSURL              = ""
	DefaultAPITimeout            = "15s"
	DefaultSessionKey            = "tekiz-auth"
	DefaultSessionLockTimeout    = "5s"
	DefaultSessionLockRetry      = "50ms"
	DefaultSyncReconnect         = false
	DefaultSyncReconnectInitial  = "1s"
	DefaultSyncReconnectMax      = "30s"
	DefaultSyncReconnectAttempts = 5
	DefaultSyncPollInterval      = "30s"
	DefaultLogLevel              = "info"
)

// Dir returns ~/.planboard.
func Dir() string {
	return filepath.Join(os.Getenv("HOME"), ".planboard")
}

func DefaultSessionPath() string {
	return filepath.Join(Dir(), "session.json")
}

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	// Hardcoded Defaults
	defaults := map[string]interface{}{
		"api.base_url":            DefaultAPIBaseURL,
		"api.ws_url":              DefaultAPIWSURL,
		"api.timeout":             DefaultAPITimeout,
		"session.path":            DefaultSessionPath(),
		"session.key":             DefaultSessionKey,
		"session.lock_timeout":    DefaultSessionLockTimeout,
		"session.lock_retry":      DefaultSessionLockRetry,
		"sync.reconnect":          DefaultSyncReconnect,
		"sync.reconnect_initial":  DefaultSyncReconnectInitial,
		"sync.reconnect_max":      DefaultSyncReconnectMax,
		"sync.reconnect_attempts": DefaultSyncReconnectAttempts,
		"sync.poll_interval":      DefaultSyncPollInterval,
		"log.level":               DefaultLogLevel,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Config file loading
	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		globalPath := filepath.Join(Dir(), "config.yaml")
		if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
			slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
		}
	}

	// Environment Variables
	k.Load(env.Provider("PLANBOARD_", ".", func(s string) string {
		return envKey(strings.TrimPrefix(s, "PLANBOARD_"))
	}), nil)

	// CLI Flags
	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")

	sessionPath, err := expandConfiguredPath(cfg.Session.Path)
	if err != nil {
		return nil, err
	}
	if sessionPath != "" {
		cfg.Session.Path = sessionPath
	}

	return &cfg, nil
}

// envKey turns API_BASE_URL into api.base_url: the first underscore separates
// the section, the rest belong to the field name.
func envKey(s string) string {
	lower := strings.ToLower(s)
	section, field, found := strings.Cut(lower, "_")
	if !found {
		return lower
	}
	return section + "." + field
}

func expandConfiguredPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	expanded, err := pathutil.Expand(trimmed)
	if err != nil {
		return "", err
	}
	return expanded, nil
}
