package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Environment overrides.
const (
	EnvAPIURL  = "MATCHWATCH_API_URL"
	EnvLogPath = "MATCHWATCH_LOG"
)

const (
	defaultConfigPath = "~/.config/matchwatch/config.toml"
	defaultOverlayDir = "~/.local/share/matchwatch/overlay"
	defaultPoll       = 10 * time.Second
	defaultHideDelay  = 10 * time.Second
)

// Config holds the watcher's settings.
type Config struct {
	// Path is the file the config was read from, also used for settings
	// lookups.
	Path string

	APIURL        string
	LogPath       string
	OverlayDir    string
	OverlayListen string
	PollInterval  time.Duration
	HideDelay     time.Duration
}

type rawConfig struct {
	APIURL           string `toml:"api_url"`
	LogPath          string `toml:"log_path"`
	OverlayDir       string `toml:"overlay_dir"`
	OverlayListen    string `toml:"overlay_listen"`
	PollSeconds      *int   `toml:"poll_seconds"`
	HideDelaySeconds *int   `toml:"hide_delay_seconds"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config at path, falling back to defaults when the file is
// missing. Environment overrides are applied last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Path:         resolved,
		OverlayDir:   mustExpand(defaultOverlayDir),
		PollInterval: defaultPoll,
		HideDelay:    defaultHideDelay,
	}

	raw, err := readRaw(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		applyEnv(&cfg)
		return cfg, nil
	case err != nil:
		return Config{}, err
	}

	cfg.APIURL = strings.TrimSpace(raw.APIURL)
	if p := strings.TrimSpace(raw.LogPath); p != "" {
		cfg.LogPath = mustExpand(p)
	}
	if d := strings.TrimSpace(raw.OverlayDir); d != "" {
		cfg.OverlayDir = mustExpand(d)
	}
	cfg.OverlayListen = strings.TrimSpace(raw.OverlayListen)
	if raw.PollSeconds != nil && *raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(*raw.PollSeconds) * time.Second
	}
	if raw.HideDelaySeconds != nil && *raw.HideDelaySeconds >= 0 {
		cfg.HideDelay = time.Duration(*raw.HideDelaySeconds) * time.Second
	}

	applyEnv(&cfg)
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables already set. A missing file is not an error.
func LoadDotEnv(path string) (bool, error) {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("load %s: %w", path, err)
	}
	return true, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogPath)); v != "" {
		cfg.LogPath = mustExpand(v)
	}
}

func readRaw(path string) (rawConfig, error) {
	var raw rawConfig

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, err
		}
		return raw, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
