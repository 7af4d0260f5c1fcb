package config

import (
	"errors"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultBaseURL         = "http://127.0.0.1:8420"
	defaultWaitingInterval = 2 * time.Second
	defaultIdleInterval    = 10 * time.Second
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Polling PollingConfig `toml:"polling"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
}

type ServerConfig struct {
	BaseURL   string `toml:"base_url"`
	TokenPath string `toml:"token_path"`
}

type PollingConfig struct {
	WaitingIntervalMS int `toml:"waiting_interval_ms"`
	IdleIntervalMS    int `toml:"idle_interval_ms"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type UIConfig struct {
	InputMinHeight int `toml:"input_min_height"`
	InputMaxHeight int `toml:"input_max_height"`
}

func Default() Config {
	return Config{
		Server:  ServerConfig{BaseURL: defaultBaseURL},
		Logging: LoggingConfig{Level: "info"},
		UI:      UIConfig{InputMinHeight: 3, InputMaxHeight: 8},
	}
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return loadFromPath(path)
}

func loadFromPath(path string) (Config, error) {
	cfg := Default()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

func (c Config) BaseURL() string {
	url := strings.TrimSpace(c.Server.BaseURL)
	if url == "" {
		return defaultBaseURL
	}
	return strings.TrimRight(url, "/")
}

// ResolveToken reads the bearer token from the configured token path,
// falling back to the default location. A missing token file is not an
// error; unauthenticated backends are allowed.
func (c Config) ResolveToken() (string, error) {
	path := strings.TrimSpace(c.Server.TokenPath)
	if path == "" {
		var err error
		path, err = TokenPath()
		if err != nil {
			return "", err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (c Config) WaitingInterval() time.Duration {
	if c.Polling.WaitingIntervalMS <= 0 {
		return defaultWaitingInterval
	}
	return time.Duration(c.Polling.WaitingIntervalMS) * time.Millisecond
}

func (c Config) IdleInterval() time.Duration {
	interval := defaultIdleInterval
	if c.Polling.IdleIntervalMS > 0 {
		interval = time.Duration(c.Polling.IdleIntervalMS) * time.Millisecond
	}
	if waiting := c.WaitingInterval(); interval < waiting {
		interval = waiting
	}
	return interval
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (c Config) InputHeights() (minHeight, maxHeight int) {
	minHeight = c.UI.InputMinHeight
	maxHeight = c.UI.InputMaxHeight
	if minHeight <= 0 {
		minHeight = 3
	}
	if maxHeight <= 0 {
		maxHeight = 8
	}
	if maxHeight < minHeight {
		maxHeight = minHeight
	}
	return minHeight, maxHeight
}
