package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/handsomefox/movie-explorer/internal/media"
)

const (
	DefaultServerURL = "http://localhost:8080"
	defaultTimeout   = 15 * time.Second
)

type Client struct {
	Server struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"server"`
	Images struct {
		Base string `yaml:"base"`
	} `yaml:"images"`
	Logging struct {
		Level string `yaml:"level"`
		Path  string `yaml:"path"`
	} `yaml:"logging"`
}

func DefaultClient() *Client {
	cfg := &Client{}
	cfg.Server.URL = DefaultServerURL
	cfg.Server.Timeout = defaultTimeout
	cfg.Images.Base = media.DefaultBase
	cfg.Logging.Level = "info"
	return cfg
}

func ClientConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "movie-explorer", "config.yaml"), nil
}

// LoadClient reads the YAML file at path over the defaults. A missing file
// is not an error.
func LoadClient(path string) (*Client, error) {
	cfg := DefaultClient()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveClient writes cfg to path, creating parent directories.
func SaveClient(path string, cfg *Client) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Client) validate() error {
	c.Server.URL = strings.TrimRight(strings.TrimSpace(c.Server.URL), "/")
	if c.Server.URL == "" {
		c.Server.URL = DefaultServerURL
	}
	if c.Server.Timeout <= 0 {
		c.Server.Timeout = defaultTimeout
	}
	if strings.TrimSpace(c.Images.Base) == "" {
		c.Images.Base = media.DefaultBase
	}
	if !strings.HasPrefix(c.Server.URL, "http://") && !strings.HasPrefix(c.Server.URL, "https://") {
		return fmt.Errorf("server.url must be an http(s) url, got %q", c.Server.URL)
	}
	return nil
}
