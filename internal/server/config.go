package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/CaioPinho9/space-planner/internal/config"
	"github.com/CaioPinho9/space-planner/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address          string               `yaml:"address"`
	MaxRequestSize   string               `yaml:"maxRequestSize"`
	StatusInterval   string               `yaml:"statusInterval"`
	Logging          config.LoggingConfig `yaml:"logging"`
	requestSizeBytes int64
	statusInterval   time.Duration
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Address:          constants.DefaultServerAddress,
		MaxRequestSize:   fmt.Sprintf("%d", constants.DefaultMaxRequestSizeBytes),
		requestSizeBytes: constants.DefaultMaxRequestSizeBytes,
		statusInterval:   constants.DefaultStatusIntervalMillis * time.Millisecond,
	}
}

// RequestSizeBytes returns the configured request body limit in bytes.
func (c *Config) RequestSizeBytes() int64 {
	return c.requestSizeBytes
}

// StatusIntervalDuration returns how often the stream pushes a status frame.
func (c *Config) StatusIntervalDuration() time.Duration {
	return c.statusInterval
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	c.statusInterval = constants.DefaultStatusIntervalMillis * time.Millisecond
	if s := strings.TrimSpace(c.StatusInterval); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid status interval %q: %w", c.StatusInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("status interval must be positive, got %s", d)
		}
		c.statusInterval = d
	}

	c.requestSizeBytes = constants.DefaultMaxRequestSizeBytes
	if strings.TrimSpace(c.MaxRequestSize) == "" {
		c.MaxRequestSize = fmt.Sprintf("%d", constants.DefaultMaxRequestSizeBytes)
		return nil
	}
	size, err := ParseRequestSize(c.MaxRequestSize)
	if err != nil {
		return err
	}
	c.requestSizeBytes = size
	return nil
}

// ParseRequestSize reads a request body limit given in bytes ("4096") or
// kibibytes ("256K", "256KB"). Start and stream requests carry a quantity map
// at most, so the limit must be positive and no larger than
// constants.MaxRequestSizeBytes.
func ParseRequestSize(value string) (int64, error) {
	num, multiplier := strings.ToUpper(strings.TrimSpace(value)), int64(1)
	for _, suffix := range []string{"KB", "K"} {
		if rest, ok := strings.CutSuffix(num, suffix); ok {
			num, multiplier = strings.TrimSpace(rest), 1024
			break
		}
	}

	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid request size %q: %w", value, err)
	}
	if n <= 0 || n > constants.MaxRequestSizeBytes/multiplier {
		return 0, fmt.Errorf("request size %q must be between 1 and %d bytes", value, constants.MaxRequestSizeBytes)
	}
	return n * multiplier, nil
}
