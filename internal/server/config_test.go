package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CaioPinho9/space-planner/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.RequestSizeBytes() != constants.DefaultMaxRequestSizeBytes {
		t.Fatalf("expected default request limit, got %d", cfg.RequestSizeBytes())
	}
	if cfg.StatusIntervalDuration() != time.Second {
		t.Fatalf("expected one second status interval, got %s", cfg.StatusIntervalDuration())
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	contents := []byte(`address: 127.0.0.1:9000
maxRequestSize: 64K
statusInterval: 250ms
logging:
  level: debug
  format: console
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.RequestSizeBytes() != 64*1024 {
		t.Fatalf("expected request limit override, got %d", cfg.RequestSizeBytes())
	}
	if cfg.StatusIntervalDuration() != 250*time.Millisecond {
		t.Fatalf("expected status interval override, got %s", cfg.StatusIntervalDuration())
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging section %+v", cfg.Logging)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"bad size":      "maxRequestSize: invalid",
		"bad interval":  "statusInterval: soon",
		"zero interval": "statusInterval: 0s",
		"bad yaml":      "address: [unterminated",
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("expected error but got nil")
			}
		})
	}
}

func TestLoadConfigEmptyRequestSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	if err := os.WriteFile(path, []byte("maxRequestSize: \"\"\n"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.RequestSizeBytes() != constants.DefaultMaxRequestSizeBytes {
		t.Fatalf("expected default request limit, got %d", cfg.RequestSizeBytes())
	}
}

func TestParseRequestSize(t *testing.T) {
	tests := map[string]int64{
		"1024":      1024,
		"256K":      256 * 1024,
		"16kb":      16 * 1024,
		"8 KB":      8 * 1024,
		"1024K":     constants.MaxRequestSizeBytes,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseRequestSize(input)
		if err != nil {
			t.Fatalf("ParseRequestSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("ParseRequestSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	for _, input := range []string{"", "abc", "0", "-5K", "1025K", "2M", "1G", "512b"} {
		if _, err := ParseRequestSize(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}
