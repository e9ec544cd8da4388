package cli

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/calloutgen/pkg/errors"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", "calloutgen")},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", "calloutgen")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestLoadConfigFromUserDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("os.UserConfigDir honours XDG_CONFIG_HOME only on linux")
	}
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	c := New(io.Discard, log.InfoLevel)

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() without a file: %v", err)
	}
	if cfg.Render.Scale != 2 {
		t.Fatalf("default render scale = %v, want 2", cfg.Render.Scale)
	}

	dir := filepath.Join(cfgHome, "calloutgen")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[render]\nscale = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Render.Scale != 3 {
		t.Errorf("render scale = %v, want 3 from %s", cfg.Render.Scale, path)
	}

	if err := os.WriteFile(path, []byte("[render\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.loadConfig(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("loadConfig(malformed) error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}
