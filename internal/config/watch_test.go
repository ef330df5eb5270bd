package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
}

// waitFor drains reloads until one satisfies done. Writes can surface
// as several events, the first of which may see a truncated file.
func waitFor(t *testing.T, w *Watcher, done func(*Config) bool) *Config {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-w.Changes():
			if cfg.Render.StatsInterval < 0 {
				t.Fatalf("invalid config delivered: %+v", cfg.Render)
			}
			if done(cfg) {
				return cfg
			}
		case <-timeout:
			t.Fatal("timed out waiting for config reload")
			return nil
		}
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "render:\n  stats_interval: 10\n")

	w, err := Watch(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	writeConfig(t, path, "render:\n  stats_interval: 60\n  pass_order: [texture2d]\n")

	cfg := waitFor(t, w, func(c *Config) bool { return c.Render.StatsInterval == 60 })
	if len(cfg.Render.PassOrder) != 1 || cfg.Render.PassOrder[0] != "texture2d" {
		t.Errorf("unexpected pass order %v", cfg.Render.PassOrder)
	}
	if cfg.Graphics.Width != 1280 {
		t.Errorf("unset fields should keep defaults, got width %d", cfg.Graphics.Width)
	}
}

func TestWatchSkipsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "render:\n  stats_interval: 10\n")

	w, err := Watch(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	writeConfig(t, path, "render:\n  stats_interval: -5\n")
	writeConfig(t, path, "render:\n  stats_interval: 30\n")

	// Only valid contents are ever delivered.
	cfg := waitFor(t, w, func(c *Config) bool { return c.Render.StatsInterval == 30 })
	if cfg.Path != w.path {
		t.Errorf("expected Path %q, got %q", w.path, cfg.Path)
	}
}

func TestWatchIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "render:\n  stats_interval: 10\n")

	w, err := Watch(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	writeConfig(t, filepath.Join(dir, "other.yaml"), "render:\n  stats_interval: 99\n")

	select {
	case cfg := <-w.Changes():
		t.Errorf("unexpected reload: %+v", cfg.Render)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchMissingDir(t *testing.T) {
	if _, err := Watch(filepath.Join(t.TempDir(), "nope", "config.yaml"), zap.NewNop()); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
