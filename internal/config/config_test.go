package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Stats.GapSeconds != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := writeConfig(t, `
[stats]
gap-seconds = 900
windows = [5, 50]
curve-window = 12
timezone = "UTC"

[log]
level = "debug"

[categories]
"333" = "3x3"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Stats.GapSeconds == nil || *cfg.Stats.GapSeconds != 900 {
		t.Fatalf("unexpected gap %v", cfg.Stats.GapSeconds)
	}
	if len(cfg.Stats.Windows) != 2 || cfg.Stats.Windows[1] != 50 {
		t.Fatalf("unexpected windows %v", cfg.Stats.Windows)
	}
	if cfg.Stats.CurveWindow == nil || *cfg.Stats.CurveWindow != 12 {
		t.Fatalf("unexpected curve window %v", cfg.Stats.CurveWindow)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level %v", cfg.Log.Level)
	}
	if cfg.Categories["333"] != "3x3" {
		t.Fatalf("unexpected categories %v", cfg.Categories)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"gap":      "[stats]\ngap-seconds = 0\n",
		"windows":  "[stats]\nwindows = [5, 0]\n",
		"timezone": "[stats]\ntimezone = \"Nowhere/City\"\n",
		"unknown":  "[stats]\ngap = 5\n",
		"syntax":   "[stats\n",
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestDefaultConfigPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	want := filepath.Join(dir, "cubestats", "config.toml")
	if got := DefaultConfigPath(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
