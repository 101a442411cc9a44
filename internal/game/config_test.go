package game

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Title != "Shattercrown" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Shattercrown")
	}
	if cfg.TargetFPS != 60 {
		t.Errorf("TargetFPS = %d, want 60", cfg.TargetFPS)
	}
	if cfg.FogRadius != 5 {
		t.Errorf("FogRadius = %d, want 5", cfg.FogRadius)
	}
	if cfg.WeightedPaths {
		t.Error("WeightedPaths = true, want false by default")
	}
	if cfg.SaveBackend != BackendFile {
		t.Errorf("SaveBackend = %q, want %q", cfg.SaveBackend, BackendFile)
	}
	if cfg.Seed != 0 {
		t.Errorf("Seed = %d, want 0", cfg.Seed)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SHATTERCROWN_TARGET_FPS", "30")
	t.Setenv("SHATTERCROWN_WEIGHTED_PATHS", "true")
	t.Setenv("SHATTERCROWN_SEED", "12345")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.TargetFPS != 30 {
		t.Errorf("TargetFPS = %d, want 30", cfg.TargetFPS)
	}
	if !cfg.WeightedPaths {
		t.Error("WeightedPaths = false, want true")
	}
	if cfg.Seed != 12345 {
		t.Errorf("Seed = %d, want 12345", cfg.Seed)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shattercrown.yaml")
	yaml := "title: Test Realm\nmap_width: 48\nmap_height: 32\nfog_radius: 3\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig(%q) error: %v", path, err)
	}

	if cfg.Title != "Test Realm" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Test Realm")
	}
	if cfg.MapWidth != 48 || cfg.MapHeight != 32 {
		t.Errorf("Map size = %dx%d, want 48x32", cfg.MapWidth, cfg.MapHeight)
	}
	// Unset keys keep their defaults
	if cfg.TargetFPS != 60 {
		t.Errorf("TargetFPS = %d, want 60", cfg.TargetFPS)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig with missing explicit file succeeded, want error")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHATTERCROWN_TARGET_FPS", "0"},
		{"SHATTERCROWN_FOG_RADIUS", "-1"},
		{"SHATTERCROWN_MAP_WIDTH", "4"},
		{"SHATTERCROWN_TILE_SIZE", "0"},
		{"SHATTERCROWN_SAVE_BACKEND", "redis"},
	}

	for _, tt := range tests {
		t.Setenv(tt.key, tt.value)
		if _, err := LoadConfig(""); err == nil {
			t.Errorf("LoadConfig with %s=%s succeeded, want error", tt.key, tt.value)
		}
		os.Unsetenv(tt.key)
	}
}

func TestLoadConfigPostgresRequiresDSN(t *testing.T) {
	t.Setenv("SHATTERCROWN_SAVE_BACKEND", "postgres")

	if _, err := LoadConfig(""); err == nil {
		t.Error("LoadConfig with postgres backend and no DSN succeeded, want error")
	}

	t.Setenv("SHATTERCROWN_POSTGRES_DSN", "postgres://localhost/shattercrown?sslmode=disable")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.SaveBackend != BackendPostgres {
		t.Errorf("SaveBackend = %q, want %q", cfg.SaveBackend, BackendPostgres)
	}
}
