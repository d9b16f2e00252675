package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1400 {
		t.Errorf("expected width 1400, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if cfg.Graphics.FPSLimit != 60 {
		t.Errorf("expected fps limit 60, got %d", cfg.Graphics.FPSLimit)
	}

	// Test shadow defaults
	if cfg.Shadow.LightFov != 30 || cfg.Shadow.Near != 1 || cfg.Shadow.Far != 100 {
		t.Errorf("expected light frustum 30/1/100, got %v/%v/%v", cfg.Shadow.LightFov, cfg.Shadow.Near, cfg.Shadow.Far)
	}
	if !cfg.Shadow.CullFront {
		t.Error("expected front-face culling in the depth pass by default")
	}

	// Test camera input defaults
	if cfg.Scene.ScrollStep != 0.2 {
		t.Errorf("expected scroll step 0.2, got %v", cfg.Scene.ScrollStep)
	}
	if cfg.Scene.DragDivisor != 10 {
		t.Errorf("expected drag divisor 10, got %v", cfg.Scene.DragDivisor)
	}
	if cfg.Scene.MaxDragRadians != 0.5 {
		t.Errorf("expected max drag 0.5, got %v", cfg.Scene.MaxDragRadians)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

shadow:
  width: 2048
  height: 2048
  cull_front: false
  dump_dir: "dumps"

scene:
  path: "scenes/cube.json"
  scroll_step: 0.5

logging:
  level: "debug"
  log_file: "penumbra.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Graphics.FPSLimit)
	}

	if cfg.Shadow.Width != 2048 || cfg.Shadow.Height != 2048 {
		t.Errorf("expected shadow 2048x2048, got %dx%d", cfg.Shadow.Width, cfg.Shadow.Height)
	}
	if cfg.Shadow.CullFront {
		t.Error("expected cull_front to be false")
	}
	if cfg.Shadow.Far != 100 {
		t.Errorf("unset keys keep their defaults, got far %v", cfg.Shadow.Far)
	}

	if cfg.Scene.Path != "scenes/cube.json" {
		t.Errorf("expected scene path, got %s", cfg.Scene.Path)
	}
	if cfg.Scene.ScrollStep != 0.5 {
		t.Errorf("expected scroll step 0.5, got %v", cfg.Scene.ScrollStep)
	}
	if cfg.Scene.DragDivisor != 10 {
		t.Errorf("expected default drag divisor, got %v", cfg.Scene.DragDivisor)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "penumbra.log" {
		t.Errorf("expected log file 'penumbra.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("shadow:\n  cull_frnot: false\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := loadFromFile(Default(), path); err == nil {
		t.Error("expected error for misspelt key, got nil")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("empty file should leave defaults: %v", err)
	}
	if cfg.Graphics.Width != 1400 {
		t.Errorf("width: got %d, want default 1400", cfg.Graphics.Width)
	}
}

func TestResolveConfigPathEnv(t *testing.T) {
	if ConfigPath() != "" {
		t.Skip("-config flag set")
	}
	t.Setenv(EnvConfigPath, "/tmp/penumbra-env.yaml")
	if got := resolveConfigPath(); got != "/tmp/penumbra-env.yaml" {
		t.Errorf("resolveConfigPath: got %q", got)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "scene flag",
			setup: func() { *flagScene = "room.yaml" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Path != "room.yaml" {
					t.Errorf("expected scene room.yaml, got %s", cfg.Scene.Path)
				}
			},
			teardown: func() { *flagScene = "" },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "dump-shadows flag",
			setup: func() { *flagDumpShadows = "out" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Shadow.DumpDir != "out" || !cfg.Shadow.DumpOnce {
					t.Errorf("expected dump to out on start, got %q %v", cfg.Shadow.DumpDir, cfg.Shadow.DumpOnce)
				}
			},
			teardown: func() { *flagDumpShadows = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 1000
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	// Height should be from file since no flag override
	if cfg.Graphics.Height != 1000 {
		t.Errorf("expected height 1000 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("shadow:\n  near: 5\n  far: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }},
		{"negative fps", func(c *Config) { c.Graphics.FPSLimit = -1 }},
		{"negative shadow size", func(c *Config) { c.Shadow.Height = -2 }},
		{"flat fov", func(c *Config) { c.Shadow.LightFov = 180 }},
		{"zero near", func(c *Config) { c.Shadow.Near = 0 }},
		{"zero drag divisor", func(c *Config) { c.Scene.DragDivisor = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestShadowSize(t *testing.T) {
	cfg := Default()
	if w, h := cfg.ShadowSize(1400, 900); w != 1400 || h != 900 {
		t.Errorf("unset shadow size should follow the window, got %dx%d", w, h)
	}
	cfg.Shadow.Width, cfg.Shadow.Height = 1024, 512
	if w, h := cfg.ShadowSize(1400, 900); w != 1024 || h != 512 {
		t.Errorf("explicit shadow size: got %dx%d", w, h)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Scene.Path = "saved.json"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Scene.Path != "saved.json" || loaded.Shadow.CullFront != cfg.Shadow.CullFront {
		t.Errorf("round trip lost settings: %+v", loaded.Scene)
	}
}

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile with no path: %v", err)
	}
	if cfg.Graphics.Width != 1400 {
		t.Errorf("expected defaults, got width %d", cfg.Graphics.Width)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("graphics:\n  fps_limit: 30\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg, err = LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Graphics.FPSLimit != 30 {
		t.Errorf("expected fps limit 30, got %d", cfg.Graphics.FPSLimit)
	}
}
