package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Deployer.Path != DefaultDeployerBinary {
		t.Errorf("Deployer.Path = %q, want %q", cfg.Deployer.Path, DefaultDeployerBinary)
	}
	if cfg.Deployer.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("Deployer.TimeoutSeconds = %d, want %d", cfg.Deployer.TimeoutSeconds, DefaultTimeoutSeconds)
	}
	if cfg.Dirs.ROMs != DefaultROMsDir {
		t.Errorf("Dirs.ROMs = %q, want %q", cfg.Dirs.ROMs, DefaultROMsDir)
	}
	if cfg.Remote.MenuPath != DefaultMenuPath {
		t.Errorf("Remote.MenuPath = %q, want %q", cfg.Remote.MenuPath, DefaultMenuPath)
	}
	if cfg.Remote.MusicPath != DefaultMusicPath {
		t.Errorf("Remote.MusicPath = %q, want %q", cfg.Remote.MusicPath, DefaultMusicPath)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true")
	}
	if cfg.History.RetentionDays != DefaultHistoryRetentionDays {
		t.Errorf("History.RetentionDays = %d, want %d", cfg.History.RetentionDays, DefaultHistoryRetentionDays)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "breeze")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `
deployer:
  path: /opt/sc64/sc64deployer
  timeout_seconds: 30
dirs:
  roms: /data/n64/roms
remote:
  menu_path: /custom_menu.n64
history:
  enabled: false
  retention_days: 7
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Deployer.Path != "/opt/sc64/sc64deployer" {
		t.Errorf("Deployer.Path = %q, want /opt/sc64/sc64deployer", cfg.Deployer.Path)
	}
	if cfg.Deployer.TimeoutSeconds != 30 {
		t.Errorf("Deployer.TimeoutSeconds = %d, want 30", cfg.Deployer.TimeoutSeconds)
	}
	if cfg.Dirs.ROMs != "/data/n64/roms" {
		t.Errorf("Dirs.ROMs = %q, want /data/n64/roms", cfg.Dirs.ROMs)
	}
	if cfg.Remote.MenuPath != "/custom_menu.n64" {
		t.Errorf("Remote.MenuPath = %q, want /custom_menu.n64", cfg.Remote.MenuPath)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	// Unset keys keep their defaults.
	if cfg.Dirs.MenuVersions != DefaultMenuVersionsDir {
		t.Errorf("Dirs.MenuVersions = %q, want %q", cfg.Dirs.MenuVersions, DefaultMenuVersionsDir)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("BREEZE_DEPLOYER_PATH", "/env/sc64deployer")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Deployer.Path != "/env/sc64deployer" {
		t.Errorf("Deployer.Path = %q, want /env/sc64deployer", cfg.Deployer.Path)
	}
}

func TestLoad_TildeExpansion(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "breeze")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := "history:\n  path: ~/journal\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := filepath.Join(tempDir, "journal")
	if cfg.History.Path != want {
		t.Errorf("History.Path = %q, want %q", cfg.History.Path, want)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("respects XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/xdg")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}
		if dir != "/custom/xdg/breeze" {
			t.Errorf("ConfigDir() = %q, want /custom/xdg/breeze", dir)
		}
	})

	t.Run("falls back to ~/.config", func(t *testing.T) {
		tempDir := t.TempDir()
		t.Setenv("HOME", tempDir)
		t.Setenv("XDG_CONFIG_HOME", "")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}
		want := filepath.Join(tempDir, ".config", "breeze")
		if dir != want {
			t.Errorf("ConfigDir() = %q, want %q", dir, want)
		}
	})
}

func TestWriteDefault(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	if err := WriteDefault(); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	configPath := filepath.Join(tempDir, ".config", "breeze", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("config file is empty")
	}

	// A second call must not clobber an existing file.
	if err := os.WriteFile(configPath, []byte("deployer:\n  path: keep\n"), 0o644); err != nil {
		t.Fatalf("failed to overwrite config: %v", err)
	}
	if err := WriteDefault(); err != nil {
		t.Fatalf("WriteDefault() second call error = %v", err)
	}
	data, err = os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to re-read config: %v", err)
	}
	if string(data) != "deployer:\n  path: keep\n" {
		t.Error("WriteDefault() overwrote an existing config file")
	}
}

func TestExpandPath(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)

	got, err := ExpandPath("~/roms")
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}
	if got != filepath.Join(tempDir, "roms") {
		t.Errorf("ExpandPath() = %q", got)
	}

	got, err = ExpandPath("/absolute/roms")
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}
	if got != "/absolute/roms" {
		t.Errorf("ExpandPath() = %q, want /absolute/roms", got)
	}
}
