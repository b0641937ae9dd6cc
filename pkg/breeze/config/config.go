// Package config loads breeze configuration from file, environment,
// and defaults using viper, with XDG directory conventions.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// DeployerConfig configures the external deployer binary.
type DeployerConfig struct {
	Path           string `mapstructure:"path"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// DirsConfig locates the local candidate directories.
type DirsConfig struct {
	ROMs         string `mapstructure:"roms"`
	MenuVersions string `mapstructure:"menu_versions"`
	MenuMusic    string `mapstructure:"menu_music"`
}

// RemoteConfig holds the well-known SD card paths.
type RemoteConfig struct {
	MenuPath  string `mapstructure:"menu_path"`
	MusicPath string `mapstructure:"music_path"`
}

// HistoryConfig configures the operation journal.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// Config represents the application configuration.
type Config struct {
	Deployer DeployerConfig `mapstructure:"deployer"`
	Dirs     DirsConfig     `mapstructure:"dirs"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	History  HistoryConfig  `mapstructure:"history"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/breeze/config.yaml
//   - $HOME/.config/breeze/config.yaml
//
// Environment variables are prefixed with BREEZE_
// (e.g. BREEZE_DEPLOYER_PATH).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "breeze"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "breeze"))

	v.SetEnvPrefix("BREEZE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	v.SetDefault("history.path", filepath.Join(homeDir, ".config", "breeze", "history"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.HasPrefix(cfg.History.Path, "~") {
		cfg.History.Path = filepath.Join(homeDir, cfg.History.Path[1:])
	}

	return &cfg, nil
}

// SetDefaults registers the default values on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("deployer.path", DefaultDeployerBinary)
	v.SetDefault("deployer.timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("dirs.roms", DefaultROMsDir)
	v.SetDefault("dirs.menu_versions", DefaultMenuVersionsDir)
	v.SetDefault("dirs.menu_music", DefaultMenuMusicDir)
	v.SetDefault("remote.menu_path", DefaultMenuPath)
	v.SetDefault("remote.music_path", DefaultMusicPath)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.retention_days", DefaultHistoryRetentionDays)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "breeze"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "breeze"), nil
}

// HistoryDir returns the operation journal directory.
func HistoryDir() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "history"), nil
}

// StateDir returns $XDG_STATE_HOME/breeze/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "breeze")
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	historyDir, err := HistoryDir()
	if err != nil {
		return err
	}

	defaultConfig := fmt.Sprintf(`# Breeze Configuration

# External sc64deployer binary
deployer:
  # Path to the binary (bare name resolves via PATH)
  path: %s
  # Per-invocation timeout in seconds
  timeout_seconds: %d

# Local candidate directories (relative paths resolve from the working directory)
dirs:
  roms: %s
  menu_versions: %s
  menu_music: %s

# Well-known SD card paths
remote:
  menu_path: %s
  music_path: %s

# Operation journal
history:
  enabled: true
  path: %s
  retention_days: %d

# Logging
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means $XDG_STATE_HOME/breeze/breeze.log)
  path: ""
`, DefaultDeployerBinary, DefaultTimeoutSeconds,
		DefaultROMsDir, DefaultMenuVersionsDir, DefaultMenuMusicDir,
		DefaultMenuPath, DefaultMusicPath,
		historyDir, DefaultHistoryRetentionDays)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
