package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/breeze64/breeze/pkg/breeze/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage breeze configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/breeze/config.yaml (if set)
  2. ~/.config/breeze/config.yaml

Environment variables can override config file settings using the BREEZE_ prefix:
  BREEZE_DEPLOYER_PATH=/opt/sc64/sc64deployer
  BREEZE_DIRS_ROMS=~/n64/roms`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("deployer.path:            %s\n", cfg.Deployer.Path)
	fmt.Printf("deployer.timeout_seconds: %d\n", cfg.Deployer.TimeoutSeconds)
	fmt.Printf("dirs.roms:                %s\n", cfg.Dirs.ROMs)
	fmt.Printf("dirs.menu_versions:       %s\n", cfg.Dirs.MenuVersions)
	fmt.Printf("dirs.menu_music:          %s\n", cfg.Dirs.MenuMusic)
	fmt.Printf("remote.menu_path:         %s\n", cfg.Remote.MenuPath)
	fmt.Printf("remote.music_path:        %s\n", cfg.Remote.MusicPath)
	fmt.Printf("history.enabled:          %t\n", cfg.History.Enabled)
	fmt.Printf("history.path:             %s\n", cfg.History.Path)
	fmt.Printf("history.retention_days:   %d\n", cfg.History.RetentionDays)
	fmt.Printf("logging.level:            %s\n", cfg.Logging.Level)

	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	envVars := []string{
		"BREEZE_DEPLOYER_PATH",
		"BREEZE_DEPLOYER_TIMEOUT_SECONDS",
		"BREEZE_DIRS_ROMS",
		"BREEZE_DIRS_MENU_VERSIONS",
		"BREEZE_DIRS_MENU_MUSIC",
		"BREEZE_REMOTE_MENU_PATH",
		"BREEZE_REMOTE_MUSIC_PATH",
		"BREEZE_HISTORY_ENABLED",
		"BREEZE_HISTORY_PATH",
		"BREEZE_LOGGING_LEVEL",
	}

	anyOverrides := false
	for _, name := range envVars {
		if val := os.Getenv(name); val != "" {
			fmt.Printf("%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'breeze config edit' to modify it.")
		return nil
	}

	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	fmt.Println(filepath.Join(configDir, "config.yaml"))
	return nil
}
