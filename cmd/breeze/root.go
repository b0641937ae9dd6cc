package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/breeze64/breeze/pkg/breeze/config"
	"github.com/breeze64/breeze/pkg/breeze/deployer"
	"github.com/breeze64/breeze/pkg/breeze/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "breeze",
		Short: "Manage a SummerCart64 flash cartridge",
		Long: `Breeze is a friendly front end for the sc64deployer binary.

It keeps a local library of ROMs, menu builds, and menu music, and
moves files to and from the cart's SD card. The SD card is only
reachable while the N64 is powered on.

Examples:
  breeze status              # Device and SD card status
  breeze compare             # Show local ROMs missing on the cart
  breeze upload --all        # Upload everything that's missing
  breeze menu                # Backup-then-replace the SC64 menu
  breeze browse              # Interactive SD card browser`,
		SilenceUsage:      true,
		PersistentPreRunE: initLogging,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/breeze/config.yaml)")
	rootCmd.PersistentFlags().StringP("deployer", "D", "", "path to the sc64deployer binary")
	rootCmd.PersistentFlags().IntP("timeout", "t", 0, "per-invocation timeout in seconds (0=config default)")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "output JSON format")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	_ = viper.BindPFlag("deployer.path", rootCmd.PersistentFlags().Lookup("deployer"))
	_ = viper.BindPFlag("deployer.timeout_seconds", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "breeze"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "breeze"))
		}
	}

	viper.SetEnvPrefix("BREEZE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	_ = viper.ReadInConfig()
}

// initLogging brings up the file logger before any command runs.
func initLogging(cmd *cobra.Command, args []string) error {
	level := viper.GetString("logging.level")
	if getVerbose() {
		level = "debug"
	}

	cfg := logging.Config{
		Level:    level,
		Path:     viper.GetString("logging.path"),
		Rotation: logging.DefaultRotationConfig(),
	}
	if err := logging.Init(cfg); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig materializes the effective configuration, including any
// flag and environment overrides bound into viper.
func loadConfig() (*config.Config, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Deployer.Path == "" {
		cfg.Deployer.Path = config.DefaultDeployerBinary
	}
	if cfg.Deployer.TimeoutSeconds <= 0 {
		cfg.Deployer.TimeoutSeconds = config.DefaultTimeoutSeconds
	}
	return &cfg, nil
}

// newClient builds the deployer client from the effective configuration.
func newClient(cfg *config.Config) *deployer.Client {
	inv := &deployer.ExecInvoker{
		Binary:  cfg.Deployer.Path,
		Timeout: time.Duration(cfg.Deployer.TimeoutSeconds) * time.Second,
	}
	return deployer.NewClient(inv)
}

// jsonOutput returns true if JSON output was requested.
func jsonOutput() bool {
	return viper.GetBool("json")
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
