// Package cmd is the sparkle command-line interface.
//
// Settings come from, highest priority first: command-line flags, SPARKLE_*
// environment variables (SPARKLE_SERVER_PORT, SPARKLE_ASSETS_GATE_TIMEOUT,
// ...), the file named by --config or SPARKLE_CONFIG_FILE, and finally
// .sparkle.yml in the working directory.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/sparkle/internal/config"
	"github.com/conneroisu/sparkle/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sparkle",
	Short: "Static storefront generator for the SilverHub jewelry shop",
	Long: `sparkle renders the SilverHub storefront to static HTML.

Every page waits until the images its sections depend on have loaded (or a
gate timeout passes) before it is written, so no page ships a half-loaded
layout.

Quick Start:
  sparkle init        Write .sparkle.yml and theme.toml
  sparkle build       Generate the site into dist/
  sparkle serve       Preview with live reload
  sparkle audit       Check generated pages for accessibility problems`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .sparkle.yml, or $SPARKLE_CONFIG_FILE)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	bindFlag(rootCmd, "logging.level", "log-level")
	bindFlag(rootCmd, "logging.format", "log-format")
}

func initConfig() {
	config.Init(viper.GetViper(), cfgFile)
	if err := config.Read(viper.GetViper()); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}
}

// loadConfig decodes the merged configuration and builds the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, logging.Logger, error) {
	if err := bindFlags(cmd); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewLogger(cfg.LoggerConfig())
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug(cmd.Context(), "Using config file", "path", used)
	}
	return cfg, logger, nil
}
