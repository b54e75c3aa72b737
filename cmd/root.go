package cmd

import (
	"fmt"
	"os"

	"donlouis-backend/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "donlouis",
	Short: "Ordering backend for the Don Louis restaurant",
	Long: `donlouis serves the menu, checkout, loyalty and order tracking API
for the Don Louis restaurant, and ships the admin tooling around it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(serveCmd, hashPinCmd, genSecretCmd, seedCmd)
}

// loadSettings resolves the settings every command runs with and installs
// them as config.App.
func loadSettings() (*config.Settings, error) {
	settings, err := config.LoadSettings(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, err
	}
	if _, err := config.InitLogger(settings.LogLevel, settings.LogFormat); err != nil {
		return nil, err
	}
	config.App = settings
	return settings, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
