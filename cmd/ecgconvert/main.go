// Package main is the entry point for the ecgconvert CLI.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ecg-converter/internal/config"
	"ecg-converter/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

var settings *viper.Viper

// rootCmd is the base command. Without a subcommand it opens the GUI.
var rootCmd = &cobra.Command{
	Use:   "ecgconvert",
	Short: "Batch-convert ECG records, optionally de-identifying them",
	Long: `ecgconvert converts every ECG record in a folder to another format using
the external ECGTool converter. With --anonymize each record is first staged as
MUSE-XML, its patient demographics are replaced by SHA-256 pseudonyms, and an
anonymization_key.csv audit file is written next to the converted files.

Run without a subcommand to open the desktop interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		v, err := config.New(cfgFile)
		if err != nil {
			return err
		}
		settings = v
		if used := v.ConfigFileUsed(); used != "" {
			fmt.Fprintln(os.Stderr, "Using config file:", used)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGUI(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ecgconvert.yaml or ~/.config/ecgconvert/ecgconvert.yaml)")
	rootCmd.PersistentFlags().String("tool", "", "converter executable (default: ECGTool)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default: info)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json (default: console)")
}

// loadSettings binds the command's flags to their config keys and returns the
// resolved configuration with a logger built from it.
func loadSettings(cmd *cobra.Command, keys map[string]string) (*config.Config, zerolog.Logger, error) {
	all := map[string]string{
		"tool":       "tool",
		"log_level":  "log-level",
		"log_format": "log-format",
	}
	for k, f := range keys {
		all[k] = f
	}

	for key, name := range all {
		if err := bindFlag(cmd.Flags().Lookup(name), key); err != nil {
			return nil, zerolog.Nop(), err
		}
	}

	cfg, err := config.Load(settings)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	return cfg, logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat), nil
}

// bindFlag only lets a flag win when it was set explicitly, so that empty
// flag defaults never shadow config file or environment values.
func bindFlag(f *pflag.Flag, key string) error {
	if f == nil || !f.Changed {
		return nil
	}
	return settings.BindPFlag(key, f)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
