// Package config loads run settings from flags, environment and an optional
// ecgconvert.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"ecg-converter/internal/converter"
	"ecg-converter/internal/ecg"
	"ecg-converter/internal/pipeline"
)

// EnvPrefix is prepended to every environment variable, e.g. ECGCONVERT_TOOL.
const EnvPrefix = "ECGCONVERT"

// Config holds the settings of one conversion run.
type Config struct {
	Input       string `mapstructure:"input"`
	Output      string `mapstructure:"output"`
	Format      string `mapstructure:"format"`
	Anonymize   bool   `mapstructure:"anonymize"`
	Tool        string `mapstructure:"tool"`
	SkipInvalid bool   `mapstructure:"skip_invalid"`
	ErrorLog    string `mapstructure:"error_log"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input", "")
	v.SetDefault("output", "")
	v.SetDefault("format", ecg.FormatDICOM.Name)
	v.SetDefault("anonymize", false)
	v.SetDefault("tool", converter.DefaultTool)
	v.SetDefault("skip_invalid", false)
	v.SetDefault("error_log", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// New returns a viper instance with defaults, environment binding and the
// config file read. cfgFile overrides the search for ecgconvert.yaml in the
// working directory and ~/.config/ecgconvert. A missing file is not an error.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("ecgconvert")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "ecgconvert"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if _, err := ecg.LookupFormat(cfg.Format); err != nil {
		return nil, err
	}
	switch cfg.LogFormat {
	case "console", "json":
	default:
		return nil, fmt.Errorf("log_format must be console or json, got %q", cfg.LogFormat)
	}
	if strings.TrimSpace(cfg.Tool) == "" {
		cfg.Tool = converter.DefaultTool
	}

	return cfg, nil
}

// TargetFormat returns the configured output format.
func (c *Config) TargetFormat() ecg.TargetFormat {
	f, err := ecg.LookupFormat(c.Format)
	if err != nil {
		return ecg.FormatDICOM
	}
	return f
}

// PipelineConfig converts the settings into a pipeline run description.
func (c *Config) PipelineConfig() pipeline.Config {
	return pipeline.Config{
		InputDir:           c.Input,
		OutputDir:          c.Output,
		Format:             c.TargetFormat(),
		Anonymize:          c.Anonymize,
		SkipInvalidRecords: c.SkipInvalid,
	}
}
