package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/weft/pkg/preset"
)

// Config represents the weft configuration file (~/.config/weft/config.yaml).
type Config struct {
	// Tokenizer selection
	DefaultPreset string `yaml:"default_preset"`

	// Asset fetching
	CacheDir  string `yaml:"cache_dir"`
	AssetBase string `yaml:"asset_base"`

	// Encoding defaults. A pointer distinguishes "not set" from zero.
	SequenceLength *int64 `yaml:"sequence_length"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "weft", "config.yaml")
}

// applyCommonConfig applies config file defaults shared by every
// command: logging and asset fetching. Environment variables win over
// the config file for the fetch settings.
func applyCommonConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if cfg.CacheDir != "" && os.Getenv(preset.EnvCacheDir) == "" {
		_ = os.Setenv(preset.EnvCacheDir, cfg.CacheDir)
	}
	if cfg.AssetBase != "" && os.Getenv(preset.EnvAssetBase) == "" {
		_ = os.Setenv(preset.EnvAssetBase, cfg.AssetBase)
	}
}

// applyTokenizerConfig fills the tokenizer selection flags from the
// config file when not explicitly set. A --vocab flag always beats the
// configured default preset.
func applyTokenizerConfig(c *cli.Command, cfg Config) {
	applyCommonConfig(c, cfg)
	if cfg.DefaultPreset != "" && !c.IsSet("preset") && vocabPath == "" {
		presetName = cfg.DefaultPreset
	}
}

func applyEncodeConfig(c *cli.Command, cfg Config, packLength *int64) {
	if cfg.SequenceLength != nil && !c.IsSet("pack") {
		*packLength = *cfg.SequenceLength
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr, defaultPreset *string) {
	applyCommonConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.DefaultPreset != "" && !c.IsSet("preset") {
		*defaultPreset = cfg.DefaultPreset
	}
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or cannot be parsed.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}
