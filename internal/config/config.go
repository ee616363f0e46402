// Package config loads application configuration and sets up the global
// logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	GitHub  GitHubConfig  `yaml:"github" mapstructure:"github"`
	Publish PublishConfig `yaml:"publish" mapstructure:"publish"`
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
	Brands  BrandsConfig  `yaml:"brands" mapstructure:"brands"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// GitHubConfig holds GitHub API credentials and publish target defaults.
type GitHubConfig struct {
	Token string `yaml:"token" mapstructure:"token"`
	Owner string `yaml:"owner" mapstructure:"owner"`
	Repo  string `yaml:"repo" mapstructure:"repo"`
}

// PublishConfig configures filename and branch conventions.
type PublishConfig struct {
	Branch        string `yaml:"branch" mapstructure:"branch"`
	MainFilename  string `yaml:"main_filename" mapstructure:"main_filename"`
	SlotPrefix    string `yaml:"slot_prefix" mapstructure:"slot_prefix"`
	SlotExtension string `yaml:"slot_extension" mapstructure:"slot_extension"`
}

// RenderConfig configures widget generation.
type RenderConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
	TopN      int    `yaml:"top_n" mapstructure:"top_n"`
}

// BrandsConfig points at an optional brand override file.
type BrandsConfig struct {
	OverridesFile string `yaml:"overrides_file" mapstructure:"overrides_file"`
}

// HistoryConfig configures the publication history database.
type HistoryConfig struct {
	DatabasePath string `yaml:"database_path" mapstructure:"database_path"`
}

// BatchConfig configures batch rendering.
type BatchConfig struct {
	MaxConcurrentJobs int `yaml:"max_concurrent_jobs" mapstructure:"max_concurrent_jobs"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EMBEDFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credential keys get empty defaults so AutomaticEnv can
	// populate them without a config file entry.
	v.SetDefault("github.token", "")
	v.SetDefault("github.owner", "")
	v.SetDefault("github.repo", "")
	v.SetDefault("brands.overrides_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("publish.branch", "main")
	v.SetDefault("publish.main_filename", "widget.html")
	v.SetDefault("publish.slot_prefix", "w")
	v.SetDefault("publish.slot_extension", ".html")
	v.SetDefault("render.output_dir", "out")
	v.SetDefault("render.top_n", 10)
	v.SetDefault("history.database_path", "embedforge.db")
	v.SetDefault("batch.max_concurrent_jobs", 4)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
