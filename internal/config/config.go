// Package config loads sparkle settings with Viper from .sparkle.yml,
// SPARKLE_ environment variables and command-line flags.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	serrors "github.com/conneroisu/sparkle/internal/errors"
	"github.com/conneroisu/sparkle/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. SPARKLE_SERVER_PORT.
const EnvPrefix = "SPARKLE"

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".sparkle.yml"

// FileEnv names an explicit config file.
const FileEnv = "SPARKLE_CONFIG_FILE"

var envReplacer = strings.NewReplacer(".", "_")

type Config struct {
	Site    SiteConfig    `mapstructure:"site" yaml:"site"`
	Assets  AssetsConfig  `mapstructure:"assets" yaml:"assets"`
	Build   BuildConfig   `mapstructure:"build" yaml:"build"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Theme   ThemeConfig   `mapstructure:"theme" yaml:"theme"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

type SiteConfig struct {
	Title   string `mapstructure:"title" yaml:"title"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

type AssetsConfig struct {
	PublicDir   string        `mapstructure:"public_dir" yaml:"public_dir"`
	LoadTimeout time.Duration `mapstructure:"load_timeout" yaml:"load_timeout"`
	GateTimeout time.Duration `mapstructure:"gate_timeout" yaml:"gate_timeout"`
}

type BuildConfig struct {
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
	Concurrency int    `mapstructure:"concurrency" yaml:"concurrency"`
	Sitemap     bool   `mapstructure:"sitemap" yaml:"sitemap"`
	Robots      bool   `mapstructure:"robots" yaml:"robots"`
	Minify      bool   `mapstructure:"minify" yaml:"minify"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host" yaml:"host"`
	Port           int      `mapstructure:"port" yaml:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type ThemeConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("site.title", "SilverHub")
	v.SetDefault("site.base_url", "http://localhost:8080")
	v.SetDefault("assets.public_dir", "public")
	v.SetDefault("assets.load_timeout", 3*time.Second)
	v.SetDefault("assets.gate_timeout", 5*time.Second)
	v.SetDefault("build.output_dir", "dist")
	v.SetDefault("build.concurrency", 4)
	v.SetDefault("build.sitemap", true)
	v.SetDefault("build.robots", true)
	v.SetDefault("build.minify", false)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("theme.file", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Init prepares v to read file, or SPARKLE_CONFIG_FILE, or .sparkle.yml,
// and to honor SPARKLE_ environment overrides.
func Init(v *viper.Viper, file string) {
	SetDefaults(v)

	if file == "" {
		file = os.Getenv(FileEnv)
	}
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".sparkle")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()
}

// Read loads the config file if one exists. A missing default file is not
// an error; a missing explicit file is.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return serrors.Wrap(err, serrors.ErrorTypeConfig, serrors.ErrCodeInvalidConfig, "failed to read config file")
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, serrors.Wrap(err, serrors.ErrorTypeConfig, serrors.ErrCodeInvalidConfig, "failed to decode config")
	}
	if cfg.Server.AllowedOrigins == nil {
		cfg.Server.AllowedOrigins = []string{}
	}

	result := Validate(&cfg)
	if result.HasErrors() {
		first := result.Errors[0]
		return nil, serrors.NewConfigError(serrors.ErrCodeInvalidConfig, "invalid configuration: "+first.Error()).
			WithContext("field", first.Field).
			WithContext("problems", len(result.Errors))
	}
	return &cfg, nil
}

// LoggerConfig translates the logging section. Level was validated by Load.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	lc := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Logging.Level); err == nil {
		lc.Level = level
	}
	lc.Format = c.Logging.Format
	return lc
}
