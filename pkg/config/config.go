// Package config loads agentshelf settings from flags, AGENTSHELF_* environment
// variables and an optional config.yaml, in that order of precedence.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/jingkaihe/agentshelf/pkg/catalog"
)

// EnvPrefix is the prefix of every environment variable read by viper
const EnvPrefix = "AGENTSHELF"

// Config holds all agentshelf settings
type Config struct {
	AgentsDir   string      `mapstructure:"agents_dir"`
	CommandsDir string      `mapstructure:"commands_dir"`
	Pattern     string      `mapstructure:"pattern"`
	Locale      string      `mapstructure:"locale"`
	ErrorPolicy string      `mapstructure:"error_policy"`
	Concurrency int         `mapstructure:"concurrency"`
	LogLevel    string      `mapstructure:"log_level"`
	LogFormat   string      `mapstructure:"log_format"`
	Serve       ServeConfig `mapstructure:"serve"`
	Build       BuildConfig `mapstructure:"build"`
}

// ServeConfig holds the web UI server settings
type ServeConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// BuildConfig holds the static site export settings
type BuildConfig struct {
	OutDir string `mapstructure:"out_dir"`
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("agents_dir", catalog.DefaultAgentsDir)
	v.SetDefault("commands_dir", catalog.DefaultCommandsDir)
	v.SetDefault("pattern", catalog.DefaultPattern)
	v.SetDefault("locale", catalog.DefaultLocale)
	v.SetDefault("error_policy", string(catalog.PolicyFail))
	v.SetDefault("concurrency", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "fmt")
	v.SetDefault("serve.host", "localhost")
	v.SetDefault("serve.port", 8080)
	v.SetDefault("build.out_dir", "out")
}

// Init wires environment variables and the config file into v. An explicit
// configFile must exist; otherwise config.yaml is looked up in $HOME/.agentshelf
// and the working directory, and a missing file is not an error.
func Init(v *viper.Viper, configFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file '%s'", configFile)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.agentshelf")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read config file")
		}
	}
	return nil
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Validate checks every setting without touching the filesystem
func (c Config) Validate() error {
	if _, err := catalog.NewLoader(c.LoaderOptions()...); err != nil {
		return err
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "invalid log level '%s'", c.LogLevel)
	}

	switch c.LogFormat {
	case "fmt", "text", "json":
	default:
		return errors.Errorf("invalid log format '%s', must be one of: fmt, text, json", c.LogFormat)
	}

	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Serve.Port)
	}

	if c.Build.OutDir == "" {
		return errors.New("build output directory cannot be empty")
	}

	return nil
}

// LoaderOptions translates the catalog settings into loader options
func (c Config) LoaderOptions() []catalog.Option {
	return []catalog.Option{
		catalog.WithAgentsDir(c.AgentsDir),
		catalog.WithCommandsDir(c.CommandsDir),
		catalog.WithPattern(c.Pattern),
		catalog.WithLocale(c.Locale),
		catalog.WithErrorPolicy(catalog.ErrorPolicy(c.ErrorPolicy)),
		catalog.WithConcurrency(c.Concurrency),
	}
}

// NewLoader creates a catalog loader from the configuration
func (c Config) NewLoader() (*catalog.Loader, error) {
	loader, err := catalog.NewLoader(c.LoaderOptions()...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create catalog loader")
	}
	return loader, nil
}
