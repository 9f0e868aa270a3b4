// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Discord   DiscordConfig   `yaml:"discord"`
	Node      NodeConfig      `yaml:"node"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	AutoQueue AutoQueueConfig `yaml:"autoqueue"`
}

// DiscordConfig represents Discord gateway configuration.
type DiscordConfig struct {
	Token  string `yaml:"token" validate:"required"`
	Prefix string `yaml:"prefix" default:"'"`
}

// NodeConfig represents audio node connection configuration.
type NodeConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"2333" validate:"gte=1,lte=65535"`
	Password string `yaml:"password" validate:"required"`
	Secure   bool   `yaml:"secure"`
}

// DatabaseConfig represents playlist database configuration.
type DatabaseConfig struct {
	Path string `yaml:"path" default:"tune.db"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	File  string `yaml:"file" default:"discord.log"`
	Level string `yaml:"level" default:"info"`
}

// AutoQueueConfig represents recommendation configuration.
type AutoQueueConfig struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig represents a single recommendation provider configuration.
type ProviderConfig struct {
	Type     string         `yaml:"type" validate:"required"`
	Settings map[string]any `yaml:"settings"`
}

// Load loads configuration from a YAML file. The file is optional; when it
// does not exist, the configuration is built from environment variables and
// defaults alone. Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	case os.IsNotExist(err):
		// env-only configuration
	default:
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("TOKEN"); v != "" {
		c.Discord.Token = v
	}
	if v := os.Getenv("LL_HOST"); v != "" {
		c.Node.Host = v
	}
	if v := os.Getenv("LL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Node.Port = port
		}
	}
	if v := os.Getenv("LL_PASSWORD"); v != "" {
		c.Node.Password = v
	}
	if v := os.Getenv("LL_SECURE"); v != "" {
		if secure, err := strconv.ParseBool(v); err == nil {
			c.Node.Secure = secure
		}
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
