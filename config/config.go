// Package config loads orchestrator settings from an optional YAML file and
// A2AHOST_-prefixed environment variables, mirroring the registry runner's
// conventions (REGISTRY_URL, refresh interval, hop bound, timeouts).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full orchestrator configuration tree.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Registry RegistryConfig `mapstructure:"registry"`
	Host     HostConfig     `mapstructure:"host"`
	Executor ExecutorConfig `mapstructure:"executor"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	EnableCORS bool   `mapstructure:"enable_cors"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// RegistryConfig configures the external registry collaborator.
type RegistryConfig struct {
	URL             string        `mapstructure:"url"`
	APIKey          string        `mapstructure:"api_key"`
	LoadOnStartup   bool          `mapstructure:"load_on_startup"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	PageSize        int           `mapstructure:"page_size"`
	MaxAgents       int           `mapstructure:"max_agents"`
}

// HostConfig configures the delegation orchestrator.
type HostConfig struct {
	MaxHops int `mapstructure:"max_hops"`
}

// ExecutorConfig configures remote agent execution.
type ExecutorConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	BearerToken string        `mapstructure:"bearer_token"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file path (optional; "" skips the
// file) plus environment variables. Environment keys use the A2AHOST_ prefix
// with underscores, e.g. A2AHOST_REGISTRY_URL.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.enable_cors", true)
	v.SetDefault("registry.url", "http://localhost:8000")
	v.SetDefault("registry.api_key", "")
	v.SetDefault("registry.load_on_startup", true)
	v.SetDefault("registry.refresh_interval", 5*time.Minute)
	v.SetDefault("registry.page_size", 50)
	v.SetDefault("registry.max_agents", 500)
	v.SetDefault("host.max_hops", 3)
	v.SetDefault("executor.timeout", 30*time.Second)
	v.SetDefault("executor.bearer_token", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetEnvPrefix("A2AHOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
