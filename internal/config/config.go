// Package config loads the skill's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pricofy/wolfram-skill/internal/wolfram"
)

// Config holds everything the hosts need to build a handler.
type Config struct {
	SkillID        string        `mapstructure:"skill_id"`
	WolframID      string        `mapstructure:"wolfram_id"`
	WolframAPIURL  string        `mapstructure:"wolfram_api_url"`
	WolframTimeout time.Duration `mapstructure:"wolfram_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	Environment    string        `mapstructure:"environment"`
	HTTPPort       int           `mapstructure:"http_port"`
	PushgatewayURL string        `mapstructure:"pushgateway_url"`
	FunctionName   string        `mapstructure:"aws_lambda_function_name"`
}

var (
	// ErrMissingSkillID is returned when SKILL_ID is not set.
	ErrMissingSkillID = errors.New("SKILL_ID is required")
	// ErrMissingWolframID is returned when WOLFRAM_ID is not set.
	ErrMissingWolframID = errors.New("WOLFRAM_ID is required")
)

var keys = []string{
	"skill_id",
	"wolfram_id",
	"wolfram_api_url",
	"wolfram_timeout",
	"log_level",
	"log_format",
	"environment",
	"http_port",
	"pushgateway_url",
	"aws_lambda_function_name",
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("wolfram_api_url", wolfram.DefaultBaseURL)
	v.SetDefault("wolfram_timeout", "0s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("environment", "dev")
	v.SetDefault("http_port", 8080)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about.
	for _, key := range keys {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the required settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SkillID) == "" {
		return ErrMissingSkillID
	}
	if strings.TrimSpace(c.WolframID) == "" {
		return ErrMissingWolframID
	}
	if c.WolframTimeout < 0 {
		return fmt.Errorf("WOLFRAM_TIMEOUT must not be negative, got %s", c.WolframTimeout)
	}
	return nil
}

// Wolfram returns the upstream client settings.
func (c *Config) Wolfram() wolfram.Config {
	return wolfram.Config{
		AppID:   c.WolframID,
		BaseURL: c.WolframAPIURL,
		Timeout: c.WolframTimeout,
	}
}
