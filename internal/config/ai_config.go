package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type AIConfig struct {
	Key                  string  `mapstructure:"key"`
	Model                string  `mapstructure:"model"`
	MaxRequestsPerMinute float32 `mapstructure:"max_requests_per_minute"`
	MaxRequestsPerDay    float32 `mapstructure:"max_requests_per_day"`
	MaxHTMLLength        int     `mapstructure:"max_html_length"`
}

func (config AIConfig) validate() error {

	if config.Key == "" {
		return fmt.Errorf("missing required variables: key")
	}

	if config.MaxHTMLLength < 0 {
		return fmt.Errorf("max html length must be non-negative")
	}

	return nil
}

func (config AIConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("ai.key", "AI_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("ai.model", "AI_MODEL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("ai.max_requests_per_minute", "AI_MAX_REQUESTS_PER_MINUTE"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("ai.max_requests_per_day", "AI_MAX_REQUESTS_PER_DAY"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
