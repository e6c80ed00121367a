package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type FetcherConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	Headless  bool          `mapstructure:"headless"`
}

func (config FetcherConfig) validate() error {
	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func (config FetcherConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("fetcher.timeout", "FETCHER_TIMEOUT"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("fetcher.user_agent", "FETCHER_USER_AGENT"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("fetcher.headless", "FETCHER_HEADLESS"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
