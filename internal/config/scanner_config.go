package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ScannerConfig struct {
	CronSpec             string        `mapstructure:"cron"`
	CycleTimeout         time.Duration `mapstructure:"cycle_timeout"`
	SourceTimeout        time.Duration `mapstructure:"source_timeout"`
	MaxConcurrentSources int           `mapstructure:"max_concurrent_sources"`
}

func (config ScannerConfig) validate() error {

	if config.CronSpec == "" {
		return fmt.Errorf("missing variable: cron")
	}

	if config.CycleTimeout <= 0 {
		return fmt.Errorf("cycle timeout must be positive")
	}

	if config.SourceTimeout <= 0 {
		return fmt.Errorf("source timeout must be positive")
	}

	if config.SourceTimeout > config.CycleTimeout {
		return fmt.Errorf("source timeout can't exceed cycle timeout")
	}

	if config.MaxConcurrentSources <= 0 {
		return fmt.Errorf("max concurrent sources must be positive")
	}

	return nil
}

func (config ScannerConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("scanner.cron", "SCAN_CRON"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("scanner.cycle_timeout", "SCAN_CYCLE_TIMEOUT"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("scanner.source_timeout", "SCAN_SOURCE_TIMEOUT"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("scanner.max_concurrent_sources", "SCAN_MAX_CONCURRENT_SOURCES"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
