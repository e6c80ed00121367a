package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type LedgerConfig struct {
	RedisAddress  string `mapstructure:"redis_address"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

func (config LedgerConfig) validate() error {
	if config.RedisAddress == "" {
		return fmt.Errorf("missing variable: redis address")
	}
	return nil
}

func (config LedgerConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("ledger.redis_address", "REDIS_ADDRESS"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("ledger.redis_password", "REDIS_PASSWORD"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("ledger.redis_db", "REDIS_DB"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
