package config

import "github.com/spf13/viper"

type PushConfig struct {
	// AccessToken is optional: Expo only requires it for accounts with
	// enhanced push security enabled.
	AccessToken          string  `mapstructure:"access_token"`
	MaxRequestsPerSecond float32 `mapstructure:"max_requests_per_second"`
}

func (config PushConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("push.access_token", "EXPO_ACCESS_TOKEN"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("push.max_requests_per_second", "PUSH_MAX_REQUESTS_PER_SECOND"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
