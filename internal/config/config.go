package config

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	Scanner ScannerConfig `mapstructure:"scanner"`
	AI      AIConfig      `mapstructure:"ai"`
	Fetcher FetcherConfig `mapstructure:"fetcher"`
	Push    PushConfig    `mapstructure:"push"`
	DB      DBConfig      `mapstructure:"db"`
	Ledger  LedgerConfig  `mapstructure:"ledger"`
}

var configFile = "./configs/config.yaml"

func Get() *Config {

	if value, _ := os.LookupEnv("CONFIG_PATH"); value != "" {
		configFile = value
	}

	config, err := loadConfig(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	setDefaults()

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("scanner.cron", "*/15 * * * *")
	viper.SetDefault("scanner.cycle_timeout", "10m")
	viper.SetDefault("scanner.source_timeout", "45s")
	viper.SetDefault("scanner.max_concurrent_sources", 4)
	viper.SetDefault("ai.model", "gemini-2.0-flash")
	viper.SetDefault("ai.max_html_length", 15000)
	viper.SetDefault("fetcher.timeout", "30s")
	viper.SetDefault("fetcher.headless", true)
	viper.SetDefault("fetcher.user_agent", "Mozilla/5.0 (compatible; CareerScoutBot/1.0)")
}

func bindEnvironmentVariables() error {
	var errs []error

	scanner, ai, fetcher := ScannerConfig{}, AIConfig{}, FetcherConfig{}
	push, db, ledger, logger := PushConfig{}, DBConfig{}, LedgerConfig{}, LoggerConfig{}

	if err := scanner.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("ScannerConfig: %w", err))
	}

	if err := ai.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("AIConfig: %w", err))
	}

	if err := fetcher.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("FetcherConfig: %w", err))
	}

	if err := push.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("PushConfig: %w", err))
	}

	if err := db.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := ledger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LedgerConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.Scanner.validate(); err != nil {
		errs = append(errs, fmt.Errorf("ScannerConfig: %w", err))
	}

	if err := config.AI.validate(); err != nil {
		errs = append(errs, fmt.Errorf("AIConfig: %w", err))
	}

	if err := config.Fetcher.validate(); err != nil {
		errs = append(errs, fmt.Errorf("FetcherConfig: %w", err))
	}

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.Ledger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LedgerConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func createMultiError(errs []error) error {
	return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
}
