/**
 * @description
 * This package handles the configuration management for the service. It uses
 * the Viper library to read configuration from environment variables,
 * providing a centralized and straightforward way to manage application
 * settings, including the underwriting policy numbers.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the lending-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort           string `mapstructure:"SERVER_PORT"`
	DatabaseURL          string `mapstructure:"DATABASE_URL"`
	RabbitMQURL          string `mapstructure:"RABBITMQ_URL"`
	LendingEventQueue    string `mapstructure:"LENDING_EVENT_QUEUE"`
	BillingCycleSchedule string `mapstructure:"BILLING_CYCLE_SCHEDULE"`
	InternalAPIKey       string `mapstructure:"INTERNAL_API_KEY"`
	AllowedOrigins       string `mapstructure:"ALLOWED_ORIGINS"`

	// Underwriting and billing policy. Defaults match the product rules;
	// amounts are whole currency units.
	MinCreditScore   int   `mapstructure:"MIN_CREDIT_SCORE"`
	MinAnnualIncome  int64 `mapstructure:"MIN_ANNUAL_INCOME"`
	MaxLoanAmount    int64 `mapstructure:"MAX_LOAN_AMOUNT"`
	MaxInterestRate  int64 `mapstructure:"MAX_INTEREST_RATE"`
	MaxTermMonths    int   `mapstructure:"MAX_TERM_MONTHS"`
	BillingGraceDays int   `mapstructure:"BILLING_GRACE_DAYS"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LENDING_EVENT_QUEUE", "lending_service.credit_scoring")
	viper.SetDefault("BILLING_CYCLE_SCHEDULE", "0 2 * * *") // At 02:00 daily.
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("MIN_CREDIT_SCORE", 450)
	viper.SetDefault("MIN_ANNUAL_INCOME", 150000)
	viper.SetDefault("MAX_LOAN_AMOUNT", 500000)
	viper.SetDefault("MAX_INTEREST_RATE", 50)
	viper.SetDefault("MAX_TERM_MONTHS", 360)
	viper.SetDefault("BILLING_GRACE_DAYS", 30)

	// Bind environment variables explicitly to ensure they appear in Unmarshal.
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("LENDING_EVENT_QUEUE")
	_ = viper.BindEnv("BILLING_CYCLE_SCHEDULE")
	_ = viper.BindEnv("INTERNAL_API_KEY")
	_ = viper.BindEnv("ALLOWED_ORIGINS")
	_ = viper.BindEnv("MIN_CREDIT_SCORE")
	_ = viper.BindEnv("MIN_ANNUAL_INCOME")
	_ = viper.BindEnv("MAX_LOAN_AMOUNT")
	_ = viper.BindEnv("MAX_INTEREST_RATE")
	_ = viper.BindEnv("MAX_TERM_MONTHS")
	_ = viper.BindEnv("BILLING_GRACE_DAYS")

	// Attempt to read the optional .env file; environment variables still
	// apply when it is absent or unreadable.
	_ = viper.ReadInConfig()

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	// PORT, when set by the platform, wins over SERVER_PORT.
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}

	if config.BillingGraceDays <= 0 {
		config.BillingGraceDays = 30
	}
	if config.MaxTermMonths <= 0 {
		config.MaxTermMonths = 360
	}

	if strings.TrimSpace(config.DatabaseURL) == "" {
		return config, fmt.Errorf("DATABASE_URL must be configured")
	}

	return config, nil
}
