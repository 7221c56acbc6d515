/**
 * @description
 * This package handles the configuration management for the notification-service.
 * It uses the Viper library to read settings from environment variables or a
 * local .env file, providing a centralized way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */
package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the notification-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort           string `mapstructure:"SERVER_PORT"`
	DatabaseURL          string `mapstructure:"DATABASE_URL"`
	RedisURL             string `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix string `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	RabbitMQURL          string `mapstructure:"RABBITMQ_URL"`
	TransactionExchange  string `mapstructure:"TRANSACTION_EVENT_EXCHANGE"`
	TransactionQueue     string `mapstructure:"TRANSACTION_EVENT_QUEUE"`
	TransactionRouteKey  string `mapstructure:"TRANSACTION_EVENT_ROUTING_KEY"`

	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      int    `mapstructure:"SMTP_PORT"`
	SMTPUser      string `mapstructure:"SMTP_USER"`
	SMTPPassword  string `mapstructure:"SMTP_PASSWORD"`
	SMTPFromEmail string `mapstructure:"SMTP_FROM_EMAIL"`

	OTPTokenSecret         string `mapstructure:"OTP_TOKEN_SECRET"`
	OTPIssueLimit          int    `mapstructure:"OTP_ISSUE_LIMIT"`
	OTPIssueWindowSeconds  int    `mapstructure:"OTP_ISSUE_WINDOW_SECONDS"`
	OTPVerifyLimit         int    `mapstructure:"OTP_VERIFY_LIMIT"`
	OTPVerifyWindowSeconds int    `mapstructure:"OTP_VERIFY_WINDOW_SECONDS"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8084")
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "moneypay:rate_limit")
	viper.SetDefault("TRANSACTION_EVENT_EXCHANGE", "moneypay.events")
	viper.SetDefault("TRANSACTION_EVENT_QUEUE", "notification_service.transfer_alerts")
	viper.SetDefault("TRANSACTION_EVENT_ROUTING_KEY", "transaction.completed")
	viper.SetDefault("SMTP_HOST", "smtp.hostinger.com")
	viper.SetDefault("SMTP_PORT", 465)
	viper.SetDefault("SMTP_FROM_EMAIL", "no-reply@money-pay.online")
	viper.SetDefault("OTP_ISSUE_LIMIT", 5)
	viper.SetDefault("OTP_ISSUE_WINDOW_SECONDS", 900)
	viper.SetDefault("OTP_VERIFY_LIMIT", 10)
	viper.SetDefault("OTP_VERIFY_WINDOW_SECONDS", 600)

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("TRANSACTION_EVENT_EXCHANGE")
	_ = viper.BindEnv("TRANSACTION_EVENT_QUEUE")
	_ = viper.BindEnv("TRANSACTION_EVENT_ROUTING_KEY")
	_ = viper.BindEnv("SMTP_HOST")
	_ = viper.BindEnv("SMTP_PORT")
	_ = viper.BindEnv("SMTP_USER")
	_ = viper.BindEnv("SMTP_PASSWORD")
	_ = viper.BindEnv("SMTP_FROM_EMAIL")
	_ = viper.BindEnv("OTP_TOKEN_SECRET")
	_ = viper.BindEnv("OTP_ISSUE_LIMIT")
	_ = viper.BindEnv("OTP_ISSUE_WINDOW_SECONDS")
	_ = viper.BindEnv("OTP_VERIFY_LIMIT")
	_ = viper.BindEnv("OTP_VERIFY_WINDOW_SECONDS")

	// Read the config file if it exists.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Error reading config file: %s", err)
		}
		err = nil
	}

	// Unmarshal the config into the Config struct.
	if err = viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode config into struct: %v", err)
	}

	return
}
