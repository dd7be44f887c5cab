package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/benmed00/lucid-web-craftsman-sub003/database"
	"github.com/benmed00/lucid-web-craftsman-sub003/services"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the order lifecycle service.
type Config struct {
	Port         string
	ServiceToken string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	KafkaBrokers     []string
	KafkaTopic       string
	OrderSNSTopicARN string

	PayPalClientID     string
	PayPalClientSecret string
	PayPalSandbox      bool
	StripeSecretKey    string

	PaymentAmountEpsilon decimal.Decimal
	PaymentTimeout       time.Duration
}

// PostgresConfig builds the database connection config.
func (c *Config) PostgresConfig() database.PostgresConfig {
	return database.PostgresConfig{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPassword,
		DBName:   c.PostgresDB,
		SSLMode:  c.PostgresSSLMode,
		TimeZone: c.PostgresTimeZone,
	}
}

// PaymentConfig builds the payment verifier tunables.
func (c *Config) PaymentConfig() services.PaymentConfig {
	return services.PaymentConfig{
		AmountEpsilon:   c.PaymentAmountEpsilon,
		ProviderTimeout: c.PaymentTimeout,
	}
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8086"),
		ServiceToken: os.Getenv("SERVICE_TOKEN"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "Europe/Paris"),

		KafkaTopic:       getEnv("KAFKA_ORDER_EVENTS_TOPIC", "order-events"),
		OrderSNSTopicARN: os.Getenv("ORDER_SNS_TOPIC_ARN"),

		PayPalClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		PayPalSandbox:      getEnv("PAYPAL_ENV", "sandbox") != "live",
		StripeSecretKey:    os.Getenv("STRIPE_SECRET_KEY"),

		PaymentAmountEpsilon: decimal.NewFromFloat(0.02),
		PaymentTimeout:       20 * time.Second,
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if raw := os.Getenv("PAYMENT_AMOUNT_EPSILON"); raw != "" {
		eps, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PAYMENT_AMOUNT_EPSILON %q: %w", raw, err)
		}
		cfg.PaymentAmountEpsilon = eps
	}
	if raw := os.Getenv("PAYMENT_PROVIDER_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid PAYMENT_PROVIDER_TIMEOUT_SECONDS %q", raw)
		}
		cfg.PaymentTimeout = time.Duration(secs) * time.Second
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
